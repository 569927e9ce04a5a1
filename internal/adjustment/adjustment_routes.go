package adjustment

import (
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/middleware"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	adjustments := r.Group("/adjustments")
	adjustments.Use(middleware.AuthMiddleware())
	{
		adjustments.POST("", middleware.RBACAuthorize(rbacService, "adjustment", "create"), handler.Create)
		adjustments.GET("", middleware.RBACAuthorize(rbacService, "adjustment", "read"), handler.ListPending)
		adjustments.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "adjustment", "approve"), handler.Approve)
		adjustments.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "adjustment", "approve"), handler.Reject)
		adjustments.PATCH("/:id", middleware.RBACAuthorize(rbacService, "adjustment", "update"), handler.Edit)
	}
}
