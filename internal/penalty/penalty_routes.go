package penalty

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
	penalties := r.Group("/payroll-runs/:runId/penalties")
	penalties.Use(middleware.AuthMiddleware())
	{
		penalties.POST("", middleware.RBACAuthorize(rbacService, "penalty", "create"), handler.Create)
		penalties.GET("", middleware.RBACAuthorize(rbacService, "penalty", "read"), handler.ListByRun)
	}
}
