package approvallog

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
	actions := r.Group("/approval-actions")
	actions.Use(middleware.AuthMiddleware())
	{
		actions.GET("", middleware.RBACAuthorize(rbacService, "approval_log", "read"), handler.ListByTarget)
	}
}
