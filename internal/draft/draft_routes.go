package draft

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
	drafts := r.Group("/payroll-runs/:runId/draft")
	drafts.Use(middleware.AuthMiddleware())
	{
		drafts.POST("", middleware.RBACAuthorize(rbacService, "payroll_draft", "generate"), handler.Generate)
		drafts.GET("", middleware.RBACAuthorize(rbacService, "payroll_draft", "read"), handler.GetItems)
		drafts.GET("/exceptions", middleware.RBACAuthorize(rbacService, "payroll_draft", "read"), handler.GetExceptions)
	}
}
