package payrollrun

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
	runs := r.Group("/payroll-runs")
	runs.Use(middleware.AuthMiddleware())
	{
		runs.GET("", middleware.RBACAuthorize(rbacService, "payroll_run", "read"), handler.GetAll)
		runs.GET("/next-run-id", middleware.RBACAuthorize(rbacService, "payroll_run", "create"), handler.NextRunID)
		runs.GET("/:runId", middleware.RBACAuthorize(rbacService, "payroll_run", "read"), handler.GetByRunID)
		runs.POST("", middleware.RBACAuthorize(rbacService, "payroll_run", "create"), handler.Create)

		runs.POST("/:runId/submit-for-review", middleware.RBACAuthorize(rbacService, "payroll_run", "submit"), handler.SubmitForReview)
		runs.POST("/:runId/manager-approve", middleware.RBACAuthorize(rbacService, "payroll_run", "approve"), handler.ManagerApprove)
		runs.POST("/:runId/finance-approve", middleware.RBACAuthorize(rbacService, "payroll_run", "approve"), handler.FinanceApprove)
		runs.POST("/:runId/reject", middleware.RBACAuthorize(rbacService, "payroll_run", "approve"), handler.Reject)
		runs.POST("/:runId/lock", middleware.RBACAuthorize(rbacService, "payroll_run", "lock"), handler.Lock)
		runs.POST("/:runId/unlock", middleware.RBACAuthorize(rbacService, "payroll_run", "lock"), handler.Unlock)
	}
}
