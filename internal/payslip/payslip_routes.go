package payslip

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
	slips := r.Group("/payroll-runs/:runId/payslips")
	slips.Use(middleware.AuthMiddleware())
	{
		slips.POST("", middleware.RBACAuthorize(rbacService, "payslip", "generate"), handler.Generate)
		slips.GET("", middleware.RBACAuthorize(rbacService, "payslip", "read"), handler.ListByRun)
		slips.GET("/:employeeId", middleware.RBACAuthorize(rbacService, "payslip", "read"), handler.GetByEmployee)
	}
}
