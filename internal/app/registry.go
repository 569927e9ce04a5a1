package app

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/adjustment"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/approvallog"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/draft"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/messaging/kafka"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/middleware"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/payrollrun"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/payslip"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/penalty"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/rbac"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/rbac/infra"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	approvalLogRepo := approvallog.NewRepository(gormDB)
	runRepo := payrollrun.NewRepository(gormDB)
	draftRepo := draft.NewRepository(gormDB)
	penaltyRepo := penalty.NewRepository(gormDB)
	payslipRepo := payslip.NewRepository(gormDB)
	adjustmentRepo := adjustment.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	runService := payrollrun.NewServiceWithOutbox(
		db, runRepo, approvalLogRepo, counterRepo, outboxRepo,
		payrollrun.Config{LockFromAnyState: os.Getenv("PAYROLL_LOCK_ANY_STATE") == "true"},
	)
	draftService := draft.NewService(db, draftRepo)
	penaltyService := penalty.NewService(penaltyRepo, runRepo)
	payslipService := payslip.NewServiceWithOutbox(db, payslipRepo, penaltyRepo, outboxRepo)
	adjustmentService := adjustment.NewServiceWithOutbox(db, adjustmentRepo, approvalLogRepo, outboxRepo)

	// --- Handlers ---
	runHandler := payrollrun.NewHandler(runService)
	draftHandler := draft.NewHandler(draftService)
	penaltyHandler := penalty.NewHandler(penaltyService)
	payslipHandler := payslip.NewHandler(payslipService)
	adjustmentHandler := adjustment.NewHandler(adjustmentService)
	approvalLogHandler := approvallog.NewHandler(approvalLogRepo)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(middleware.Idempotency(rdb))
	{
		payrollrun.RegisterRoutes(api, runHandler, rbacService)
		draft.RegisterRoutes(api, draftHandler, rbacService)
		penalty.RegisterRoutes(api, penaltyHandler, rbacService)
		payslip.RegisterRoutes(api, payslipHandler, rbacService)
		adjustment.RegisterRoutes(api, adjustmentHandler, rbacService)
		approvallog.RegisterRoutes(api, approvalLogHandler, rbacService)
	}

	return nil
}
