package payslip

import (
	"context"
	"database/sql"

	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/draft"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/payrollrun"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=payslip_repo.go -destination=mock/payslip_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindRun(ctx context.Context, runID string) (*payrollrun.PayrollRun, error)
	FindRunForUpdate(ctx context.Context, runID string) (*payrollrun.PayrollRun, error)
	ListDraftItems(ctx context.Context, runID string, generation int64) ([]draft.PayrollItem, error)
	ReplaceForRun(ctx context.Context, runID string, slips []Payslip) error
	UpdateRunAggregates(ctx context.Context, runID string, employeeCount int, totalNetPay int64, exceptionCount int) error
	ListByRun(ctx context.Context, runID string, generation int64) ([]Payslip, error)
	FindByRunAndEmployee(ctx context.Context, runID string, generation int64, employeeID string) (*Payslip, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	session := r.db.Session(&gorm.Session{NewDB: true})
	session.Statement.ConnPool = tx
	return &repository{db: session}
}

func (r *repository) FindRun(ctx context.Context, runID string) (*payrollrun.PayrollRun, error) {
	var run payrollrun.PayrollRun
	err := r.db.WithContext(ctx).
		First(&run, "run_id = ?", runID).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *repository) FindRunForUpdate(ctx context.Context, runID string) (*payrollrun.PayrollRun, error) {
	var run payrollrun.PayrollRun
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&run, "run_id = ?", runID).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *repository) ListDraftItems(ctx context.Context, runID string, generation int64) ([]draft.PayrollItem, error) {
	var items []draft.PayrollItem
	err := r.db.WithContext(ctx).
		Where("run_id = ? AND generation = ?", runID, generation).
		Order("employee_id ASC").
		Find(&items).Error
	return items, err
}

// ReplaceForRun swaps the run's entire payslip set. Callers run this inside
// the finalization transaction so the delete and insert land together.
func (r *repository) ReplaceForRun(ctx context.Context, runID string, slips []Payslip) error {
	if err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Delete(&Payslip{}).Error; err != nil {
		return err
	}
	if len(slips) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(slips, 200).Error
}

func (r *repository) UpdateRunAggregates(
	ctx context.Context,
	runID string,
	employeeCount int,
	totalNetPay int64,
	exceptionCount int,
) error {
	return r.db.WithContext(ctx).
		Model(&payrollrun.PayrollRun{}).
		Where("run_id = ?", runID).
		Updates(map[string]any{
			"employee_count":   employeeCount,
			"total_net_pay":    totalNetPay,
			"exception_count":  exceptionCount,
			"aggregate_source": payrollrun.AggregateSourceFinalized,
		}).Error
}

func (r *repository) ListByRun(ctx context.Context, runID string, generation int64) ([]Payslip, error) {
	var slips []Payslip
	err := r.db.WithContext(ctx).
		Where("run_id = ? AND generation = ?", runID, generation).
		Order("employee_id ASC").
		Find(&slips).Error
	return slips, err
}

func (r *repository) FindByRunAndEmployee(ctx context.Context, runID string, generation int64, employeeID string) (*Payslip, error) {
	var slip Payslip
	err := r.db.WithContext(ctx).
		First(&slip, "run_id = ? AND generation = ? AND employee_id = ?", runID, generation, employeeID).Error
	if err != nil {
		return nil, err
	}
	return &slip, nil
}
