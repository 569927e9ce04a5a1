package draft

import (
	"context"
	"database/sql"

	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/payrollrun"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=draft_repo.go -destination=mock/draft_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindRun(ctx context.Context, runID string) (*payrollrun.PayrollRun, error)
	FindRunForUpdate(ctx context.Context, runID string) (*payrollrun.PayrollRun, error)
	InsertItems(ctx context.Context, items []PayrollItem) error
	SwapGeneration(ctx context.Context, runID string, generation int64, employeeCount int, totalNetPay int64, exceptionCount int) error
	ReapOldGenerations(ctx context.Context, runID string, liveGeneration int64) error
	ListItems(ctx context.Context, runID string, generation int64) ([]PayrollItem, error)
	ListExceptions(ctx context.Context, runID string, generation int64) ([]PayrollItem, error)
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

// FindRunForUpdate takes a row lock on the run so concurrent regenerations of
// the same run serialize instead of interleaving their generation swaps.
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

func (r *repository) InsertItems(ctx context.Context, items []PayrollItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(items, 200).Error
}

// SwapGeneration publishes a new batch: the generation pointer and the
// aggregates move together, so readers never see a half-replaced draft.
func (r *repository) SwapGeneration(
	ctx context.Context,
	runID string,
	generation int64,
	employeeCount int,
	totalNetPay int64,
	exceptionCount int,
) error {
	return r.db.WithContext(ctx).
		Model(&payrollrun.PayrollRun{}).
		Where("run_id = ?", runID).
		Updates(map[string]any{
			"current_generation": generation,
			"employee_count":     employeeCount,
			"total_net_pay":      totalNetPay,
			"exception_count":    exceptionCount,
			"aggregate_source":   payrollrun.AggregateSourceDraft,
		}).Error
}

func (r *repository) ReapOldGenerations(ctx context.Context, runID string, liveGeneration int64) error {
	return r.db.WithContext(ctx).
		Where("run_id = ? AND generation < ?", runID, liveGeneration).
		Delete(&PayrollItem{}).Error
}

func (r *repository) ListItems(ctx context.Context, runID string, generation int64) ([]PayrollItem, error) {
	var items []PayrollItem
	err := r.db.WithContext(ctx).
		Where("run_id = ? AND generation = ?", runID, generation).
		Order("employee_id ASC").
		Find(&items).Error
	return items, err
}

func (r *repository) ListExceptions(ctx context.Context, runID string, generation int64) ([]PayrollItem, error) {
	var items []PayrollItem
	err := r.db.WithContext(ctx).
		Where("run_id = ? AND generation = ? AND exceptions <> ''", runID, generation).
		Order("employee_id ASC").
		Find(&items).Error
	return items, err
}
