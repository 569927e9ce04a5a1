package payrollrun

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=run_repo.go -destination=mock/run_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, run *PayrollRun) error
	FindAll(ctx context.Context) ([]PayrollRun, error)
	FindByRunID(ctx context.Context, runID string) (*PayrollRun, error)
	RunIDExists(ctx context.Context, runID string) (bool, error)
	UpdateWhereStatus(ctx context.Context, runID string, fromStatuses []string, updates map[string]any) (bool, error)
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

func (r *repository) Create(ctx context.Context, run *PayrollRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *repository) FindAll(ctx context.Context) ([]PayrollRun, error) {
	var runs []PayrollRun
	err := r.db.WithContext(ctx).
		Order("payroll_period DESC, run_id ASC").
		Find(&runs).Error
	return runs, err
}

func (r *repository) FindByRunID(ctx context.Context, runID string) (*PayrollRun, error) {
	var run PayrollRun
	err := r.db.WithContext(ctx).
		First(&run, "run_id = ?", runID).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *repository) RunIDExists(ctx context.Context, runID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&PayrollRun{}).
		Where("run_id = ?", runID).
		Count(&count).Error
	return count > 0, err
}

// UpdateWhereStatus applies updates only when the run currently sits in one of
// fromStatuses. The boolean reports whether any row matched, which is how two
// concurrent reviewers are serialized: exactly one sees true.
func (r *repository) UpdateWhereStatus(
	ctx context.Context,
	runID string,
	fromStatuses []string,
	updates map[string]any,
) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&PayrollRun{}).
		Where("run_id = ?", runID).
		Where("status IN ?", fromStatuses).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
