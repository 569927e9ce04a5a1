package penalty

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=penalty_repo.go -destination=mock/penalty_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, entry *PenaltyEntry) error
	ListByRun(ctx context.Context, runID string) ([]PenaltyEntry, error)
	SumByEmployeeForRun(ctx context.Context, runID string) (map[string]int64, error)
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

func (r *repository) Create(ctx context.Context, entry *PenaltyEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListByRun(ctx context.Context, runID string) ([]PenaltyEntry, error) {
	var entries []PenaltyEntry
	err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) SumByEmployeeForRun(ctx context.Context, runID string) (map[string]int64, error) {
	type row struct {
		EmployeeID string
		Total      int64
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Model(&PenaltyEntry{}).
		Select("employee_id, SUM(amount) AS total").
		Where("run_id = ?", runID).
		Group("employee_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int64, len(rows))
	for _, r := range rows {
		totals[r.EmployeeID] = r.Total
	}
	return totals, nil
}
