package adjustment

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=adjustment_repo.go -destination=mock/adjustment_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, adj *Adjustment) error
	FindByID(ctx context.Context, id string) (*Adjustment, error)
	ListPending(ctx context.Context, departmentID, adjType string) ([]Adjustment, error)
	UpdateWherePending(ctx context.Context, id string, updates map[string]any) (bool, error)
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

func (r *repository) Create(ctx context.Context, adj *Adjustment) error {
	return r.db.WithContext(ctx).Create(adj).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Adjustment, error) {
	var adj Adjustment
	err := r.db.WithContext(ctx).
		First(&adj, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &adj, nil
}

func (r *repository) ListPending(ctx context.Context, departmentID, adjType string) ([]Adjustment, error) {
	q := r.db.WithContext(ctx).
		Where("status = ?", StatusPending)

	if departmentID != "" {
		q = q.Where("department_id = ?", departmentID)
	}
	if adjType != "" {
		q = q.Where("type = ?", adjType)
	}

	var adjs []Adjustment
	err := q.Order("created_at ASC").Find(&adjs).Error
	return adjs, err
}

// UpdateWherePending mutates the row only while it is still PENDING. Two
// concurrent reviewers race on this guard; the loser gets false back.
func (r *repository) UpdateWherePending(ctx context.Context, id string, updates map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Adjustment{}).
		Where("id = ?", id).
		Where("status = ?", StatusPending).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
