package approvallog

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=approvallog_repo.go -destination=mock/approvallog_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Record(ctx context.Context, action *ApprovalAction) error
	ListByTarget(ctx context.Context, targetID, targetType string) ([]ApprovalAction, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds the repository to an open transaction so approval actions
// commit or roll back together with the state change they describe.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	session := r.db.Session(&gorm.Session{NewDB: true})
	session.Statement.ConnPool = tx
	return &repository{db: session}
}

func (r *repository) Record(ctx context.Context, action *ApprovalAction) error {
	if action.ID == uuid.Nil {
		action.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(action).Error
}

func (r *repository) ListByTarget(ctx context.Context, targetID, targetType string) ([]ApprovalAction, error) {
	var actions []ApprovalAction
	q := r.db.WithContext(ctx).Where("target_id = ?", targetID)
	if targetType != "" {
		q = q.Where("target_type = ?", targetType)
	}
	err := q.Order("created_at ASC").Find(&actions).Error
	return actions, err
}
