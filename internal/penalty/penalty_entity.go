package penalty

import (
	"time"

	"github.com/google/uuid"
)

// PenaltyEntry is one recorded deduction against an employee within a run.
// Entries accumulate; the finalization step sums them per employee rather
// than trusting the penalty amount snapshotted into the draft.
type PenaltyEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RunID      string    `gorm:"type:varchar(64);not null;index:idx_penalty_run_emp"`
	EmployeeID string    `gorm:"type:varchar(64);not null;index:idx_penalty_run_emp"`
	Amount     int64     `gorm:"type:bigint;not null"`
	Reason     string    `gorm:"type:text;not null"`
	RecordedBy string    `gorm:"type:varchar(64);not null"`
	CreatedAt  time.Time
}

func (PenaltyEntry) TableName() string {
	return "penalty_entries"
}
