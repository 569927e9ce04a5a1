package payslip

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentPending = "PENDING"
	PaymentPaid    = "PAID"
)

// Payslip is the finalized per-employee statement for a run. Generation ties
// a payslip to the draft batch it was derived from; regenerating replaces the
// run's full payslip set.
type Payslip struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RunID      string    `gorm:"type:varchar(64);not null;index:idx_payslip_run_gen"`
	Generation int64     `gorm:"type:bigint;not null;index:idx_payslip_run_gen"`
	EmployeeID string    `gorm:"type:varchar(64);not null;index"`

	Gross           int64 `gorm:"type:bigint;not null;default:0"`
	TotalDeductions int64 `gorm:"type:bigint;not null;default:0"`
	// PenaltyTotal is re-aggregated from the penalty ledger at finalization
	// time, not copied from the draft snapshot.
	PenaltyTotal int64 `gorm:"type:bigint;not null;default:0"`
	NetPay       int64 `gorm:"type:bigint;not null;default:0"`

	Exceptions    string `gorm:"type:text;not null;default:''"`
	PaymentStatus string `gorm:"type:varchar(16);not null;default:'PENDING'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Payslip) TableName() string {
	return "payslips"
}
