package draft

import (
	"time"

	"github.com/google/uuid"
)

// Exception codes are part of the external contract; downstream review
// tooling matches on these strings.
const (
	ExceptionContractInactive = "CONTRACT_INACTIVE_OR_EXPIRED"
	ExceptionMissingBank      = "MISSING_BANK_DETAILS"
	ExceptionNegativeNetPay   = "NEGATIVE_NET_PAY"
)

// ExceptionSeparator joins multiple exception codes in storage order.
const ExceptionSeparator = "|"

// PayrollItem is one employee's computed line in a draft batch. Rows are
// written under the generation that produced them; only rows matching the
// run's current generation are live.
type PayrollItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RunID      string    `gorm:"type:varchar(64);not null;index:idx_item_run_gen"`
	Generation int64     `gorm:"type:bigint;not null;index:idx_item_run_gen"`
	EmployeeID string    `gorm:"type:varchar(64);not null"`

	// Input snapshot, minor units.
	BaseSalary        int64 `gorm:"type:bigint;not null"`
	Allowances        int64 `gorm:"type:bigint;not null;default:0"`
	Bonus             int64 `gorm:"type:bigint;not null;default:0"`
	Benefit           int64 `gorm:"type:bigint;not null;default:0"`
	Refunds           int64 `gorm:"type:bigint;not null;default:0"`
	TaxAmount         int64 `gorm:"type:bigint;not null;default:0"`
	InsuranceAmount   int64 `gorm:"type:bigint;not null;default:0"`
	UnpaidLeaveAmount int64 `gorm:"type:bigint;not null;default:0"`
	PenaltiesAmount   int64 `gorm:"type:bigint;not null;default:0"`

	// Computed outputs. NetPay is already clamped to zero; a clamp is
	// recorded as a NEGATIVE_NET_PAY exception, never as a negative value.
	Gross      int64  `gorm:"type:bigint;not null;default:0"`
	Deductions int64  `gorm:"type:bigint;not null;default:0"`
	NetPay     int64  `gorm:"type:bigint;not null;default:0"`
	Exceptions string `gorm:"type:text;not null;default:''"`

	HasValidBankAccount bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PayrollItem) TableName() string {
	return "payroll_items"
}
