package payrollrun

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusDraft                  = "DRAFT"
	StatusUnderReview            = "UNDER_REVIEW"
	StatusPendingFinanceApproval = "PENDING_FINANCE_APPROVAL"
	StatusApproved               = "APPROVED"
	StatusRejected               = "REJECTED"
	StatusLocked                 = "LOCKED"
	StatusUnlocked               = "UNLOCKED"
)

const (
	PaymentPending = "PENDING"
	PaymentPaid    = "PAID"
)

// AggregateSource records which generator last wrote the run aggregates, so
// consumers can tell draft numbers from finalized ones.
const (
	AggregateSourceDraft     = "DRAFT"
	AggregateSourceFinalized = "FINALIZED"
)

type PayrollRun struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RunID string    `gorm:"type:varchar(64);not null;uniqueIndex"`

	PayrollPeriod time.Time `gorm:"type:date;not null"`
	Entity        string    `gorm:"type:varchar(120);not null;index"`

	Status        string `gorm:"type:varchar(32);not null;default:'DRAFT';index"`
	PaymentStatus string `gorm:"type:varchar(16);not null;default:'PENDING'"`

	// Aggregates are written exclusively by the draft and payslip generators;
	// monetary values are minor units (e.g. piasters) to avoid floating error.
	EmployeeCount   int    `gorm:"not null;default:0"`
	TotalNetPay     int64  `gorm:"type:bigint;not null;default:0"`
	ExceptionCount  int    `gorm:"not null;default:0"`
	AggregateSource string `gorm:"type:varchar(16);not null;default:'DRAFT'"`

	// CurrentGeneration points at the live PayrollItem/Payslip batch; rows from
	// older generations are invisible to readers and reaped on regeneration.
	CurrentGeneration int64 `gorm:"type:bigint;not null;default:0"`

	PayrollSpecialistID uuid.UUID  `gorm:"type:uuid;not null"`
	PayrollManagerID    uuid.UUID  `gorm:"type:uuid;not null"`
	FinanceStaffID      *uuid.UUID `gorm:"type:uuid"`

	ManagerApprovalDate *time.Time
	FinanceApprovalDate *time.Time
	RejectionReason     *string `gorm:"type:text"`
	UnlockReason        *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PayrollRun) TableName() string {
	return "payroll_runs"
}
