package adjustment

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeSigningBonus       = "SIGNING_BONUS"
	TypeResignationBenefit = "RESIGNATION_BENEFIT"
	TypeTerminationBenefit = "TERMINATION_BENEFIT"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Adjustment is a one-off monetary item approved independently of the run it
// is later folded into. Approve, reject and edit all key on id plus
// status=PENDING, so a resolved adjustment can never be mutated again.
type Adjustment struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Type         string    `gorm:"type:varchar(32);not null;index"`
	EmployeeID   string    `gorm:"type:varchar(64);not null;index"`
	DepartmentID *string   `gorm:"type:varchar(64);index"`

	Amount   int64   `gorm:"type:bigint;not null"`
	Currency string  `gorm:"type:varchar(8);not null"`
	Note     *string `gorm:"type:text"`

	Status          string  `gorm:"type:varchar(16);not null;default:'PENDING';index"`
	ApprovedBy      *string `gorm:"type:varchar(64)"`
	RejectedBy      *string `gorm:"type:varchar(64)"`
	RejectionReason *string `gorm:"type:text"`
	ResolvedAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Adjustment) TableName() string {
	return "pre_run_adjustments"
}

func ValidType(t string) bool {
	switch t {
	case TypeSigningBonus, TypeResignationBenefit, TypeTerminationBenefit:
		return true
	default:
		return false
	}
}
