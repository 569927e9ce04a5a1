package approvallog

import (
	"time"

	"github.com/google/uuid"
)

const (
	TargetTypeRun        = "PAYROLL_RUN"
	TargetTypeAdjustment = "ADJUSTMENT"
)

const (
	ActionPublish        = "PUBLISH"
	ActionManagerApprove = "MANAGER_APPROVE"
	ActionManagerReject  = "MANAGER_REJECT"
	ActionFinanceApprove = "FINANCE_APPROVE"
	ActionFinanceReject  = "FINANCE_REJECT"
	ActionLock           = "LOCK"
	ActionUnfreeze       = "UNFREEZE"

	ActionSigningBonusApprove        = "SIGNING_BONUS_APPROVE"
	ActionSigningBonusReject         = "SIGNING_BONUS_REJECT"
	ActionTerminationBenefitsApprove = "TERMINATION_BENEFITS_APPROVE"
	ActionTerminationBenefitsReject  = "TERMINATION_BENEFITS_REJECT"
	ActionResignationBenefitsApprove = "RESIGNATION_BENEFITS_APPROVE"
	ActionResignationBenefitsReject  = "RESIGNATION_BENEFITS_REJECT"
)

// ApprovalAction rows are append-only; there is no update or delete path.
type ApprovalAction struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TargetID   string    `gorm:"type:varchar(64);not null;index:idx_target"`
	TargetType string    `gorm:"type:varchar(32);not null;index:idx_target"`
	ActorID    string    `gorm:"type:varchar(64);not null"`
	ActorRole  string    `gorm:"type:varchar(64);not null"`
	ActionType string    `gorm:"type:varchar(48);not null"`
	Reason     *string   `gorm:"type:text"`
	CreatedAt  time.Time
}

func (ApprovalAction) TableName() string {
	return "approval_actions"
}
