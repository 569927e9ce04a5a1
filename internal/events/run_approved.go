package events

import "time"

const RunApprovedTopic = "payroll.run.approved.v1"

type RunApprovedEvent struct {
	EventType      string    `json:"event_type"`
	RunID          string    `json:"run_id"`
	FinanceStaffID string    `json:"finance_staff_id"`
	TotalNetPay    int64     `json:"total_net_pay"`
	OccurredAt     time.Time `json:"occurred_at"`
}
