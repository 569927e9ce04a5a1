package events

import "time"

const RunFinalizedTopic = "payroll.run.finalized.v1"

type RunFinalizedEvent struct {
	EventType     string    `json:"event_type"`
	RunID         string    `json:"run_id"`
	EmployeeCount int       `json:"employee_count"`
	TotalNetPay   int64     `json:"total_net_pay"`
	OccurredAt    time.Time `json:"occurred_at"`
}
