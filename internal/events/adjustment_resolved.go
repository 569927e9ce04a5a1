package events

import "time"

const AdjustmentResolvedTopic = "payroll.adjustment.resolved.v1"

type AdjustmentResolvedEvent struct {
	EventType      string    `json:"event_type"`
	AdjustmentID   string    `json:"adjustment_id"`
	AdjustmentType string    `json:"adjustment_type"`
	EmployeeID     string    `json:"employee_id"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurred_at"`
}
