// Package events defines the payloads published through the outbox.
package events

import "time"

const LeaveDecidedTopic = "ems.leave.decided"

// LeaveDecidedEvent is emitted when an admin approves or rejects a leave
// request. Consumers use it for audit trails and notifications.
type LeaveDecidedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	LeaveID    string    `json:"leave_id"`
	EmployeeID string    `json:"employee_id"`
	Status     string    `json:"status"`
	DecidedBy  string    `json:"decided_by"`
	OccurredAt time.Time `json:"occurred_at"`
}
