// Package queue defines message payloads exchanged over the message broker.
package queue

// Actions carried in ReservationEvent.Action.
const (
	ActionCreated   = "created"
	ActionCancelled = "cancelled"
)

// ReservationEvent is published on reservation lifecycle transitions.
// It contains enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database.
type ReservationEvent struct {
	Action        string `json:"action"`
	ReservationID uint64 `json:"reservation_id"`
	Title         string `json:"title"`
	CustomerID    uint64 `json:"customer_id"`
	CreatedBy     uint64 `json:"created_by"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Status        string `json:"status"`
	OccurredAt    string `json:"occurred_at"`
}
