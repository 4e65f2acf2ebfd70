package models

import "time"

// Event actions published to the change stream.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// TodoEvent is the message payload published to Kafka after a successful
// mutation. Consumers use it to drop stale cached lists; it is not a write
// path and carries no field values beyond identity.
type TodoEvent struct {
	EventID    string    `json:"event_id"`
	Action     string    `json:"action"` // created, updated, deleted
	TodoID     int64     `json:"todo_id"`
	Owner      *int64    `json:"owner,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
