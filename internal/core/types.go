package core

import "time"

// RunStatus describes the outcome of a single watch run.
type RunStatus string

const (
	// RunStatusIdle means no new keys were found; the seen set was left untouched.
	RunStatusIdle RunStatus = "idle"
	// RunStatusUpdated means new keys were found, one notification was sent and
	// the seen set was replaced with the added set.
	RunStatusUpdated RunStatus = "updated"
)

// RunResult records what a single watch run observed and did.
type RunResult struct {
	ID          string    `json:"id"`
	WatchID     string    `json:"watch_id"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Status      RunStatus `json:"status"`
	Snapshot    []string  `json:"snapshot,omitempty"`
	Added       []string  `json:"added,omitempty"`
}

// TriggerEvent represents a trigger firing for a watch.
type TriggerEvent struct {
	WatchID   string
	Timestamp time.Time
}
