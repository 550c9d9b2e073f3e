package model

import "time"

// AuditLogEntry is an append-only record of a performed mutation. Entries are
// written once, after the write succeeds, and never updated.
type AuditLogEntry struct {
	ID            string    `json:"id"`
	ActorID       string    `json:"actor_id"`
	Operation     string    `json:"operation"` // "insert" or "update"
	Table         string    `json:"table"`
	TargetID      string    `json:"target_id,omitempty"`
	ChangedFields []string  `json:"changed_fields"`
	CreatedAt     time.Time `json:"created_at"`
}
