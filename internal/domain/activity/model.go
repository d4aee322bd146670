package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeShareGranted ActivityType = "share_granted"
	TypeShareRevoked ActivityType = "share_revoked"
	TypeTokenIssued  ActivityType = "token_issued"
	TypeTokenRevoked ActivityType = "token_revoked"
)

// ActivityEntry represents an event in the sharing audit log
type ActivityEntry struct {
	ID           int64        `json:"id" db:"id"`
	ProjectID    string       `json:"project_id" db:"project_id"`
	ActorID      *string      `json:"actor_id,omitempty" db:"actor_id"`
	ActivityType ActivityType `json:"type" db:"activity_type"`
	Summary      string       `json:"summary" db:"summary"`
	Details      string       `json:"details,omitempty" db:"details"` // JSON string
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}
