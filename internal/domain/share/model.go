package share

import "time"

// Permission is the level granted to a user by a share.
type Permission string

const (
	PermissionRead      Permission = "read"
	PermissionReadWrite Permission = "readwrite"
)

// Valid reports whether p is a grantable permission.
func (p Permission) Valid() bool {
	return p == PermissionRead || p == PermissionReadWrite
}

// Share grants a user access to a project. Unique on (ProjectID, SharedWithUserID).
type Share struct {
	ID               string     `json:"id" db:"id"`
	ProjectID        string     `json:"project_id" db:"project_id"`
	SharedWithUserID string     `json:"shared_with_user_id" db:"shared_with_user_id"`
	Permission       Permission `json:"permission" db:"permission"`
	CreatedByUserID  string     `json:"created_by_user_id" db:"created_by_user_id"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// ShareRecord is a share joined with the grantee's display identity.
type ShareRecord struct {
	Share
	Username string `json:"username" db:"username"`
	Email    string `json:"email" db:"email"`
}

// Token is the anonymous read-only link of a project. At most one per project.
type Token struct {
	ID              string     `json:"id" db:"id"`
	ProjectID       string     `json:"project_id" db:"project_id"`
	Token           string     `json:"token" db:"token"`
	CreatedByUserID string     `json:"created_by_user_id" db:"created_by_user_id"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// Expired reports whether the token has an expiry at or before now.
func (t *Token) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !t.ExpiresAt.After(now)
}
