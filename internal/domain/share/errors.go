package share

import "errors"

var (
	// ErrProjectNotFound indicates the shared project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrShareNotFound indicates no such share exists under the project.
	ErrShareNotFound = errors.New("share not found")
	// ErrTokenNotFound indicates the project has no share token.
	ErrTokenNotFound = errors.New("share token not found")
	// ErrUserNotFound indicates the share target doesn't exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrSelfShare indicates an attempt to share a project with its owner.
	ErrSelfShare = errors.New("cannot share a project with its owner")
	// ErrInvalidPermission indicates a permission outside read/readwrite.
	ErrInvalidPermission = errors.New("invalid permission")
	// ErrTokenInvalid covers missing, expired and malformed share tokens alike.
	ErrTokenInvalid = errors.New("invalid share token")
)

// InvalidTokenError records why a share token was rejected. It matches
// ErrTokenInvalid; the reason is for logs, not for callers.
type InvalidTokenError struct {
	Reason string
}

func (e *InvalidTokenError) Error() string {
	return "invalid share token: " + e.Reason
}

// Is lets errors.Is(err, ErrTokenInvalid) match.
func (e *InvalidTokenError) Is(target error) bool {
	return target == ErrTokenInvalid
}
