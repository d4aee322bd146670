package transport

import (
	"errors"
	"net/http"

	"github.com/rpggio/waypoint/internal/domain/access"
	"github.com/rpggio/waypoint/internal/domain/project"
	"github.com/rpggio/waypoint/internal/domain/share"
	"github.com/rpggio/waypoint/internal/domain/user"
)

var errBadRequest = errors.New("malformed request body")

// StatusFor maps a domain error to an HTTP status and a client-safe message.
// A principal with no verdict on a project gets 404, hiding its existence;
// one that can see the project but lacks the level gets 403.
func StatusFor(err error) (int, string) {
	if v, ok := access.VerdictOf(err); ok {
		switch v {
		case access.Read, access.ReadWrite:
			return http.StatusForbidden, "forbidden"
		default:
			return http.StatusNotFound, "project not found"
		}
	}

	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, share.ErrTokenInvalid):
		return http.StatusNotFound, "shared project not found"
	case errors.Is(err, project.ErrProjectNotFound), errors.Is(err, share.ErrProjectNotFound):
		return http.StatusNotFound, "project not found"
	case errors.Is(err, project.ErrStageNotFound):
		return http.StatusNotFound, "stage not found"
	case errors.Is(err, project.ErrTaskNotFound):
		return http.StatusNotFound, "task not found"
	case errors.Is(err, share.ErrShareNotFound):
		return http.StatusNotFound, "share not found"
	case errors.Is(err, share.ErrTokenNotFound):
		return http.StatusNotFound, "share token not found"
	case errors.Is(err, share.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, share.ErrSelfShare):
		return http.StatusBadRequest, share.ErrSelfShare.Error()
	case errors.Is(err, share.ErrInvalidPermission):
		return http.StatusBadRequest, "permission must be read or readwrite"
	case errors.Is(err, project.ErrInvalidParent):
		return http.StatusBadRequest, project.ErrInvalidParent.Error()
	case errors.Is(err, project.ErrInvalidInput), errors.Is(err, user.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, user.ErrDuplicate):
		return http.StatusConflict, "username or email already registered"
	case errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	}
	return http.StatusInternalServerError, "internal error"
}
