package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/waypoint/internal/domain/access"
	"github.com/rpggio/waypoint/internal/domain/project"
	"github.com/rpggio/waypoint/internal/domain/share"
)

var errUnauthenticated = errors.New("unauthenticated")

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Projects the caller cannot
// see are reported as missing.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	if v, ok := access.VerdictOf(err); ok {
		if v == access.Read || v == access.ReadWrite {
			return &APIError{Code: "FORBIDDEN", Message: "insufficient permission on project"}
		}
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects for visible projects"}
	}
	switch {
	case errors.Is(err, errUnauthenticated):
		return &APIError{Code: "UNAUTHENTICATED", Message: "this tool requires a bearer token"}
	case errors.Is(err, share.ErrTokenInvalid):
		return &APIError{Code: "INVALID_SHARE_TOKEN", Message: "shared project not found"}
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found"}
	default:
		return nil
	}
}

// toolError converts err into the error returned from a tool handler.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
