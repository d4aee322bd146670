package project

import (
	"regexp"
	"strings"
)

var colorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidateCreateInput validates fields required to create a project.
func ValidateCreateInput(req CreateRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return ErrInvalidInput
	}
	if req.Color != "" && !colorRe.MatchString(req.Color) {
		return ErrInvalidInput
	}
	if req.Status != "" && !req.Status.Valid() {
		return ErrInvalidInput
	}
	return nil
}

// ValidateUpdateInput validates a partial project update.
func ValidateUpdateInput(req UpdateRequest) error {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return ErrInvalidInput
	}
	if req.Color != nil && !colorRe.MatchString(*req.Color) {
		return ErrInvalidInput
	}
	if req.Status != nil && !req.Status.Valid() {
		return ErrInvalidInput
	}
	return nil
}

// ValidateStageInput validates a stage creation request.
func ValidateStageInput(req CreateStageRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return ErrInvalidInput
	}
	return nil
}

// ValidatePriority reports whether p is one of the known priorities.
func ValidatePriority(p int) error {
	if p < PriorityHigh || p > PriorityLow {
		return ErrInvalidInput
	}
	return nil
}
