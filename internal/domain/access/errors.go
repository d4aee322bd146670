package access

import (
	"errors"
	"fmt"
)

// ErrDenied matches every DeniedError.
var ErrDenied = errors.New("access denied")

// DeniedError reports a failed authorization together with the verdict that
// caused it, so the boundary can choose between not-found and forbidden.
type DeniedError struct {
	Verdict Verdict
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("access denied: %s", e.Verdict)
}

// Is lets errors.Is(err, ErrDenied) match.
func (e *DeniedError) Is(target error) bool {
	return target == ErrDenied
}

func deny(v Verdict) error {
	return &DeniedError{Verdict: v}
}

// VerdictOf extracts the verdict of a denial, reporting false for other errors.
func VerdictOf(err error) (Verdict, bool) {
	var denied *DeniedError
	if errors.As(err, &denied) {
		return denied.Verdict, true
	}
	return NotFound, false
}
