package badges

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nocodejam/badge-engine/models"
)

var (
	// ErrDataUnavailable wraps any read that could not be completed.
	ErrDataUnavailable = errors.New("badge data unavailable")
	ErrBadgeNotFound   = errors.New("badge not found")
	ErrUserNotFound    = errors.New("user not found")
	// ErrBadgeInUse is returned when deleting a badge someone already owns.
	ErrBadgeInUse = errors.New("badge is owned by at least one user")
)

func unavailable(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDataUnavailable, what, err)
}

type InvalidBadgeDefinitionError struct {
	BadgeID string
	Reason  string
}

func (e *InvalidBadgeDefinitionError) Error() string {
	if e.BadgeID == "" {
		return "invalid badge definition: " + e.Reason
	}
	return fmt.Sprintf("invalid badge definition %q: %s", e.BadgeID, e.Reason)
}

// AwardError lists the badges of one Award call that could not be written.
// Badges not listed were either awarded or already owned.
type AwardError struct {
	UserID   string
	Failures []models.AwardFailure
}

func (e *AwardError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.BadgeID, f.Err))
	}
	return fmt.Sprintf("failed to award %d badge(s) to %s: %s", len(e.Failures), e.UserID, strings.Join(parts, "; "))
}

func (e *AwardError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}
