package models

import "time"

type UserBadgeAward struct {
	UserID   string    `json:"userId" db:"user_id"`
	BadgeID  string    `json:"badgeId" db:"badge_id"`
	EarnedAt time.Time `json:"earnedAt" db:"earned_at"`
}

// AwardFailure records a badge whose award could not be written.
type AwardFailure struct {
	BadgeID string `json:"badgeId"`
	Err     error  `json:"-"`
	Message string `json:"message"`
}

// UserAwardResult is one user's outcome in a batch run.
type UserAwardResult struct {
	UserID   string            `json:"userId"`
	Awarded  []BadgeDefinition `json:"awarded"`
	Failures []AwardFailure    `json:"failures,omitempty"`
}
