package models

import "time"

const (
	Learner = "Learner"
	Admin   = "Admin"
)

type User struct {
	UserID    string    `json:"userId" db:"user_id"`
	Username  string    `json:"username" db:"username"`
	Kind      string    `json:"kind" db:"kind"`
	XP        int       `json:"xp" db:"xp"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// UserXP is one row of the XP leaderboard.
type UserXP struct {
	UserID string `json:"userId" db:"user_id"`
	XP     int    `json:"xp" db:"xp"`
}
