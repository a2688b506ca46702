package models

import "time"

const SubmissionApproved = "approved"

// ApprovedSubmission is an approved submission joined to its challenge.
// Difficulty is the challenge's label when the row was read, not when it
// was submitted.
type ApprovedSubmission struct {
	ChallengeID string    `json:"challengeId" db:"challenge_id"`
	SubmittedAt time.Time `json:"submittedAt" db:"submitted_at"`
	Difficulty  string    `json:"difficulty" db:"difficulty"`
}
