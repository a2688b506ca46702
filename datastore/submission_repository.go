package datastore

import (
	"context"
	"database/sql"

	"github.com/nocodejam/badge-engine/models"
)

type SubmissionRepository interface {
	GetApprovedByUser(ctx context.Context, userID string) ([]models.ApprovedSubmission, error)
}

type SubmissionDatabase struct {
	database *sql.DB
}

func NewSubmissionDatabase(db *sql.DB) (SubmissionDatabase, error) {
	var submissionDB SubmissionDatabase
	submissionDB.database = db
	return submissionDB, nil
}

// GetApprovedByUser returns the user's approved submissions, newest first,
// each carrying the parent challenge's current difficulty.
func (sdb SubmissionDatabase) GetApprovedByUser(ctx context.Context, userID string) ([]models.ApprovedSubmission, error) {
	db := sdb.database

	sqlStatement := `
		SELECT s.challenge_id, s.submitted_at, c.difficulty
		FROM submissions s
		JOIN challenges c ON c.id = s.challenge_id
		WHERE s.user_id = $1 AND s.status = $2
		ORDER BY s.submitted_at DESC`

	rows, err := db.QueryContext(ctx, sqlStatement, userID, models.SubmissionApproved)
	if err != nil {
		return []models.ApprovedSubmission{}, err
	}
	defer rows.Close()

	var submissions []models.ApprovedSubmission
	for rows.Next() {
		var submission models.ApprovedSubmission
		if err := rows.Scan(&submission.ChallengeID, &submission.SubmittedAt, &submission.Difficulty); err != nil {
			return []models.ApprovedSubmission{}, err
		}
		submissions = append(submissions, submission)
	}

	return submissions, rows.Err()
}
