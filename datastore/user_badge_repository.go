package datastore

import (
	"context"
	"database/sql"

	"github.com/nocodejam/badge-engine/models"
)

type UserBadgeRepository interface {
	Create(ctx context.Context, award models.UserBadgeAward) error
	GetBadgeIDsByUser(ctx context.Context, userID string) ([]string, error)
	GetByUser(ctx context.Context, userID string) ([]models.UserBadgeAward, error)
	CountByBadge(ctx context.Context, badgeID string) (int, error)
}

type UserBadgeDatabase struct {
	database *sql.DB
}

func NewUserBadgeDatabase(db *sql.DB) (UserBadgeDatabase, error) {
	var userBadgeDB UserBadgeDatabase
	userBadgeDB.database = db
	return userBadgeDB, nil
}

// Create records an award. A second award of the same badge to the same
// user fails with *DuplicateKeyError.
func (ubdb UserBadgeDatabase) Create(ctx context.Context, award models.UserBadgeAward) error {
	db := ubdb.database

	sqlStatement := `
		INSERT INTO user_badges (user_id, badge_id, earned_at)
		VALUES ($1, $2, $3)`

	_, err := db.ExecContext(ctx, sqlStatement, award.UserID, award.BadgeID, award.EarnedAt)
	if err != nil {
		return asDuplicateKey(err)
	}

	return nil
}

func (ubdb UserBadgeDatabase) GetBadgeIDsByUser(ctx context.Context, userID string) ([]string, error) {
	db := ubdb.database

	rows, err := db.QueryContext(ctx, `SELECT badge_id FROM user_badges WHERE user_id = $1`, userID)
	if err != nil {
		return []string{}, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return []string{}, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (ubdb UserBadgeDatabase) GetByUser(ctx context.Context, userID string) ([]models.UserBadgeAward, error) {
	db := ubdb.database

	sqlStatement := `
		SELECT user_id, badge_id, earned_at
		FROM user_badges
		WHERE user_id = $1
		ORDER BY earned_at ASC`

	rows, err := db.QueryContext(ctx, sqlStatement, userID)
	if err != nil {
		return []models.UserBadgeAward{}, err
	}
	defer rows.Close()

	var awards []models.UserBadgeAward
	for rows.Next() {
		var award models.UserBadgeAward
		if err := rows.Scan(&award.UserID, &award.BadgeID, &award.EarnedAt); err != nil {
			return []models.UserBadgeAward{}, err
		}
		awards = append(awards, award)
	}

	return awards, rows.Err()
}

// CountByBadge returns how many users own the badge.
func (ubdb UserBadgeDatabase) CountByBadge(ctx context.Context, badgeID string) (int, error) {
	db := ubdb.database

	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_badges WHERE badge_id = $1`, badgeID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}
