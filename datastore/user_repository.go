package datastore

import (
	"context"
	"database/sql"

	"github.com/nocodejam/badge-engine/models"
)

type UserRepository interface {
	Get(ctx context.Context, userID string) (models.User, error)
	GetXP(ctx context.Context, userID string) (int, error)
	GetAllRankedByXP(ctx context.Context) ([]models.UserXP, error)
}

type UserDatabase struct {
	database *sql.DB
}

func NewUserDatabase(db *sql.DB) (UserDatabase, error) {
	var userDB UserDatabase
	userDB.database = db
	return userDB, nil
}

func (pgdb UserDatabase) Get(ctx context.Context, userID string) (models.User, error) {
	db := pgdb.database

	sqlStatement := `
	SELECT
		user_id,
		username,
		kind,
		xp,
		created_at,
		updated_at
	FROM users
	WHERE user_id=$1`

	var user models.User
	scanErr := db.QueryRowContext(ctx, sqlStatement, userID).Scan(
		&user.UserID,
		&user.Username,
		&user.Kind,
		&user.XP,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	switch scanErr {
	case sql.ErrNoRows:
		return models.User{}, NoRowsError{true, scanErr}
	case nil:
		return user, nil
	default:
		return models.User{}, scanErr
	}
}

// GetXP returns the user's accumulated experience points.
func (pgdb UserDatabase) GetXP(ctx context.Context, userID string) (int, error) {
	db := pgdb.database

	var xp int
	err := db.QueryRowContext(ctx, `SELECT xp FROM users WHERE user_id = $1`, userID).Scan(&xp)

	switch err {
	case sql.ErrNoRows:
		return 0, NoRowsError{true, err}
	case nil:
		return xp, nil
	default:
		return 0, err
	}
}

// GetAllRankedByXP lists every user by descending XP. Equal XP is ordered
// by user id so ranks are stable between calls.
func (pgdb UserDatabase) GetAllRankedByXP(ctx context.Context) ([]models.UserXP, error) {
	db := pgdb.database

	sqlStatement := `
		SELECT user_id, xp
		FROM users
		ORDER BY xp DESC, user_id ASC`

	rows, err := db.QueryContext(ctx, sqlStatement)
	if err != nil {
		return []models.UserXP{}, err
	}
	defer rows.Close()

	var users []models.UserXP
	for rows.Next() {
		var entry models.UserXP
		if err := rows.Scan(&entry.UserID, &entry.XP); err != nil {
			return []models.UserXP{}, err
		}
		users = append(users, entry)
	}

	return users, rows.Err()
}
