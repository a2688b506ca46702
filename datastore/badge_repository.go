package datastore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nocodejam/badge-engine/models"
)

type BadgeRepository interface {
	GetAll(ctx context.Context) ([]models.BadgeRecord, error)
	Get(ctx context.Context, badgeID string) (models.BadgeRecord, error)
	Create(ctx context.Context, badge models.BadgeRecord) (models.BadgeRecord, error)
	Update(ctx context.Context, badge models.BadgeRecord) (models.BadgeRecord, error)
	Upsert(ctx context.Context, badge models.BadgeRecord) error
	Delete(ctx context.Context, badgeID string) error
}

type BadgeDatabase struct {
	database *sql.DB
}

func NewBadgeDatabase(db *sql.DB) (BadgeDatabase, error) {
	var badgeDB BadgeDatabase
	badgeDB.database = db
	return badgeDB, nil
}

func (bdb BadgeDatabase) GetAll(ctx context.Context) ([]models.BadgeRecord, error) {
	db := bdb.database

	sqlStatement := `
		SELECT id, name, description, icon, criteria, created_at
		FROM badges
		ORDER BY created_at ASC, id ASC`

	rows, err := db.QueryContext(ctx, sqlStatement)
	if err != nil {
		return []models.BadgeRecord{}, err
	}
	defer rows.Close()

	var badges []models.BadgeRecord
	for rows.Next() {
		badge, err := scanBadge(rows)
		if err != nil {
			return []models.BadgeRecord{}, err
		}
		badges = append(badges, badge)
	}

	return badges, rows.Err()
}

func (bdb BadgeDatabase) Get(ctx context.Context, badgeID string) (models.BadgeRecord, error) {
	db := bdb.database

	sqlStatement := `
		SELECT id, name, description, icon, criteria, created_at
		FROM badges
		WHERE id = $1`

	badge, err := scanBadge(db.QueryRowContext(ctx, sqlStatement, badgeID))
	switch err {
	case sql.ErrNoRows:
		return models.BadgeRecord{}, NoRowsError{true, err}
	case nil:
		return badge, nil
	default:
		return models.BadgeRecord{}, err
	}
}

func (bdb BadgeDatabase) Create(ctx context.Context, badge models.BadgeRecord) (models.BadgeRecord, error) {
	db := bdb.database

	sqlStatement := `
		INSERT INTO badges (id, name, description, icon, criteria, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := db.ExecContext(ctx, sqlStatement,
		badge.ID,
		badge.Name,
		badge.Description,
		badge.Icon,
		string(badge.Criteria),
		badge.CreatedAt,
	)
	if err != nil {
		return models.BadgeRecord{}, fmt.Errorf("failed to create badge: %w", asDuplicateKey(err))
	}

	return badge, nil
}

func (bdb BadgeDatabase) Update(ctx context.Context, badge models.BadgeRecord) (models.BadgeRecord, error) {
	db := bdb.database

	sqlStatement := `
		UPDATE badges
		SET name = $2, description = $3, icon = $4, criteria = $5
		WHERE id = $1`

	result, err := db.ExecContext(ctx, sqlStatement,
		badge.ID,
		badge.Name,
		badge.Description,
		badge.Icon,
		string(badge.Criteria),
	)
	if err != nil {
		return models.BadgeRecord{}, fmt.Errorf("error updating badge %v", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return models.BadgeRecord{}, err
	}
	if affected == 0 {
		return models.BadgeRecord{}, NoRowsError{true, sql.ErrNoRows}
	}

	return badge, nil
}

// Upsert inserts the badge if its id is unknown. An existing row is left as is.
func (bdb BadgeDatabase) Upsert(ctx context.Context, badge models.BadgeRecord) error {
	db := bdb.database

	sqlStatement := `
		INSERT INTO badges (id, name, description, icon, criteria, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`

	_, err := db.ExecContext(ctx, sqlStatement,
		badge.ID,
		badge.Name,
		badge.Description,
		badge.Icon,
		string(badge.Criteria),
		badge.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert badge: %v", err)
	}

	return nil
}

func (bdb BadgeDatabase) Delete(ctx context.Context, badgeID string) error {
	db := bdb.database

	_, err := db.ExecContext(ctx, `DELETE FROM badges WHERE id = $1`, badgeID)
	if err != nil {
		return fmt.Errorf("delete failed: %v", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBadge(row rowScanner) (models.BadgeRecord, error) {
	var badge models.BadgeRecord
	var criteria []byte
	err := row.Scan(
		&badge.ID,
		&badge.Name,
		&badge.Description,
		&badge.Icon,
		&criteria,
		&badge.CreatedAt,
	)
	if err != nil {
		return models.BadgeRecord{}, err
	}
	badge.Criteria = criteria
	return badge, nil
}
