package migrations

import (
	"context"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nocodejam/badge-engine/logger"
)

func TestLoad_Embedded(t *testing.T) {
	migrations, err := Load(files)
	require.NoError(t, err)
	require.Len(t, migrations, 3)

	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "create_users", migrations[0].Name)
	assert.Equal(t, "create_badges", migrations[2].Name)
	assert.Contains(t, migrations[2].SQL, "PRIMARY KEY (user_id, badge_id)")
	assert.Contains(t, migrations[2].SQL, "JSONB")
}

func TestLoad_OrdersAndSkips(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/010_later.sql":  {Data: []byte("SELECT 10;")},
		"sql/002_early.sql":  {Data: []byte("SELECT 2;")},
		"sql/README.md":      {Data: []byte("notes")},
		"sql/notes_here.sql": {Data: []byte("SELECT 0;")},
	}

	migrations, err := Load(fsys)
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, 2, migrations[0].Version)
	assert.Equal(t, "early", migrations[0].Name)
	assert.Equal(t, 10, migrations[1].Version)
}

func TestLoad_DuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/001_a.sql": {Data: []byte("SELECT 1;")},
		"sql/001_b.sql": {Data: []byte("SELECT 1;")},
	}

	_, err := Load(fsys)
	assert.ErrorContains(t, err, "used by both")
}

func TestApply_SkipsApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	migrations := []Migration{
		{Version: 1, Name: "one", SQL: "CREATE TABLE one (id INT)"},
		{Version: 2, Name: "two", SQL: "CREATE TABLE two (id INT)"},
	}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT version FROM schema_migrations ORDER BY version")).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE two (id INT)")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs(2, "two").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, Apply(context.Background(), db, migrations, logger.NewNop()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_RollsBackFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	migrations := []Migration{{Version: 1, Name: "broken", SQL: "CREATE TABLE broken ("}}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE broken (")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err = Apply(context.Background(), db, migrations, logger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "001_broken")
	assert.NoError(t, mock.ExpectationsWereMet())
}
