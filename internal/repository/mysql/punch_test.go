package mysql

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/punch"
	"github.com/cmlabs-hris/institute-attendance-go/internal/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	cases := []struct {
		in   sql.NullString
		want *punch.Direction
	}{
		{sql.NullString{}, nil},
		{sql.NullString{String: "IN", Valid: true}, dirPtr(punch.DirectionIn)},
		{sql.NullString{String: " out ", Valid: true}, dirPtr(punch.DirectionOut)},
		{sql.NullString{String: "0", Valid: true}, dirPtr(punch.DirectionIn)},
		{sql.NullString{String: "1", Valid: true}, dirPtr(punch.DirectionOut)},
		{sql.NullString{String: "break", Valid: true}, nil},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, parseDirection(tc.in), "input %q", tc.in.String)
	}
}

func dirPtr(d punch.Direction) *punch.Direction { return &d }

// TestPunchStore_ListBetween needs a reachable device_logs database in TEST_PUNCH_DB_HOST.
func TestPunchStore_ListBetween(t *testing.T) {
	host := os.Getenv("TEST_PUNCH_DB_HOST")
	if host == "" {
		t.Skip("TEST_PUNCH_DB_HOST not set")
	}
	ctx := context.Background()
	db, err := database.NewMySQLDB(ctx, database.MySQLConfig{
		Host:     host,
		Port:     3306,
		User:     os.Getenv("TEST_PUNCH_DB_USER"),
		Password: os.Getenv("TEST_PUNCH_DB_PASSWORD"),
		Name:     os.Getenv("TEST_PUNCH_DB_NAME"),
		Location: time.UTC,
	})
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS device_logs (
		emp_code INT NOT NULL,
		log_in DATETIME NOT NULL,
		direction VARCHAR(8) NULL
	)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `DELETE FROM device_logs WHERE emp_code IN (901, 902)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO device_logs (emp_code, log_in, direction) VALUES
		(901, '2025-03-04 09:00:00', 'in'),
		(901, '2025-03-04 18:00:00', 'out'),
		(902, '2025-03-04 10:00:00', NULL),
		(901, '2025-03-05 09:00:00', NULL)`)
	require.NoError(t, err)

	store := NewPunchStore(db)
	code := 901
	got, err := store.ListBetween(ctx,
		time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		&code,
	)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 9, got[0].Time.Hour())
	require.NotNil(t, got[1].Direction)
	assert.Equal(t, punch.DirectionOut, *got[1].Direction)
}
