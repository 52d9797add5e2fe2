package logging

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techalpha/blog/internal/model"
	"github.com/techalpha/blog/internal/testutil"
)

func TestWarningsReachTheEventLog(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	inner := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(NewEventLogHandler(inner, db))

	logger.Info("routine message", "k", "v")
	logger.Warn("failed login attempt", "admin_id", 3)
	logger.Error("weather lookup failed", "error", "timeout")

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&count))
	// Info stays out of the table.
	assert.Equal(t, 2, count)

	var level, category, metadata string
	err := db.QueryRow(
		`SELECT level, category, metadata FROM events WHERE message = ?`,
		"failed login attempt",
	).Scan(&level, &category, &metadata)
	require.NoError(t, err)
	assert.Equal(t, model.EventLevelWarning, level)
	assert.Equal(t, "auth", category)
	assert.Contains(t, metadata, "admin_id")
}

func TestErrorLevelRecorded(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	inner := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(NewEventLogHandler(inner, db))

	logger.Error("disk almost full")

	var level, metadata string
	err := db.QueryRow(
		`SELECT level, metadata FROM events WHERE message = ?`,
		"disk almost full",
	).Scan(&level, &metadata)
	require.NoError(t, err)
	assert.Equal(t, model.EventLevelError, level)
	assert.Equal(t, "{}", metadata)
}

func TestCategoryFromMessage(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"failed login attempt", "auth"},
		{"signup rejected", "auth"},
		{"failed to send subscribe email", "mail"},
		{"weather lookup failed", "weather"},
		{"disk almost full", "system"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, categoryFromMessage(tc.message), tc.message)
	}
}

func TestWithAttrsKeepsMirroring(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	inner := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(NewEventLogHandler(inner, db)).With("component", "mailer")

	logger.Warn("smtp handshake slow")

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&count))
	assert.Equal(t, 1, count)
}
