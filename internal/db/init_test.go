package db

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrap_CreatesTables(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	mock.ExpectExec(`(?s)CREATE TABLE IF NOT EXISTS users .*` +
		`CREATE TABLE IF NOT EXISTS sessions .*` +
		`CREATE TABLE IF NOT EXISTS projects .*` +
		`CREATE TABLE IF NOT EXISTS blog_posts`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Bootstrap(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBootstrap_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantMsg string
	}{
		{
			name: "unreachable",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectPing().WillReturnError(errors.New("connection refused"))
			},
			wantMsg: "ping postgres",
		},
		{
			name: "schema rejected",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectPing()
				mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS users")).
					WillReturnError(errors.New("permission denied for schema public"))
			},
			wantMsg: "create schema",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
			require.NoError(t, err)
			defer db.Close()
			tt.setup(mock)

			err = Bootstrap(db)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSchema_VisibilityConstraint(t *testing.T) {
	for _, table := range []string{"projects", "blog_posts"} {
		re := regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS ` + table + ` \(.*?visibility TEXT NOT NULL DEFAULT 'public' CHECK \(visibility IN \('public', 'private'\)\)`)
		assert.Truef(t, re.MatchString(schema), "%s lacks the visibility check", table)
	}
}
