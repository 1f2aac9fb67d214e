package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReposShareTheGivenConnection(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM cards`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectCommit()

	m := NewPostgresRepositoryManager()
	require.NotNil(t, m.Accounts(db))
	require.NotNil(t, m.AdminConfig(db))

	tx, err := db.Begin()
	require.NoError(t, err)
	n, err := m.Cards(tx).Count(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, 4, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
		upErr   error
		wantUp  bool
		wantErr string
	}{
		{name: "applies embedded set", dialect: "pgx", wantUp: true},
		{name: "goose failure is wrapped", dialect: "pgx", upErr: errors.New("relation exists"), wantUp: true, wantErr: "goose up: relation exists"},
		{name: "unknown dialect", dialect: "oracle", wantErr: `goose dialect "oracle"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			m := &PostgresRepositoryManager{
				dialect: tt.dialect,
				up: func(_ context.Context, _ *sql.DB, dir string, opts ...goose.OptionsFunc) error {
					called = true
					assert.Equal(t, ".", dir)
					assert.Empty(t, opts)
					return tt.upErr
				},
			}

			err := m.RunMigrations(context.Background(), nil)
			assert.Equal(t, tt.wantUp, called)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
			if tt.upErr != nil {
				assert.ErrorIs(t, err, tt.upErr)
			}
		})
	}
}
