// Package store opens the client's SQLite state and exposes its repositories.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/mysterycard/internal/client/migrations"
	"github.com/dmitrijs2005/mysterycard/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/mysterycard/internal/client/repositories/rounds"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

type Repositories struct {
	Metadata metadata.Repository
	Rounds   rounds.Repository

	db *sql.DB
}

func (r *Repositories) Close() error {
	return r.db.Close()
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the SQLite database at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &Repositories{
		Metadata: metadata.NewSQLiteRepository(db),
		Rounds:   rounds.NewSQLiteRepository(db),
		db:       db,
	}, nil
}
