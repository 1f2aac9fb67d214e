// Package repomanager hands out the Postgres repositories bound to either
// the pool or a transaction, and owns the schema migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/mysterycard/internal/dbx"
	"github.com/dmitrijs2005/mysterycard/internal/server/migrations"
	"github.com/dmitrijs2005/mysterycard/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/mysterycard/internal/server/repositories/adminconfig"
	"github.com/dmitrijs2005/mysterycard/internal/server/repositories/cards"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type upFunc func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error

type PostgresRepositoryManager struct {
	dialect string
	up      upFunc
}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{dialect: "pgx", up: goose.UpContext}
}

func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Cards(db dbx.DBTX) cards.Repository {
	return cards.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) AdminConfig(db dbx.DBTX) adminconfig.Repository {
	return adminconfig.NewPostgresRepository(db)
}

// RunMigrations brings the schema up to the newest embedded version.
// Already applied versions are skipped.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect); err != nil {
		return fmt.Errorf("goose dialect %q: %w", m.dialect, err)
	}
	if err := m.up(ctx, db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
