// Package adminconfig stores the hashed admin key in a one-row table.
package adminconfig

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mysterycard/internal/common"
	"github.com/dmitrijs2005/mysterycard/internal/dbx"
	"github.com/dmitrijs2005/mysterycard/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context) (*models.AdminConfig, error) {
	query :=
		`SELECT id, admin_key_hash, updated_at FROM admin_config
		 WHERE id = $1
		 `

	c := &models.AdminConfig{}
	err := r.db.QueryRowContext(ctx, query, models.AdminConfigID).Scan(&c.ID, &c.AdminKeyHash, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

// CreateIfAbsent relies on the primary key: concurrent callers race on the
// insert and all but one become no-ops.
func (r *PostgresRepository) CreateIfAbsent(ctx context.Context, keyHash string) (bool, error) {
	query :=
		`INSERT INTO admin_config (id, admin_key_hash)
		 VALUES ($1, $2)
		 ON CONFLICT (id) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query, models.AdminConfigID, keyHash)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return n == 1, nil
}

func (r *PostgresRepository) UpdateHash(ctx context.Context, keyHash string) error {
	query :=
		`UPDATE admin_config SET admin_key_hash = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, keyHash, models.AdminConfigID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
