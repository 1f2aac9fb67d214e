package metadata

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mysterycard/internal/dbx"
)

type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) Load(ctx context.Context, key string, dst any) (bool, error) {
	var doc string
	row := r.db.QueryRowContext(ctx, `SELECT doc FROM metadata WHERE name = ?`, key)
	switch err := row.Scan(&doc); {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal([]byte(doc), dst); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrUndecodable, key, err)
	}
	return true, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, key string, v any) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	const q = `INSERT INTO metadata (name, doc, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, q, key, string(doc), r.now().UTC()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM metadata WHERE name = ?`, key)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
