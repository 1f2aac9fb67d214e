// Package cards stores the playable card catalogue.
package cards

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mysterycard/internal/common"
	"github.com/dmitrijs2005/mysterycard/internal/dbx"
	"github.com/dmitrijs2005/mysterycard/internal/server/models"
)

const cardColumns = `id, name, hidden_image_ref, revealed_image_ref, type, level, element_class`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) FindAtOffset(ctx context.Context, offset int) (*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards
		 ORDER BY id
		 OFFSET $1 LIMIT 1
		 `

	return scanCard(r.db.QueryRowContext(ctx, query, offset))
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards
		 WHERE id = $1
		 `

	return scanCard(r.db.QueryRowContext(ctx, query, id))
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCard(row scanner) (*models.Card, error) {
	c := &models.Card{}
	err := row.Scan(&c.ID, &c.Name, &c.HiddenImageRef, &c.RevealedImageRef, &c.Type, &c.Level, &c.ElementClass)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Card, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+cardColumns+` FROM cards ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}

func (r *PostgresRepository) Create(ctx context.Context, card *models.Card) (*models.Card, error) {
	query :=
		`INSERT INTO cards (name, hidden_image_ref, revealed_image_ref, type, level, element_class)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		card.Name, card.HiddenImageRef, card.RevealedImageRef, card.Type, card.Level, card.ElementClass).Scan(&card.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return card, nil
}

func (r *PostgresRepository) Update(ctx context.Context, card *models.Card) error {
	query :=
		`UPDATE cards SET name = $1, hidden_image_ref = $2, revealed_image_ref = $3,
		     type = $4, level = $5, element_class = $6
		 WHERE id = $7
		 `

	res, err := r.db.ExecContext(ctx, query,
		card.Name, card.HiddenImageRef, card.RevealedImageRef, card.Type, card.Level, card.ElementClass, card.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return requireOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
