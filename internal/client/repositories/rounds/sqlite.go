package rounds

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mysterycard/internal/client/models"
	"github.com/dmitrijs2005/mysterycard/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Add(ctx context.Context, round *models.Round) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO rounds (card_id, guessed_type, guessed_level, guessed_element, all_correct, card_name, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, round.CardID, round.GuessedType, round.GuessedLevel, round.GuessedElement, round.AllCorrect, round.CardName, round.PlayedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to add round: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read round id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]models.Round, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, card_id, guessed_type, guessed_level, guessed_element, all_correct, card_name, played_at
		FROM rounds
		ORDER BY played_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	defer rows.Close()

	var out []models.Round
	for rows.Next() {
		var rd models.Round
		if err := rows.Scan(&rd.ID, &rd.CardID, &rd.GuessedType, &rd.GuessedLevel, &rd.GuessedElement,
			&rd.AllCorrect, &rd.CardName, &rd.PlayedAt); err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		out = append(out, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rounds: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Stats(ctx context.Context) (models.Stats, error) {
	var s models.Stats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(all_correct), 0) FROM rounds
	`).Scan(&s.Played, &s.Solved)
	if err != nil {
		return models.Stats{}, fmt.Errorf("failed to read round stats: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM rounds`); err != nil {
		return fmt.Errorf("failed to clear rounds: %w", err)
	}
	return nil
}
