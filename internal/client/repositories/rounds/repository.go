// Package rounds keeps the local history of submitted guesses.
package rounds

import (
	"context"

	"github.com/dmitrijs2005/mysterycard/internal/client/models"
)

type Repository interface {
	Add(ctx context.Context, r *models.Round) (int64, error)
	// Recent returns up to limit rounds, newest first.
	Recent(ctx context.Context, limit int) ([]models.Round, error)
	Stats(ctx context.Context) (models.Stats, error)
	Clear(ctx context.Context) error
}
