package cards

import (
	"context"

	"github.com/dmitrijs2005/mysterycard/internal/server/models"
)

type Repository interface {
	Count(ctx context.Context) (int, error)
	// FindAtOffset returns the card at a zero-based position in id order.
	FindAtOffset(ctx context.Context, offset int) (*models.Card, error)
	FindByID(ctx context.Context, id int64) (*models.Card, error)
	List(ctx context.Context) ([]models.Card, error)
	Create(ctx context.Context, card *models.Card) (*models.Card, error)
	Update(ctx context.Context, card *models.Card) error
	Delete(ctx context.Context, id int64) error
}
