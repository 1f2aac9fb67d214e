package adminconfig

import (
	"context"

	"github.com/dmitrijs2005/mysterycard/internal/server/models"
)

// Repository accesses the single admin_config row.
type Repository interface {
	Get(ctx context.Context) (*models.AdminConfig, error)
	// CreateIfAbsent inserts the row unless one exists and reports whether it did.
	CreateIfAbsent(ctx context.Context, keyHash string) (bool, error)
	UpdateHash(ctx context.Context, keyHash string) error
}
