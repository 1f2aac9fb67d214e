package services

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/mysterycard/internal/netx"
	"github.com/dmitrijs2005/mysterycard/internal/wire"
)

// uploadImage is a test seam.
var uploadImage = netx.UploadImage

// CardAdmin wraps the admin-only card routes.
type CardAdmin struct {
	api API
}

func NewCardAdmin(api API) *CardAdmin {
	return &CardAdmin{api: api}
}

func (a *CardAdmin) List(ctx context.Context) ([]wire.CardView, error) {
	return a.api.ListCards(ctx)
}

func (a *CardAdmin) Create(ctx context.Context, req *wire.CardRequest) (*wire.CardView, error) {
	return a.api.CreateCard(ctx, req)
}

func (a *CardAdmin) Delete(ctx context.Context, id int64) error {
	return a.api.DeleteCard(ctx, id)
}

// UploadImage pushes a local image file to object storage and returns the
// key to store on a card.
func (a *CardAdmin) UploadImage(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	target, err := a.api.ImageUploadURL(ctx)
	if err != nil {
		return "", err
	}

	if err := uploadImage(ctx, target.URL, data); err != nil {
		return "", err
	}
	return target.Key, nil
}
