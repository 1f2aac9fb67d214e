// Package metadata keeps small JSON documents (the saved session) in the
// client database, keyed by name.
package metadata

import (
	"context"
	"errors"
)

// ErrUndecodable is returned by Load when the stored document no longer
// decodes into the destination.
var ErrUndecodable = errors.New("stored value cannot be decoded")

type Repository interface {
	// Load decodes the document under key into dst and reports whether one
	// was stored.
	Load(ctx context.Context, key string, dst any) (bool, error)
	Save(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
}
