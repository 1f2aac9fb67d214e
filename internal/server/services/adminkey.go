package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mysterycard/internal/common"
	"github.com/dmitrijs2005/mysterycard/internal/cryptox"
	"github.com/dmitrijs2005/mysterycard/internal/server/auth"
	"github.com/dmitrijs2005/mysterycard/internal/server/repositories/repomanager"
)

// AdminKeyService owns the shared admin key. Only its hash is stored.
type AdminKeyService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      cryptox.Hasher
	tokens      TokenIssuer
}

func NewAdminKeyService(db *sql.DB, m repomanager.RepositoryManager, hasher cryptox.Hasher, tokens TokenIssuer) *AdminKeyService {
	return &AdminKeyService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
	}
}

// Bootstrap stores the hash of key unless an admin key already exists.
// It reports whether this call created the row; an existing key is never
// overwritten, so restarts with a different key have no effect.
func (s *AdminKeyService) Bootstrap(ctx context.Context, key string) (bool, error) {
	if err := validateSecret(key); err != nil {
		return false, err
	}

	hash, err := s.hasher.Hash(key)
	if err != nil {
		return false, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	return s.repomanager.AdminConfig(s.db).CreateIfAbsent(ctx, hash)
}

// Verify reports whether candidate is the admin key. Before bootstrap it
// fails with common.ErrorNotConfigured.
func (s *AdminKeyService) Verify(ctx context.Context, candidate string) (bool, error) {
	cfg, err := s.repomanager.AdminConfig(s.db).Get(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, common.ErrorNotConfigured
		}
		return false, err
	}

	return s.hasher.Verify(candidate, cfg.AdminKeyHash), nil
}

// Elevate exchanges a correct admin key for an admin session that is not
// tied to any account.
func (s *AdminKeyService) Elevate(ctx context.Context, candidate string) (*LoginResult, error) {
	ok, err := s.Verify(ctx, candidate)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	token, claims, err := s.tokens.Issue(auth.Identity{IsAdmin: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	return &LoginResult{Token: token, Claims: claims}, nil
}

// Rotate replaces the stored admin key.
func (s *AdminKeyService) Rotate(ctx context.Context, newKey string) error {
	if err := validateSecret(newKey); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newKey)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	if err := s.repomanager.AdminConfig(s.db).UpdateHash(ctx, hash); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotConfigured
		}
		return err
	}

	return nil
}
