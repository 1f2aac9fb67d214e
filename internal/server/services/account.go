// Package services contains server-side business logic: accounts and
// sessions, the admin key, the card catalogue and the guessing game.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/mysterycard/internal/common"
	"github.com/dmitrijs2005/mysterycard/internal/cryptox"
	"github.com/dmitrijs2005/mysterycard/internal/dbx"
	"github.com/dmitrijs2005/mysterycard/internal/server/auth"
	"github.com/dmitrijs2005/mysterycard/internal/server/models"
	"github.com/dmitrijs2005/mysterycard/internal/server/repositories/repomanager"
)

// TokenIssuer mints session tokens.
type TokenIssuer interface {
	Issue(id auth.Identity) (string, *auth.SessionClaims, error)
}

// LoginResult is returned by a successful login or admin elevation.
type LoginResult struct {
	Token  string
	Claims *auth.SessionClaims
}

// AccountPatch holds optional account changes. Nil fields are left as is.
type AccountPatch struct {
	Email   *string
	Secret  *string
	IsAdmin *bool
}

func (p AccountPatch) empty() bool {
	return p.Email == nil && p.Secret == nil && p.IsAdmin == nil
}

// AccountService handles registration, login and account maintenance.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      cryptox.Hasher
	tokens      TokenIssuer

	dummyOnce sync.Once
	dummyHash string
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, hasher cryptox.Hasher, tokens TokenIssuer) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
	}
}

// Register creates a non-admin account.
func (s *AccountService) Register(ctx context.Context, email, secret string) (*models.Account, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validateSecret(secret); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	account, err := s.repomanager.Accounts(s.db).Create(ctx, &models.Account{Email: email, SecretHash: hash})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// Login checks the credentials and issues a session token. Unknown email
// and wrong secret are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, secret string) (*LoginResult, error) {
	account, err := s.repomanager.Accounts(s.db).FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn the same hashing time as a real account would
			s.hasher.Verify(secret, s.dummy())
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}

	if !s.hasher.Verify(secret, account.SecretHash) {
		return nil, common.ErrorUnauthorized
	}

	token, claims, err := s.tokens.Issue(auth.Identity{
		AccountID: account.ID,
		Email:     account.Email,
		IsAdmin:   account.IsAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	return &LoginResult{Token: token, Claims: claims}, nil
}

func (s *AccountService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("timing-equalizer")
	})
	return s.dummyHash
}

func (s *AccountService) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	return s.repomanager.Accounts(s.db).FindByID(ctx, id)
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return s.repomanager.Accounts(s.db).List(ctx)
}

// UpdateProfile lets an account change its own email or secret.
func (s *AccountService) UpdateProfile(ctx context.Context, id int64, patch AccountPatch) (*models.Account, error) {
	patch.IsAdmin = nil
	return s.update(ctx, id, patch)
}

// UpdateAccount applies an administrator's changes, including the admin flag.
func (s *AccountService) UpdateAccount(ctx context.Context, id int64, patch AccountPatch) (*models.Account, error) {
	return s.update(ctx, id, patch)
}

func (s *AccountService) DeleteAccount(ctx context.Context, id int64) error {
	return s.repomanager.Accounts(s.db).Delete(ctx, id)
}

func (s *AccountService) update(ctx context.Context, id int64, patch AccountPatch) (*models.Account, error) {
	if patch.empty() {
		return nil, fmt.Errorf("%w: nothing to update", common.ErrorValidation)
	}

	var email, hash string
	if patch.Email != nil {
		e, err := normalizeEmail(*patch.Email)
		if err != nil {
			return nil, err
		}
		email = e
	}
	if patch.Secret != nil {
		if err := validateSecret(*patch.Secret); err != nil {
			return nil, err
		}
		h, err := s.hasher.Hash(*patch.Secret)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
		}
		hash = h
	}

	var updated *models.Account
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		account, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if patch.Email != nil {
			account.Email = email
		}
		if patch.Secret != nil {
			account.SecretHash = hash
		}
		if patch.IsAdmin != nil {
			account.IsAdmin = *patch.IsAdmin
		}

		// a taken email surfaces as ErrorAlreadyExists from the unique index
		if err := repo.Update(ctx, account); err != nil {
			return err
		}
		updated = account
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}
