// Package auth issues and verifies signed session tokens.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/mysterycard/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is who a token is being issued for.
type Identity struct {
	AccountID int64
	Email     string
	IsAdmin   bool
}

// SessionClaims is the verified content of a session token.
// AccountID is 0 for an admin-key elevation.
type SessionClaims struct {
	AccountID int64
	Email     string
	IsAdmin   bool
	ExpiresAt time.Time
}

// tokenClaims is the on-the-wire claim set.
type tokenClaims struct {
	jwt.RegisteredClaims
	AccountID int64  `json:"aid"`
	Email     string `json:"email,omitempty"`
	IsAdmin   bool   `json:"adm,omitempty"`
}

// Codec signs tokens with HMAC-SHA256 under a single server secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret []byte, ttl time.Duration) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret is empty")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &Codec{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for id along with the claims it carries.
func (c *Codec) Issue(id Identity) (string, *SessionClaims, error) {
	now := c.now()
	exp := now.Add(c.ttl).Truncate(time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		AccountID: id.AccountID,
		Email:     id.Email,
		IsAdmin:   id.IsAdmin,
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", nil, err
	}

	return signed, &SessionClaims{
		AccountID: id.AccountID,
		Email:     id.Email,
		IsAdmin:   id.IsAdmin,
		ExpiresAt: exp,
	}, nil
}

// Verify checks signature and expiry. Any failure is reported as
// common.ErrInvalidToken.
func (c *Codec) Verify(tokenString string) (*SessionClaims, error) {
	claims := &tokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return &SessionClaims{
		AccountID: claims.AccountID,
		Email:     claims.Email,
		IsAdmin:   claims.IsAdmin,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
