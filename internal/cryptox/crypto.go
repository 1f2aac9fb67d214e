// Package cryptox implements one-way hashing and verification of secrets
// (account passwords and the shared admin key).
//
// Hashes are self-describing encoded strings carrying their own salt and
// cost parameters, so Verify needs nothing but the secret and the stored
// value. Verify reports a plain bool: a corrupt stored hash looks exactly
// like a wrong secret to the caller.
package cryptox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Supported algorithm names for NewHasher.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// DefaultBcryptCost matches the work factor used for interactive logins.
const DefaultBcryptCost = 10

var ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

// Hasher hashes secrets and verifies candidates against stored hashes.
type Hasher interface {
	// Hash returns a salted encoding of secret. Two calls with the same
	// secret return different strings.
	Hash(secret string) (string, error)

	// Verify reports whether secret matches hashed. Malformed input yields false.
	Verify(secret, hashed string) bool
}

var (
	_ Hasher = (*BcryptHasher)(nil)
	_ Hasher = (*Argon2Hasher)(nil)
)

// NewHasher returns the Hasher for algorithm. bcryptCost is ignored for
// argon2id; zero selects DefaultBcryptCost.
func NewHasher(algorithm string, bcryptCost int) (Hasher, error) {
	switch algorithm {
	case "", AlgorithmBcrypt:
		return NewBcryptHasher(bcryptCost)
	case AlgorithmArgon2id:
		return NewArgon2Hasher(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}

// BcryptHasher hashes with bcrypt at a fixed cost.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BcryptHasher{cost: cost}, nil
}

func (h *BcryptHasher) Hash(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

// Verify uses the cost and salt embedded in hashed; bcrypt compares in
// constant time.
func (h *BcryptHasher) Verify(secret, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(secret)) == nil
}
