package services

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/mysterycard/internal/common"
)

const (
	minSecretLen = 6
	// bcrypt ignores input past 72 bytes
	maxSecretLen = 72
)

// normalizeEmail trims surrounding space and checks that what is left is a
// bare address. Case is preserved.
func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	return email, nil
}

func validateSecret(secret string) error {
	if n := len(secret); n < minSecretLen || n > maxSecretLen {
		return fmt.Errorf("%w: secret must be %d to %d bytes", common.ErrorValidation, minSecretLen, maxSecretLen)
	}
	return nil
}
