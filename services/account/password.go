package account

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Stored passwords are plaintext unless hashing is enabled, in which case new
// passwords are bcrypt hashes. Both forms are accepted at login so existing
// plaintext profiles keep working after hashing is switched on.

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

func passwordMatches(stored, provided string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(provided)) == nil
	}
	return stored == provided
}

func (s *DefaultAccountService) encodePassword(pw string) (string, error) {
	if !s.HashPasswords || pw == "" {
		return pw, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
