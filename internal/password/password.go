// Package password hashes and verifies account credentials. Stored forms
// carry an algorithm tag prefix ("{bcrypt}...") so that hashes produced by
// different algorithms over time can coexist and still verify.
package password

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const bcryptTag = "{bcrypt}"

// ErrEmptyPassword is returned when an empty plaintext is hashed.
var ErrEmptyPassword = errors.New("password must not be empty")

// Verifier hashes plaintext credentials and verifies them against stored
// forms. Verify is a pure boolean: malformed stored forms and mismatches are
// indistinguishable to the caller.
type Verifier interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, storedForm string) bool
}

// DelegatingVerifier dispatches on the stored form's tag prefix. Hash always
// produces the current default algorithm (bcrypt).
type DelegatingVerifier struct {
	cost int
}

// NewVerifier constructs a DelegatingVerifier with the default bcrypt cost.
func NewVerifier() *DelegatingVerifier {
	return &DelegatingVerifier{cost: bcrypt.DefaultCost}
}

// Hash generates a tagged hash of the plaintext.
func (v *DelegatingVerifier) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), v.cost)
	if err != nil {
		return "", err
	}
	return bcryptTag + string(h), nil
}

// Verify reports whether the plaintext matches the stored form. Unknown
// tags, malformed hashes, and mismatches all return false.
func (v *DelegatingVerifier) Verify(plaintext, storedForm string) bool {
	switch {
	case strings.HasPrefix(storedForm, bcryptTag):
		hash := strings.TrimPrefix(storedForm, bcryptTag)
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
	case strings.HasPrefix(storedForm, "$2a$"), strings.HasPrefix(storedForm, "$2b$"), strings.HasPrefix(storedForm, "$2y$"):
		// Untagged bcrypt hashes predate the tag scheme.
		return bcrypt.CompareHashAndPassword([]byte(storedForm), []byte(plaintext)) == nil
	default:
		return false
	}
}
