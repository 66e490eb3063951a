// Package auth — password hashing utilities.
//
// Passwords are stored as bcrypt hashes. bcrypt generates a random salt per
// hash and embeds it (and the cost) in the output:
//
//	$2a$12$<22-char salt><31-char hash>
//
// so a single password_hash column is enough.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 12

// MaxPasswordLength is bcrypt's input limit. Longer passwords are rejected
// instead of being silently truncated.
const MaxPasswordLength = 72

// ErrInvalidPassword is returned by Verify when the password does not match.
var ErrInvalidPassword = errors.New("auth: invalid password")

// PasswordService provides bcrypt hashing and verification.
//
// The cost is a field so tests and the `user add` command on small machines
// can pick a cheaper factor. bcrypt clamps anything below bcrypt.MinCost.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService. A cost of 0 selects
// DefaultCost.
func NewPasswordService(cost int) *PasswordService {
	if cost <= 0 {
		cost = DefaultCost
	}
	return &PasswordService{cost: cost}
}

// Hash hashes the given plaintext password with bcrypt.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordLength {
		return "", fmt.Errorf("auth: password must be %d bytes or fewer", MaxPasswordLength)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks whether a plaintext password matches a stored bcrypt hash.
// The comparison is constant-time. A mismatch returns ErrInvalidPassword;
// a malformed or empty hash returns a different error, which callers should
// treat as a failed login too.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
