// Package auth authenticates the single site owner and issues the session
// tokens the admin pages are gated on.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinCost     = 10
	MaxCost     = 14
	DefaultCost = 12
)

// Passwords hashes and verifies owner passwords with bcrypt. A non-empty
// pepper is appended to every password before hashing.
type Passwords struct {
	cost   int
	pepper string
}

func NewPasswords(cost int, pepper string) (*Passwords, error) {
	if cost < MinCost || cost > MaxCost {
		return nil, fmt.Errorf("bcrypt cost out of range: %d (must be %d-%d)", cost, MinCost, MaxCost)
	}
	return &Passwords{cost: cost, pepper: pepper}, nil
}

func (p *Passwords) Hash(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw+p.pepper), p.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (p *Passwords) Verify(pw, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(pw+p.pepper)) == nil
}
