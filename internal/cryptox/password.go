// Package cryptox wraps the one-way password hashing primitive used by the
// credential service.
package cryptox

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinCost is the lowest bcrypt cost accepted by HashPassword.
const MinCost = 10

// HashPassword returns a salted bcrypt hash of password. Costs below MinCost
// are raised to MinCost.
func HashPassword(password []byte, cost int) (string, error) {
	if cost < MinCost {
		cost = MinCost
	}
	hash, err := bcrypt.GenerateFromPassword(password, cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// ComparePassword reports whether password matches hash. A malformed hash is
// treated as a mismatch.
func ComparePassword(password []byte, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), password) == nil
}

// HashCost extracts the cost a hash was generated with.
func HashCost(hash string) (int, error) {
	return bcrypt.Cost([]byte(hash))
}

// WipeByteArray overwrites b with zeros so secrets do not linger in memory.
// A nil slice is ignored.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
