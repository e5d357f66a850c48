// Package auth issues and verifies session tokens and hashes passwords.
package auth

import (
	"time"

	"github.com/dmitrijs2005/flatfinder/internal/cryptox"
	"github.com/dmitrijs2005/flatfinder/internal/server/models"
)

// DevSecretKey signs tokens when no secret is configured. Never use it in
// production.
const DevSecretKey = "flatfinder-dev-secret"

// DefaultTokenValidity is the session lifetime when none is configured.
const DefaultTokenValidity = 24 * time.Hour

// Credentials bundles password hashing and token handling with the
// configured secret, token lifetime and bcrypt cost.
type Credentials struct {
	secret []byte
	ttl    time.Duration
	cost   int
	dummy  string
}

func NewCredentials(secret string, ttl time.Duration, cost int) (*Credentials, error) {
	if secret == "" {
		secret = DevSecretKey
	}
	if ttl <= 0 {
		ttl = DefaultTokenValidity
	}
	if cost < cryptox.MinCost {
		cost = cryptox.MinCost
	}

	c := &Credentials{secret: []byte(secret), ttl: ttl, cost: cost}

	dummy, err := cryptox.HashPassword([]byte("flatfinder-dummy-password"), cost)
	if err != nil {
		return nil, err
	}
	c.dummy = dummy

	return c, nil
}

// UsesDevSecret reports whether the fallback secret is in effect.
func (c *Credentials) UsesDevSecret() bool {
	return string(c.secret) == DevSecretKey
}

func (c *Credentials) HashPassword(plain string) (string, error) {
	return cryptox.HashPassword([]byte(plain), c.cost)
}

func (c *Credentials) VerifyPassword(plain, hash string) bool {
	return cryptox.ComparePassword([]byte(plain), hash)
}

// NeedsRehash reports whether hash was made with a lower bcrypt cost than
// the configured one. Malformed hashes never need a rehash.
func (c *Credentials) NeedsRehash(hash string) bool {
	cost, err := cryptox.HashCost(hash)
	if err != nil {
		return false
	}
	return cost < c.cost
}

// VerifyDummy burns the same time as a real comparison so that unknown
// emails cannot be told apart by latency.
func (c *Credentials) VerifyDummy(plain string) {
	_ = cryptox.ComparePassword([]byte(plain), c.dummy)
}

func (c *Credentials) IssueToken(u *models.User) (string, error) {
	return GenerateToken(Claims{UserID: u.ID, Email: u.Email, Role: u.Role()}, c.secret, c.ttl)
}

func (c *Credentials) VerifyToken(token string) (*Claims, error) {
	return ParseToken(token, c.secret)
}
