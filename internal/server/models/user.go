// Package models holds the server-side entities and the payload types
// exchanged between validators, services and repositories.
package models

import (
	"time"

	"github.com/dmitrijs2005/flatfinder/internal/common"
)

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	BirthDate      time.Time `json:"birthDate"`
	Admin          bool      `json:"admin"`
	FavouriteFlats []string  `json:"favouriteFlats"`
	CreatedFlats   []string  `json:"createdFlats"`
	UpdatedFlats   []string  `json:"updatedFlats"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Role returns the role name carried in session tokens.
func (u *User) Role() string {
	if u.Admin {
		return common.RoleAdmin
	}
	return common.RoleUser
}

// UserInput is a validated registration payload.
type UserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	BirthDate time.Time
}

// UserPatch carries the recognized mutable user fields; nil means unchanged.
// Password is plain text until the service replaces it with PasswordHash.
type UserPatch struct {
	Email        *string
	Password     *string
	PasswordHash *string
	FirstName    *string
	LastName     *string
	BirthDate    *time.Time
	Admin        *bool
}

// UserFlatSet names one of the flat-identifier sets kept on a user.
type UserFlatSet string

const (
	FavouriteFlats UserFlatSet = "favourite"
	CreatedFlats   UserFlatSet = "created"
	UpdatedFlats   UserFlatSet = "updated"
)

// Valid reports whether s is one of the known sets.
func (s UserFlatSet) Valid() bool {
	switch s {
	case FavouriteFlats, CreatedFlats, UpdatedFlats:
		return true
	}
	return false
}
