// Package services contains the server-side business logic: users and
// sessions, flats, messages and flat photos. Every operation that acts on
// behalf of someone takes the caller identity explicitly.
package services

import "github.com/dmitrijs2005/flatfinder/internal/common"

// DeletePolicy controls what else goes when a flat or user is deleted.
type DeletePolicy struct {
	// CascadeFlatMessages deletes the messages of a deleted flat.
	CascadeFlatMessages bool
	// CascadeUserContent deletes the flats and messages of a deleted user.
	CascadeUserContent bool
}

var (
	errUserNotFound    = common.NewError(common.ErrorNotFound, "user not found")
	errFlatNotFound    = common.NewError(common.ErrorNotFound, "flat not found")
	errMessageNotFound = common.NewError(common.ErrorNotFound, "message not found")
	errEmailTaken      = common.NewError(common.ErrorAlreadyExists, "email is already registered")
)
