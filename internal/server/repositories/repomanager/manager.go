package repomanager

import (
	"context"

	"github.com/dmitrijs2005/flatfinder/internal/server/repositories/flats"
	"github.com/dmitrijs2005/flatfinder/internal/server/repositories/messages"
	"github.com/dmitrijs2005/flatfinder/internal/server/repositories/users"
)

// Repositories is a set of repositories bound to one handle: the pool or a
// single transaction.
type Repositories struct {
	Users    users.Repository
	Flats    flats.Repository
	Messages messages.Repository
}

type RepositoryManager interface {
	// Repos returns repositories bound to the shared handle.
	Repos() Repositories
	// WithTx runs fn with repositories bound to one transaction. It commits
	// when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
	RunMigrations(ctx context.Context) error
	Close() error
}
