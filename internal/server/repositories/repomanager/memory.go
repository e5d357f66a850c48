package repomanager

import (
	"context"

	"github.com/dmitrijs2005/flatfinder/internal/server/repositories/memory"
)

// MemoryRepositoryManager serves repositories from a memory.Store. There
// is no rollback: WithTx just runs fn.
type MemoryRepositoryManager struct {
	store *memory.Store
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{store: memory.NewStore()}
}

func (m *MemoryRepositoryManager) Repos() Repositories {
	return Repositories{Users: m.store.Users(), Flats: m.store.Flats(), Messages: m.store.Messages()}
}

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	return fn(ctx, m.Repos())
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error {
	return nil
}

func (m *MemoryRepositoryManager) Close() error {
	return nil
}
