// Package memory implements the repositories over process memory. It backs
// the "memory" storage mode and the service tests. Every call takes the
// store mutex, so single operations are atomic; returned entities are
// copies.
package memory

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/flatfinder/internal/server/models"
)

// Store holds all entities in insertion order.
type Store struct {
	mu       sync.Mutex
	users    []*models.User
	flats    []*models.Flat
	messages []*models.Message

	// now is the clock for timestamps.
	now func() time.Time
}

func NewStore() *Store {
	return &Store{now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{s: s}
}

func (s *Store) Flats() *FlatRepository {
	return &FlatRepository{s: s}
}

func (s *Store) Messages() *MessageRepository {
	return &MessageRepository{s: s}
}

func copyUser(u *models.User) *models.User {
	c := *u
	c.FavouriteFlats = append(make([]string, 0, len(u.FavouriteFlats)), u.FavouriteFlats...)
	c.CreatedFlats = append(make([]string, 0, len(u.CreatedFlats)), u.CreatedFlats...)
	c.UpdatedFlats = append(make([]string, 0, len(u.UpdatedFlats)), u.UpdatedFlats...)
	return &c
}

func copyFlat(f *models.Flat) *models.Flat {
	c := *f
	return &c
}

func copyMessage(m *models.Message) *models.Message {
	c := *m
	return &c
}
