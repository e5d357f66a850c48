package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/flatfinder/internal/common"
	"github.com/dmitrijs2005/flatfinder/internal/server/models"
	"github.com/dmitrijs2005/flatfinder/internal/server/repositories/users"
)

var _ users.Repository = (*UserRepository)(nil)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.ID == user.ID || u.Email == user.Email {
			return nil, common.ErrorAlreadyExists
		}
	}

	u := copyUser(user)
	u.CreatedAt = r.s.now()
	u.UpdatedAt = u.CreatedAt
	r.s.users = append(r.s.users, u)

	return copyUser(u), nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u := r.find(id)
	if u == nil {
		return nil, common.ErrorNotFound
	}
	return copyUser(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *UserRepository) List(_ context.Context) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	res := make([]*models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		res = append(res, copyUser(u))
	}
	return res, nil
}

func (r *UserRepository) Update(_ context.Context, id string, patch models.UserPatch) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u := r.find(id)
	if u == nil {
		return nil, common.ErrorNotFound
	}
	if patch.Email != nil && *patch.Email != u.Email {
		for _, other := range r.s.users {
			if other.Email == *patch.Email {
				return nil, common.ErrorAlreadyExists
			}
		}
	}

	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.BirthDate != nil {
		u.BirthDate = *patch.BirthDate
	}
	if patch.Admin != nil {
		u.Admin = *patch.Admin
	}
	u.UpdatedAt = r.s.now()

	return copyUser(u), nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := slices.IndexFunc(r.s.users, func(u *models.User) bool { return u.ID == id })
	if i < 0 {
		return common.ErrorNotFound
	}
	r.s.users = slices.Delete(r.s.users, i, i+1)
	return nil
}

func (r *UserRepository) AddToSet(_ context.Context, id string, set models.UserFlatSet, flatID string) (*models.User, error) {
	return r.mutateSet(id, set, func(s []string) []string {
		if slices.Contains(s, flatID) {
			return s
		}
		return append(s, flatID)
	})
}

func (r *UserRepository) RemoveFromSet(_ context.Context, id string, set models.UserFlatSet, flatID string) (*models.User, error) {
	return r.mutateSet(id, set, func(s []string) []string {
		return slices.DeleteFunc(s, func(v string) bool { return v == flatID })
	})
}

func (r *UserRepository) mutateSet(id string, set models.UserFlatSet, fn func([]string) []string) (*models.User, error) {
	if !set.Valid() {
		return nil, fmt.Errorf("unknown flat set %q", set)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u := r.find(id)
	if u == nil {
		return nil, common.ErrorNotFound
	}

	switch set {
	case models.FavouriteFlats:
		u.FavouriteFlats = fn(u.FavouriteFlats)
	case models.CreatedFlats:
		u.CreatedFlats = fn(u.CreatedFlats)
	case models.UpdatedFlats:
		u.UpdatedFlats = fn(u.UpdatedFlats)
	}
	u.UpdatedAt = r.s.now()

	return copyUser(u), nil
}

// find must be called with the store lock held.
func (r *UserRepository) find(id string) *models.User {
	for _, u := range r.s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}
