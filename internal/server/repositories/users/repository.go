package users

import (
	"context"

	"github.com/dmitrijs2005/flatfinder/internal/server/models"
)

// Repository persists users. Lookups of unknown ids return
// common.ErrorNotFound; a duplicate email returns common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, id string) error

	// AddToSet adds flatID to the named set unless already present.
	AddToSet(ctx context.Context, id string, set models.UserFlatSet, flatID string) (*models.User, error)
	RemoveFromSet(ctx context.Context, id string, set models.UserFlatSet, flatID string) (*models.User, error)
}
