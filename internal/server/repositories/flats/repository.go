package flats

import (
	"context"

	"github.com/dmitrijs2005/flatfinder/internal/server/models"
)

// Repository persists flats. Unknown ids yield common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, flat *models.Flat) (*models.Flat, error)
	GetByID(ctx context.Context, id string) (*models.Flat, error)
	// List returns the flats matching filter in insertion order.
	List(ctx context.Context, filter models.FlatFilter) ([]*models.Flat, error)
	Update(ctx context.Context, id string, patch models.FlatPatch) (*models.Flat, error)
	Delete(ctx context.Context, id string) error
	// DeleteByOwner removes every flat of ownerID and returns their ids.
	DeleteByOwner(ctx context.Context, ownerID string) ([]string, error)
}
