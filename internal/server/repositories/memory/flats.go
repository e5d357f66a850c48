package memory

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/flatfinder/internal/common"
	"github.com/dmitrijs2005/flatfinder/internal/server/models"
	"github.com/dmitrijs2005/flatfinder/internal/server/repositories/flats"
)

var _ flats.Repository = (*FlatRepository)(nil)

type FlatRepository struct {
	s *Store
}

func (r *FlatRepository) Create(_ context.Context, flat *models.Flat) (*models.Flat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.find(flat.ID) != nil {
		return nil, common.ErrorAlreadyExists
	}

	f := copyFlat(flat)
	f.CreatedAt = r.s.now()
	f.UpdatedAt = f.CreatedAt
	r.s.flats = append(r.s.flats, f)

	return copyFlat(f), nil
}

func (r *FlatRepository) GetByID(_ context.Context, id string) (*models.Flat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f := r.find(id)
	if f == nil {
		return nil, common.ErrorNotFound
	}
	return copyFlat(f), nil
}

func (r *FlatRepository) List(_ context.Context, filter models.FlatFilter) ([]*models.Flat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	res := make([]*models.Flat, 0)
	for _, f := range r.s.flats {
		if filter.Match(f) {
			res = append(res, copyFlat(f))
		}
	}
	return res, nil
}

func (r *FlatRepository) Update(_ context.Context, id string, patch models.FlatPatch) (*models.Flat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f := r.find(id)
	if f == nil {
		return nil, common.ErrorNotFound
	}

	if patch.City != nil {
		f.City = *patch.City
	}
	if patch.StreetName != nil {
		f.StreetName = *patch.StreetName
	}
	if patch.StreetNumber != nil {
		f.StreetNumber = *patch.StreetNumber
	}
	if patch.AreaSize != nil {
		f.AreaSize = *patch.AreaSize
	}
	if patch.HasAC != nil {
		f.HasAC = *patch.HasAC
	}
	if patch.YearBuilt != nil {
		f.YearBuilt = *patch.YearBuilt
	}
	if patch.Rent != nil {
		f.Rent = *patch.Rent
	}
	if patch.DateAvailable != nil {
		f.DateAvailable = *patch.DateAvailable
	}
	if patch.UpdatedBy != nil {
		f.UpdatedBy = *patch.UpdatedBy
	}
	f.UpdatedAt = r.s.now()

	return copyFlat(f), nil
}

func (r *FlatRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := slices.IndexFunc(r.s.flats, func(f *models.Flat) bool { return f.ID == id })
	if i < 0 {
		return common.ErrorNotFound
	}
	r.s.flats = slices.Delete(r.s.flats, i, i+1)
	return nil
}

func (r *FlatRepository) DeleteByOwner(_ context.Context, ownerID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ids := make([]string, 0)
	r.s.flats = slices.DeleteFunc(r.s.flats, func(f *models.Flat) bool {
		if f.OwnerID == ownerID {
			ids = append(ids, f.ID)
			return true
		}
		return false
	})
	return ids, nil
}

func (r *FlatRepository) find(id string) *models.Flat {
	for _, f := range r.s.flats {
		if f.ID == id {
			return f
		}
	}
	return nil
}
