package services

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/url"

	"github.com/dmitrijs2005/flatfinder/internal/common"
	"github.com/dmitrijs2005/flatfinder/internal/logging"
	"github.com/dmitrijs2005/flatfinder/internal/server/models"
	"github.com/dmitrijs2005/flatfinder/internal/server/policy"
	"github.com/dmitrijs2005/flatfinder/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/flatfinder/internal/server/validate"
	"github.com/google/uuid"
)

type FlatService struct {
	repomanager repomanager.RepositoryManager
	deletes     DeletePolicy
	log         logging.Logger
}

func NewFlatService(m repomanager.RepositoryManager, deletes DeletePolicy, log logging.Logger) *FlatService {
	return &FlatService{repomanager: m, deletes: deletes, log: log.With("module", "flats")}
}

// Create stores a new flat owned by the caller, whatever ownerId raw
// carries, and records it in the caller's createdFlats.
func (s *FlatService) Create(ctx context.Context, caller *policy.Identity, raw validate.Raw) (*models.Flat, error) {
	if caller == nil {
		return nil, common.ErrorUnauthorized
	}

	owned := maps.Clone(raw)
	if owned == nil {
		owned = validate.Raw{}
	}
	owned[validate.FieldOwnerID] = caller.UserID

	in, err := validate.NewFlat(owned)
	if err != nil {
		return nil, err
	}

	repos := s.repomanager.Repos()
	if _, err := repos.Users.GetByID(ctx, caller.UserID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorUnauthorized, "account no longer exists")
		}
		return nil, s.internal(ctx, "load flat owner", err)
	}

	f, err := repos.Flats.Create(ctx, &models.Flat{
		ID:            uuid.NewString(),
		City:          in.City,
		StreetName:    in.StreetName,
		StreetNumber:  in.StreetNumber,
		AreaSize:      in.AreaSize,
		HasAC:         in.HasAC,
		YearBuilt:     in.YearBuilt,
		Rent:          in.Rent,
		DateAvailable: in.DateAvailable,
		OwnerID:       caller.UserID,
		CreatedBy:     caller.UserID,
	})
	if err != nil {
		return nil, s.internal(ctx, "create flat", err)
	}

	if _, err := repos.Users.AddToSet(ctx, caller.UserID, models.CreatedFlats, f.ID); err != nil {
		s.log.Warn(ctx, "record created flat on owner", "flat_id", f.ID, "user_id", caller.UserID, "error", err)
	}

	s.log.Info(ctx, "flat created", "flat_id", f.ID, "owner_id", f.OwnerID)
	return f, nil
}

func (s *FlatService) Get(ctx context.Context, id string) (*models.Flat, error) {
	f, err := s.repomanager.Repos().Flats.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(ctx, "get flat", err)
	}
	return f, nil
}

// FlatOwner returns the owner id of a flat for authorization checks.
func (s *FlatService) FlatOwner(ctx context.Context, id string) (string, error) {
	f, err := s.repomanager.Repos().Flats.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return f.OwnerID, nil
}

func (s *FlatService) List(ctx context.Context, filter models.FlatFilter) ([]*models.Flat, error) {
	res, err := s.repomanager.Repos().Flats.List(ctx, filter)
	if err != nil {
		return nil, s.internal(ctx, "list flats", err)
	}
	return res, nil
}

// Search lists flats matching the query parameters understood by
// validate.FlatSearch.
func (s *FlatService) Search(ctx context.Context, q url.Values) ([]*models.Flat, error) {
	filter, err := validate.FlatSearch(q)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, filter)
}

func (s *FlatService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Flat, error) {
	return s.List(ctx, models.FlatFilter{OwnerID: &ownerID})
}

// Update applies the recognized fields of raw, stamps updatedBy and records
// the flat in the caller's updatedFlats.
func (s *FlatService) Update(ctx context.Context, caller *policy.Identity, id string, raw validate.Raw) (*models.Flat, error) {
	repos := s.repomanager.Repos()

	current, err := repos.Flats.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(ctx, "get flat", err)
	}
	if !policy.CanModifyFlat(caller, current.OwnerID) {
		return nil, common.NewError(common.ErrorForbidden, "only the flat owner may do this")
	}

	patch, err := validate.FlatUpdate(raw)
	if err != nil {
		return nil, err
	}
	patch.UpdatedBy = &caller.UserID

	f, err := repos.Flats.Update(ctx, id, patch)
	if err != nil {
		return nil, s.lookupError(ctx, "update flat", err)
	}

	if _, err := repos.Users.AddToSet(ctx, caller.UserID, models.UpdatedFlats, f.ID); err != nil {
		s.log.Warn(ctx, "record updated flat on user", "flat_id", f.ID, "user_id", caller.UserID, "error", err)
	}

	return f, nil
}

// Delete removes a flat, and with CascadeFlatMessages its messages in the
// same transaction.
func (s *FlatService) Delete(ctx context.Context, caller *policy.Identity, id string) error {
	current, err := s.repomanager.Repos().Flats.GetByID(ctx, id)
	if err != nil {
		return s.lookupError(ctx, "get flat", err)
	}
	if !policy.CanModifyFlat(caller, current.OwnerID) {
		return common.NewError(common.ErrorForbidden, "only the flat owner may do this")
	}

	if !s.deletes.CascadeFlatMessages {
		if err := s.repomanager.Repos().Flats.Delete(ctx, id); err != nil {
			return s.lookupError(ctx, "delete flat", err)
		}
		s.log.Info(ctx, "flat deleted", "flat_id", id)
		return nil
	}

	var removed int64
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		if err := r.Flats.Delete(ctx, id); err != nil {
			return err
		}
		n, err := r.Messages.DeleteByFlat(ctx, id)
		removed = n
		return err
	})
	if err != nil {
		return s.lookupError(ctx, "delete flat with messages", err)
	}

	s.log.Info(ctx, "flat deleted", "flat_id", id, "messages_deleted", removed)
	return nil
}

func (s *FlatService) lookupError(ctx context.Context, op string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return errFlatNotFound
	}
	return s.internal(ctx, op, err)
}

func (s *FlatService) internal(ctx context.Context, op string, err error) error {
	s.log.Error(ctx, op, "error", err)
	return fmt.Errorf("%s: %w", op, common.ErrorInternal)
}
