package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/flatfinder/internal/common"
	"github.com/dmitrijs2005/flatfinder/internal/logging"
	"github.com/dmitrijs2005/flatfinder/internal/server/objectstore"
	"github.com/dmitrijs2005/flatfinder/internal/server/policy"
	"github.com/dmitrijs2005/flatfinder/internal/server/repositories/repomanager"
)

// Photo is an object key with a presigned URL for it.
type Photo struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// PhotoService issues presigned URLs for flat photos.
type PhotoService struct {
	repomanager repomanager.RepositoryManager
	store       objectstore.Store
	log         logging.Logger
}

func NewPhotoService(m repomanager.RepositoryManager, store objectstore.Store, log logging.Logger) *PhotoService {
	return &PhotoService{repomanager: m, store: store, log: log.With("module", "photos")}
}

// UploadURL returns a fresh key and a presigned PUT URL for it. Only the
// flat owner may upload.
func (s *PhotoService) UploadURL(ctx context.Context, caller *policy.Identity, flatID string) (*Photo, error) {
	f, err := s.repomanager.Repos().Flats.GetByID(ctx, flatID)
	if err != nil {
		return nil, s.flatError(ctx, err)
	}
	if caller == nil || f.OwnerID != caller.UserID {
		return nil, common.NewError(common.ErrorForbidden, "only the flat owner may do this")
	}

	key := objectstore.NewPhotoKey(flatID)
	url, err := s.store.PresignPut(ctx, key)
	if err != nil {
		return nil, s.internal(ctx, "presign upload", err)
	}
	return &Photo{Key: key, URL: url}, nil
}

// List returns presigned GET URLs for every stored photo of a flat.
func (s *PhotoService) List(ctx context.Context, flatID string) ([]Photo, error) {
	if _, err := s.repomanager.Repos().Flats.GetByID(ctx, flatID); err != nil {
		return nil, s.flatError(ctx, err)
	}

	keys, err := s.store.List(ctx, objectstore.PhotoPrefix(flatID))
	if err != nil {
		return nil, s.internal(ctx, "list photos", err)
	}

	res := make([]Photo, 0, len(keys))
	for _, k := range keys {
		url, err := s.store.PresignGet(ctx, k)
		if err != nil {
			return nil, s.internal(ctx, "presign download", err)
		}
		res = append(res, Photo{Key: k, URL: url})
	}
	return res, nil
}

func (s *PhotoService) flatError(ctx context.Context, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return errFlatNotFound
	}
	return s.internal(ctx, "get flat", err)
}

func (s *PhotoService) internal(ctx context.Context, op string, err error) error {
	s.log.Error(ctx, op, "error", err)
	return fmt.Errorf("%s: %w", op, common.ErrorInternal)
}
