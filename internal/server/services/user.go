package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/flatfinder/internal/common"
	"github.com/dmitrijs2005/flatfinder/internal/logging"
	"github.com/dmitrijs2005/flatfinder/internal/server/auth"
	"github.com/dmitrijs2005/flatfinder/internal/server/models"
	"github.com/dmitrijs2005/flatfinder/internal/server/policy"
	"github.com/dmitrijs2005/flatfinder/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/flatfinder/internal/server/validate"
	"github.com/google/uuid"
)

// UserService handles registration, login and account management.
type UserService struct {
	repomanager repomanager.RepositoryManager
	creds       *auth.Credentials
	deletes     DeletePolicy
	log         logging.Logger
}

func NewUserService(m repomanager.RepositoryManager, creds *auth.Credentials, deletes DeletePolicy, log logging.Logger) *UserService {
	return &UserService{repomanager: m, creds: creds, deletes: deletes, log: log.With("module", "users")}
}

// Register validates raw and creates a regular user. An "admin" field in
// raw is ignored.
func (s *UserService) Register(ctx context.Context, raw validate.Raw) (*models.User, error) {
	in, err := validate.NewUser(raw)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, in, false)
}

// CreateAdmin creates a user with the admin flag set. Only the admin CLI
// calls it.
func (s *UserService) CreateAdmin(ctx context.Context, raw validate.Raw) (*models.User, error) {
	in, err := validate.NewUser(raw)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, in, true)
}

func (s *UserService) create(ctx context.Context, in models.UserInput, admin bool) (*models.User, error) {
	hash, err := s.creds.HashPassword(in.Password)
	if err != nil {
		s.log.Error(ctx, "hash password", "error", err)
		return nil, common.ErrorInternal
	}

	u, err := s.repomanager.Repos().Users.Create(ctx, &models.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		BirthDate:    in.BirthDate,
		Admin:        admin,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, errEmailTaken
		}
		s.log.Error(ctx, "create user", "error", err)
		return nil, common.ErrorInternal
	}

	s.log.Info(ctx, "user registered", "user_id", u.ID, "admin", admin)
	return u, nil
}

// Login checks the credentials in raw and issues a session token. Unknown
// emails and wrong passwords fail the same way.
func (s *UserService) Login(ctx context.Context, raw validate.Raw) (*models.User, string, error) {
	email, password, err := validate.Login(raw)
	if err != nil {
		return nil, "", err
	}

	u, err := s.repomanager.Repos().Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.creds.VerifyDummy(password)
			return nil, "", common.ErrorInvalidCredentials
		}
		s.log.Error(ctx, "lookup user by email", "error", err)
		return nil, "", common.ErrorInternal
	}

	if !s.creds.VerifyPassword(password, u.PasswordHash) {
		return nil, "", common.ErrorInvalidCredentials
	}

	if s.creds.NeedsRehash(u.PasswordHash) {
		s.rehash(ctx, u, password)
	}

	token, err := s.creds.IssueToken(u)
	if err != nil {
		s.log.Error(ctx, "issue token", "error", err)
		return nil, "", common.ErrorInternal
	}

	return u, token, nil
}

// rehash upgrades a password hash made with an older cost. Failures only
// cost the upgrade, not the login.
func (s *UserService) rehash(ctx context.Context, u *models.User, password string) {
	hash, err := s.creds.HashPassword(password)
	if err != nil {
		s.log.Warn(ctx, "rehash password", "user_id", u.ID, "error", err)
		return
	}
	if _, err := s.repomanager.Repos().Users.Update(ctx, u.ID, models.UserPatch{PasswordHash: &hash}); err != nil {
		s.log.Warn(ctx, "store rehashed password", "user_id", u.ID, "error", err)
		return
	}
	u.PasswordHash = hash
}

func (s *UserService) List(ctx context.Context, caller *policy.Identity) ([]*models.User, error) {
	if !caller.IsAdmin() {
		return nil, common.NewError(common.ErrorForbidden, "admin access required")
	}
	res, err := s.repomanager.Repos().Users.List(ctx)
	if err != nil {
		return nil, s.internal(ctx, "list users", err)
	}
	return res, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repomanager.Repos().Users.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(ctx, "get user", err)
	}
	return u, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.repomanager.Repos().Users.GetByEmail(ctx, validate.NormalizeEmail(email))
	if err != nil {
		return nil, s.lookupError(ctx, "get user by email", err)
	}
	return u, nil
}

// Update applies the recognized fields of raw. Only admins may change the
// admin flag; a new password is hashed before it is stored.
func (s *UserService) Update(ctx context.Context, caller *policy.Identity, id string, raw validate.Raw) (*models.User, error) {
	if !policy.CanManageUser(caller, id) {
		return nil, common.NewError(common.ErrorForbidden, "not allowed to update this user")
	}

	patch, err := validate.UserUpdate(raw, caller.IsAdmin())
	if err != nil {
		return nil, err
	}
	if patch.Password != nil {
		hash, err := s.creds.HashPassword(*patch.Password)
		if err != nil {
			return nil, s.internal(ctx, "hash password", err)
		}
		patch.PasswordHash = &hash
		patch.Password = nil
	}

	return s.update(ctx, id, patch)
}

// SetAdmin sets or clears the admin flag of the user with email.
func (s *UserService) SetAdmin(ctx context.Context, email string, admin bool) (*models.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, u.ID, models.UserPatch{Admin: &admin})
}

func (s *UserService) update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	u, err := s.repomanager.Repos().Users.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, errEmailTaken
		}
		return nil, s.lookupError(ctx, "update user", err)
	}
	return u, nil
}

// Delete removes a user. With CascadeUserContent their flats, the messages
// on those flats and the messages they sent go in the same transaction.
func (s *UserService) Delete(ctx context.Context, caller *policy.Identity, id string) error {
	if !policy.CanManageUser(caller, id) {
		return common.NewError(common.ErrorForbidden, "not allowed to delete this user")
	}

	if !s.deletes.CascadeUserContent {
		if err := s.repomanager.Repos().Users.Delete(ctx, id); err != nil {
			return s.lookupError(ctx, "delete user", err)
		}
		s.log.Info(ctx, "user deleted", "user_id", id)
		return nil
	}

	err := s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		if err := r.Users.Delete(ctx, id); err != nil {
			return err
		}
		flatIDs, err := r.Flats.DeleteByOwner(ctx, id)
		if err != nil {
			return err
		}
		for _, fid := range flatIDs {
			if _, err := r.Messages.DeleteByFlat(ctx, fid); err != nil {
				return err
			}
		}
		_, err = r.Messages.DeleteBySender(ctx, id)
		return err
	})
	if err != nil {
		return s.lookupError(ctx, "delete user with content", err)
	}

	s.log.Info(ctx, "user deleted with content", "user_id", id)
	return nil
}

// AddFavourite adds an existing flat to the user's favourites. Adding it
// twice is a no-op.
func (s *UserService) AddFavourite(ctx context.Context, caller *policy.Identity, userID, flatID string) (*models.User, error) {
	if !policy.CanManageUser(caller, userID) {
		return nil, common.NewError(common.ErrorForbidden, "not allowed to change these favourites")
	}

	repos := s.repomanager.Repos()
	if _, err := repos.Flats.GetByID(ctx, flatID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errFlatNotFound
		}
		return nil, s.internal(ctx, "get flat", err)
	}

	u, err := repos.Users.AddToSet(ctx, userID, models.FavouriteFlats, flatID)
	if err != nil {
		return nil, s.lookupError(ctx, "add favourite", err)
	}
	return u, nil
}

// RemoveFavourite drops flatID from the favourites; the flat need not exist.
func (s *UserService) RemoveFavourite(ctx context.Context, caller *policy.Identity, userID, flatID string) (*models.User, error) {
	if !policy.CanManageUser(caller, userID) {
		return nil, common.NewError(common.ErrorForbidden, "not allowed to change these favourites")
	}

	u, err := s.repomanager.Repos().Users.RemoveFromSet(ctx, userID, models.FavouriteFlats, flatID)
	if err != nil {
		return nil, s.lookupError(ctx, "remove favourite", err)
	}
	return u, nil
}

func (s *UserService) lookupError(ctx context.Context, op string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return errUserNotFound
	}
	return s.internal(ctx, op, err)
}

func (s *UserService) internal(ctx context.Context, op string, err error) error {
	s.log.Error(ctx, op, "error", err)
	return fmt.Errorf("%s: %w", op, common.ErrorInternal)
}
