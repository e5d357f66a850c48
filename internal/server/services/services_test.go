package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/dmitrijs2005/flatfinder/internal/cryptox"
	"github.com/dmitrijs2005/flatfinder/internal/logging"
	"github.com/dmitrijs2005/flatfinder/internal/server/auth"
	"github.com/dmitrijs2005/flatfinder/internal/server/models"
	"github.com/dmitrijs2005/flatfinder/internal/server/policy"
	"github.com/dmitrijs2005/flatfinder/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/flatfinder/internal/server/validate"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	repos    *repomanager.MemoryRepositoryManager
	users    *UserService
	flats    *FlatService
	messages *MessageService
}

func newFixture(t *testing.T, deletes DeletePolicy) *fixture {
	t.Helper()
	creds, err := auth.NewCredentials("test-secret", 0, cryptox.MinCost)
	require.NoError(t, err)

	m := repomanager.NewMemoryRepositoryManager()
	log := logging.NewNopLogger()
	return &fixture{
		repos:    m,
		users:    NewUserService(m, creds, deletes, log),
		flats:    NewFlatService(m, deletes, log),
		messages: NewMessageService(m, log),
	}
}

func userRaw(email string) validate.Raw {
	return validate.Raw{
		"email":     email,
		"password":  "secret1",
		"firstName": "Test",
		"lastName":  "User",
		"birthDate": "1990-01-01",
	}
}

func flatRaw() validate.Raw {
	return validate.Raw{
		"city":          "Berlin",
		"streetName":    "Main",
		"streetNumber":  "1",
		"areaSize":      json.Number("50"),
		"yearBuilt":     json.Number("1990"),
		"rent":          json.Number("800"),
		"dateAvailable": "2025-05-01T15:30:00Z",
	}
}

func identity(u *models.User) *policy.Identity {
	return &policy.Identity{UserID: u.ID, Email: u.Email, Role: u.Role()}
}

func (f *fixture) register(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), userRaw(email))
	require.NoError(t, err)
	return u
}

func (f *fixture) admin(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := f.users.CreateAdmin(context.Background(), userRaw(email))
	require.NoError(t, err)
	return u
}

func (f *fixture) flat(t *testing.T, owner *models.User) *models.Flat {
	t.Helper()
	fl, err := f.flats.Create(context.Background(), identity(owner), flatRaw())
	require.NoError(t, err)
	return fl
}

// assertKind fails unless err wraps kind.
func assertKind(t *testing.T, err, kind error) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, kind)
}
