package admincli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/flatfinder/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type migrationCounter struct {
	*repomanager.MemoryRepositoryManager
	runs int
}

func (m *migrationCounter) RunMigrations(context.Context) error {
	m.runs++
	return nil
}

func run(t *testing.T, rm repomanager.RepositoryManager, stdin string, args ...string) (string, error) {
	t.Helper()
	var gotDSN string
	open := func(_ context.Context, dsn string) (repomanager.RepositoryManager, error) {
		gotDSN = dsn
		return rm, nil
	}

	cmd := NewRootCmd(open)
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--dsn", "postgres://test"}, args...))

	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		assert.Equal(t, "postgres://test", gotDSN)
	}
	return out.String(), err
}

func scripted(t *testing.T) {
	t.Helper()
	orig := isTerminal
	t.Cleanup(func() { isTerminal = orig })
	isTerminal = func(int) bool { return false }
}

func TestMigrate(t *testing.T) {
	rm := &migrationCounter{MemoryRepositoryManager: repomanager.NewMemoryRepositoryManager()}

	out, err := run(t, rm, "", "migrate")
	require.NoError(t, err)
	assert.Equal(t, 1, rm.runs)
	assert.Contains(t, out, "Migrations applied.")
}

func TestMissingDSN(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")
	cmd := NewRootCmd(func(context.Context, string) (repomanager.RepositoryManager, error) {
		t.Fatal("opener must not be called")
		return nil, nil
	})
	cmd.SetArgs([]string{"migrate"})
	cmd.SetOut(&bytes.Buffer{})

	err := cmd.Execute()
	require.ErrorContains(t, err, "DSN")
}

func TestOpenError(t *testing.T) {
	cmd := NewRootCmd(func(context.Context, string) (repomanager.RepositoryManager, error) {
		return nil, errors.New("connection refused")
	})
	cmd.SetArgs([]string{"--dsn", "x", "promote", "a@example.com"})
	cmd.SetOut(&bytes.Buffer{})

	err := cmd.Execute()
	require.ErrorContains(t, err, "connection refused")
}

func TestCreateAdminAndPromotion(t *testing.T) {
	scripted(t)
	rm := repomanager.NewMemoryRepositoryManager()

	out, err := run(t, rm, "Ada\nLovelace\n1815-12-10\nsecret1\n", "create-admin", "--email", "Ada@Example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Admin ada@example.com created")

	u, err := rm.Repos().Users.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.True(t, u.Admin)
	assert.Equal(t, "Lovelace", u.LastName)

	out, err = run(t, rm, "", "demote", "ada@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "admin=false")

	out, err = run(t, rm, "", "promote", "ADA@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "admin=true")

	_, err = run(t, rm, "", "promote", "ghost@example.com")
	require.Error(t, err)

	_, err = run(t, rm, "", "promote")
	require.Error(t, err)
}

func TestCreateAdminPromptsForEmail(t *testing.T) {
	scripted(t)
	rm := repomanager.NewMemoryRepositoryManager()

	_, err := run(t, rm, "ops@example.com\nOps\nTeam\n1990-01-01\nsecret1\n", "create-admin")
	require.NoError(t, err)

	_, err = rm.Repos().Users.GetByEmail(context.Background(), "ops@example.com")
	require.NoError(t, err)
}

func TestCreateAdminRejectsShortPassword(t *testing.T) {
	scripted(t)
	rm := repomanager.NewMemoryRepositoryManager()

	_, err := run(t, rm, "Ada\nLovelace\n1815-12-10\nabc\n", "create-admin", "--email", "ada@example.com")
	require.Error(t, err)
}

func TestCreateAdminReadsPasswordFromTerminal(t *testing.T) {
	origTerm, origRead := isTerminal, readPassword
	t.Cleanup(func() { isTerminal, readPassword = origTerm, origRead })
	isTerminal = func(int) bool { return true }
	var typed []byte
	readPassword = func(int) ([]byte, error) {
		typed = []byte("hidden1")
		return typed, nil
	}

	rm := repomanager.NewMemoryRepositoryManager()
	_, err := run(t, rm, "Ada\nLovelace\n1815-12-10\n", "create-admin", "--email", "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, make([]byte, len("hidden1")), typed, "terminal buffer is wiped")
}
