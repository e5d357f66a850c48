package admincli

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/flatfinder/internal/server/models"
	"github.com/dmitrijs2005/flatfinder/internal/server/objectstore"
	"github.com/dmitrijs2005/flatfinder/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type presignStore struct {
	base string
}

func (s *presignStore) PresignPut(_ context.Context, key string) (string, error) {
	return s.base + "/" + key, nil
}

func (s *presignStore) PresignGet(_ context.Context, key string) (string, error) {
	return s.base + "/" + key, nil
}

func (s *presignStore) List(context.Context, string) ([]string, error) {
	return nil, nil
}

func withStore(t *testing.T, fn func(context.Context, objectstore.Config) (objectstore.Store, error)) {
	t.Helper()
	orig := newObjectStore
	t.Cleanup(func() { newObjectStore = orig })
	newObjectStore = fn
}

func photoFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "living-room.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg bytes"), 0o600))
	return path
}

func TestUploadPhoto(t *testing.T) {
	var gotPath, gotCT, gotBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCT = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	var gotCfg objectstore.Config
	withStore(t, func(_ context.Context, cfg objectstore.Config) (objectstore.Store, error) {
		gotCfg = cfg
		return &presignStore{base: ts.URL}, nil
	})

	rm := repomanager.NewMemoryRepositoryManager()
	_, err := rm.Repos().Flats.Create(context.Background(), &models.Flat{ID: "flat-1", City: "Berlin", OwnerID: "u1"})
	require.NoError(t, err)

	out, err := run(t, rm, "", "upload-photo", "--s3-bucket", "photos", "flat-1", photoFile(t))
	require.NoError(t, err)

	key := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(key, objectstore.PhotoPrefix("flat-1")), key)
	assert.Equal(t, "/"+key, gotPath)
	assert.Equal(t, "image/jpeg", gotCT)
	assert.Equal(t, "jpeg bytes", gotBody)
	assert.Equal(t, "photos", gotCfg.Bucket)
}

func TestUploadPhoto_Errors(t *testing.T) {
	withStore(t, func(context.Context, objectstore.Config) (objectstore.Store, error) {
		return nil, errors.New("no credentials")
	})

	rm := repomanager.NewMemoryRepositoryManager()
	_, err := rm.Repos().Flats.Create(context.Background(), &models.Flat{ID: "flat-1", OwnerID: "u1"})
	require.NoError(t, err)

	t.Setenv("S3_BUCKET", "")
	_, err = run(t, rm, "", "upload-photo", "flat-1", photoFile(t))
	require.ErrorContains(t, err, "no bucket")

	_, err = run(t, rm, "", "upload-photo", "--s3-bucket", "b", "ghost", photoFile(t))
	require.ErrorContains(t, err, "not found")

	_, err = run(t, rm, "", "upload-photo", "--s3-bucket", "b", "flat-1", filepath.Join(t.TempDir(), "absent.jpg"))
	require.Error(t, err)

	_, err = run(t, rm, "", "upload-photo", "--s3-bucket", "b", "flat-1", photoFile(t))
	require.ErrorContains(t, err, "no credentials")
}
