package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/flatfinder/internal/common"
	"github.com/dmitrijs2005/flatfinder/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	s := NewStore()
	tick := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	s.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick = tick.Add(time.Second)
		return tick
	}
	return s
}

func TestUsers_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore().Users()

	u, err := repo.Create(ctx, &models.User{ID: "u1", Email: "a@b.co"})
	require.NoError(t, err)
	assert.False(t, u.CreatedAt.IsZero())
	assert.NotNil(t, u.FavouriteFlats)

	_, err = repo.Create(ctx, &models.User{ID: "u2", Email: "a@b.co"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	got, err := repo.GetByEmail(ctx, "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	_, err = repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUsers_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore().Users()

	u, err := repo.Create(ctx, &models.User{ID: "u1", Email: "a@b.co"})
	require.NoError(t, err)
	u.FirstName = "changed"

	got, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got.FirstName)
}

func TestUsers_UpdateEmailConflict(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore().Users()

	_, _ = repo.Create(ctx, &models.User{ID: "u1", Email: "a@b.co"})
	_, _ = repo.Create(ctx, &models.User{ID: "u2", Email: "c@d.co"})

	taken := "a@b.co"
	_, err := repo.Update(ctx, "u2", models.UserPatch{Email: &taken})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	name := "Bob"
	got, err := repo.Update(ctx, "u2", models.UserPatch{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.FirstName)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))
}

func TestUsers_SetsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore().Users()
	_, _ = repo.Create(ctx, &models.User{ID: "u1", Email: "a@b.co"})

	for range 3 {
		_, err := repo.AddToSet(ctx, "u1", models.FavouriteFlats, "f1")
		require.NoError(t, err)
	}
	u, err := repo.AddToSet(ctx, "u1", models.FavouriteFlats, "f2")
	require.NoError(t, err)
	assert.Equal(t, []string{"f1", "f2"}, u.FavouriteFlats)

	u, err = repo.RemoveFromSet(ctx, "u1", models.FavouriteFlats, "f1")
	require.NoError(t, err)
	assert.Equal(t, []string{"f2"}, u.FavouriteFlats)

	_, err = repo.AddToSet(ctx, "u1", models.UserFlatSet("bogus"), "f1")
	assert.Error(t, err)
	_, err = repo.AddToSet(ctx, "ghost", models.CreatedFlats, "f1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUsers_ConcurrentAddToSet(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore().Users()
	_, _ = repo.Create(ctx, &models.User{ID: "u1", Email: "a@b.co"})

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.AddToSet(ctx, "u1", models.FavouriteFlats, "f1")
		}()
	}
	wg.Wait()

	u, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"f1"}, u.FavouriteFlats)
}

func TestUsers_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore().Users()
	_, _ = repo.Create(ctx, &models.User{ID: "u1", Email: "a@b.co"})

	require.NoError(t, repo.Delete(ctx, "u1"))
	assert.ErrorIs(t, repo.Delete(ctx, "u1"), common.ErrorNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFlats_ListAndFilter(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore().Flats()

	_, _ = repo.Create(ctx, &models.Flat{ID: "f1", City: "Berlin", Rent: 500, OwnerID: "u1"})
	_, _ = repo.Create(ctx, &models.Flat{ID: "f2", City: "Hamburg", Rent: 900, OwnerID: "u2"})
	_, _ = repo.Create(ctx, &models.Flat{ID: "f3", City: "berlin-mitte", Rent: 1500, OwnerID: "u1"})

	all, err := repo.List(ctx, models.FlatFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "f1", all[0].ID)

	city := "BERLIN"
	maxRent := 1000.0
	got, err := repo.List(ctx, models.FlatFilter{City: &city, MaxRent: &maxRent})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "f1", got[0].ID)

	ids, err := repo.DeleteByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"f1", "f3"}, ids)

	all, _ = repo.List(ctx, models.FlatFilter{})
	assert.Len(t, all, 1)
}

func TestFlats_Update(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore().Flats()
	_, _ = repo.Create(ctx, &models.Flat{ID: "f1", City: "Berlin", Rent: 500})

	rent := 600.0
	by := "u9"
	f, err := repo.Update(ctx, "f1", models.FlatPatch{Rent: &rent, UpdatedBy: &by})
	require.NoError(t, err)
	assert.Equal(t, 600.0, f.Rent)
	assert.Equal(t, "Berlin", f.City)
	assert.Equal(t, "u9", f.UpdatedBy)

	_, err = repo.Update(ctx, "nope", models.FlatPatch{})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "nope"), common.ErrorNotFound)
}

func TestMessages_Ordering(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore().Messages()

	add := func(id, flat, sender string) {
		_, err := repo.Create(ctx, &models.Message{ID: id, FlatID: flat, SenderID: sender, CreatedBy: sender})
		require.NoError(t, err)
	}
	add("m1", "f1", "u2")
	add("m2", "f1", "u3")
	add("m3", "f2", "u2")
	add("m4", "f1", "u2")
	add("m5", "f1", "owner")

	ids := func(ms []*models.Message) []string {
		res := make([]string, 0, len(ms))
		for _, m := range ms {
			res = append(res, m.ID)
		}
		return res
	}

	got, _ := repo.ListByFlat(ctx, "f1")
	assert.Equal(t, []string{"m1", "m2", "m4", "m5"}, ids(got))

	got, _ = repo.ListByFlatAndSender(ctx, "f1", "u2")
	assert.Equal(t, []string{"m1", "m4"}, ids(got))

	got, _ = repo.ListConversation(ctx, "f1", "owner", "u2")
	assert.Equal(t, []string{"m1", "m4", "m5"}, ids(got))

	got, _ = repo.ListBySender(ctx, "u2")
	assert.Equal(t, []string{"m4", "m3", "m1"}, ids(got))

	senders, _ := repo.Senders(ctx, "f1")
	require.Len(t, senders, 3)
	assert.Equal(t, "owner", senders[0].SenderID)
	assert.Equal(t, "u2", senders[1].SenderID)
	assert.Equal(t, int64(2), senders[1].MessageCount)
	assert.Equal(t, "u3", senders[2].SenderID)
}

func TestMessages_Deletes(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore().Messages()

	_, _ = repo.Create(ctx, &models.Message{ID: "m1", FlatID: "f1", SenderID: "u2"})
	_, _ = repo.Create(ctx, &models.Message{ID: "m2", FlatID: "f1", SenderID: "u3"})
	_, _ = repo.Create(ctx, &models.Message{ID: "m3", FlatID: "f2", SenderID: "u3"})

	n, err := repo.DeleteBySender(ctx, "u3")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.DeleteByFlat(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.ErrorIs(t, repo.Delete(ctx, "m1"), common.ErrorNotFound)
	_, err = repo.GetByID(ctx, "m1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
