package snapshot

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
)

func setupTestDB(t *testing.T) (*MongoStore, func()) {
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	store := NewMongoStore(db)
	require.NoError(t, store.CreateIndexes(ctx))

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return store, cleanup
}

func sampleLines() []domain.CartLine {
	return []domain.CartLine{
		{ProductID: uuid.New(), Name: "Gold Ring", Price: 249900, ImageURL: "https://cdn.example.com/ring.jpg", Quantity: 1},
		{ProductID: uuid.New(), Name: "Silver Anklet", Price: 45000, Quantity: 2},
	}
}

func TestGet_NotFound(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	lines, err := store.Get(context.Background(), "nonexistent")

	assert.ErrorIs(t, err, ErrSnapshotNotFound)
	assert.Nil(t, lines)
}

func TestPut_NewSession(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	want := sampleLines()
	require.NoError(t, store.Put(ctx, "session-1", want))

	got, err := store.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPut_OverwritesFullLineSet(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "session-1", sampleLines()))

	replacement := []domain.CartLine{
		{ProductID: uuid.New(), Name: "Pearl Set", Price: 129900, Quantity: 1},
	}
	require.NoError(t, store.Put(ctx, "session-1", replacement))

	got, err := store.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, replacement, got)
}

func TestPut_EmptyLineSet(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "session-1", sampleLines()))
	require.NoError(t, store.Put(ctx, "session-1", nil))

	got, err := store.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSessionsAreIsolated(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	a := sampleLines()
	b := sampleLines()
	require.NoError(t, store.Put(ctx, "session-a", a))
	require.NoError(t, store.Put(ctx, "session-b", b))

	gotA, err := store.Get(ctx, "session-a")
	require.NoError(t, err)
	gotB, err := store.Get(ctx, "session-b")
	require.NoError(t, err)

	assert.Equal(t, a, gotA)
	assert.Equal(t, b, gotB)
}

func TestDelete(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "session-1", sampleLines()))
	require.NoError(t, store.Delete(ctx, "session-1"))

	_, err := store.Get(ctx, "session-1")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	// A second delete finds nothing.
	assert.ErrorIs(t, store.Delete(ctx, "session-1"), ErrSnapshotNotFound)
}
