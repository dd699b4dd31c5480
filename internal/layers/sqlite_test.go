package layers

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sitescout/internal/model"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "features.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	n, err := store.SaveFeatures(ctx, testFeatures())
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	features, err := store.LoadFeatures(ctx)
	require.NoError(t, err)
	require.Len(t, features, 5)
	assert.Equal(t, model.LayerSubstation, features[0].Layer)
	assert.InDelta(t, 57.15, features[0].Latitude, 1e-9)

	counts, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[model.LayerSubstation])
	assert.Equal(t, 0, counts[model.LayerIXP])
}

func TestSQLiteStore_SaveEmpty(t *testing.T) {
	store := openTestStore(t)
	n, err := store.SaveFeatures(context.Background(), nil)
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLiteStore_ReplaceLayer(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	_, err := store.SaveFeatures(ctx, testFeatures())
	require.NoError(t, err)

	replacement := []model.Feature{
		{Coordinate: model.Coordinate{Latitude: 51.5, Longitude: -0.1}, Layer: model.LayerSubstation},
	}
	n, err := store.ReplaceLayer(ctx, model.LayerSubstation, replacement)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	counts, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[model.LayerSubstation])
	assert.Equal(t, 1, counts[model.LayerFiber])
}

func TestLoadSet_FromStore(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	_, err := store.SaveFeatures(ctx, testFeatures())
	require.NoError(t, err)

	set, err := LoadSet(ctx, store, DefaultCellKM)
	require.NoError(t, err)
	assert.Equal(t, 5, set.Total())
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), "oracle", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)
}
