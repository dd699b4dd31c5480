package layers

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/sitescout/internal/model"
)

// Store persists infrastructure reference features between layer loads and
// engine starts.
type Store interface {
	// SaveFeatures appends features to the store. Returns the number saved.
	SaveFeatures(ctx context.Context, features []model.Feature) (int64, error)

	// ReplaceLayer atomically replaces all features of one layer.
	ReplaceLayer(ctx context.Context, layer model.Layer, features []model.Feature) (int64, error)

	// LoadFeatures returns all stored features.
	LoadFeatures(ctx context.Context) ([]model.Feature, error)

	// Counts returns per-layer feature counts.
	Counts(ctx context.Context) (map[model.Layer]int, error)

	// Close releases the underlying connection.
	Close() error
}

// OpenStore opens a feature store for the configured driver
// ("sqlite" or "postgres").
func OpenStore(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite", "":
		return OpenSQLite(dsn)
	case "postgres":
		return OpenPostgres(ctx, dsn)
	default:
		return nil, eris.Wrapf(model.ErrInvalidConfiguration, "layers: unknown store driver %q", driver)
	}
}

// LoadSet reads all features from the store and builds the immutable layer
// set. A store failure is an upstream-unavailable condition: scoring cannot
// proceed without reference data.
func LoadSet(ctx context.Context, store Store, cellKM float64) (*Set, error) {
	features, err := store.LoadFeatures(ctx)
	if err != nil {
		return nil, eris.Wrapf(model.ErrUpstreamUnavailable, "layers: load features: %v", err)
	}
	return NewSet(features, cellKM), nil
}
