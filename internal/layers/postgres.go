package layers

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/sitescout/internal/db"
	"github.com/sells-group/sitescout/internal/model"
)

// PostgresStore implements Store using a pgx connection pool.
type PostgresStore struct {
	pool db.Pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS features (
	id        BIGSERIAL PRIMARY KEY,
	layer     TEXT NOT NULL,
	name      TEXT NOT NULL DEFAULT '',
	latitude  DOUBLE PRECISION NOT NULL,
	longitude DOUBLE PRECISION NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_features_layer ON features(layer);
`

// OpenPostgres connects to Postgres and ensures the features schema exists.
func OpenPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := db.Connect(ctx, connString)
	if err != nil {
		return nil, err
	}
	store := NewPostgresStore(pool)
	if _, err := pool.Exec(ctx, postgresMigration); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: migrate features")
	}
	return store, nil
}

// NewPostgresStore wraps an existing pool. Used by tests with pgxmock.
func NewPostgresStore(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// SaveFeatures implements Store using the COPY protocol.
func (s *PostgresStore) SaveFeatures(ctx context.Context, features []model.Feature) (int64, error) {
	rows := make([][]any, 0, len(features))
	for _, f := range features {
		rows = append(rows, []any{string(f.Layer), f.Name, f.Latitude, f.Longitude})
	}
	return db.CopyFrom(ctx, s.pool, "features", []string{"layer", "name", "latitude", "longitude"}, rows)
}

// ReplaceLayer implements Store.
func (s *PostgresStore) ReplaceLayer(ctx context.Context, layer model.Layer, features []model.Feature) (int64, error) {
	if _, err := s.pool.Exec(ctx, `DELETE FROM features WHERE layer = $1`, string(layer)); err != nil {
		return 0, eris.Wrapf(err, "postgres: clear layer %s", layer)
	}
	return s.SaveFeatures(ctx, features)
}

// LoadFeatures implements Store.
func (s *PostgresStore) LoadFeatures(ctx context.Context) ([]model.Feature, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT layer, name, latitude, longitude FROM features ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query features")
	}
	defer rows.Close()

	var features []model.Feature
	for rows.Next() {
		var f model.Feature
		var layer string
		if err := rows.Scan(&layer, &f.Name, &f.Latitude, &f.Longitude); err != nil {
			return nil, eris.Wrap(err, "postgres: scan feature")
		}
		f.Layer = model.Layer(layer)
		features = append(features, f)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate features")
	}
	return features, nil
}

// Counts implements Store.
func (s *PostgresStore) Counts(ctx context.Context) (map[model.Layer]int, error) {
	rows, err := s.pool.Query(ctx, `SELECT layer, COUNT(*) FROM features GROUP BY layer`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: count features")
	}
	defer rows.Close()

	counts := make(map[model.Layer]int, len(model.Layers))
	for _, l := range model.Layers {
		counts[l] = 0
	}
	for rows.Next() {
		var layer string
		var n int
		if err := rows.Scan(&layer, &n); err != nil {
			return nil, eris.Wrap(err, "postgres: scan count")
		}
		counts[model.Layer(layer)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate counts")
	}
	return counts, nil
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
