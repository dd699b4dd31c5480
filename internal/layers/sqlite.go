package layers

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/sitescout/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS features (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	layer     TEXT NOT NULL,
	name      TEXT NOT NULL DEFAULT '',
	latitude  REAL NOT NULL,
	longitude REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_features_layer ON features(layer);
`

// OpenSQLite opens (creating if necessary) a SQLite feature store at the
// given path and configures WAL mode.
func OpenSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	if _, err := db.Exec(sqliteMigration); err != nil {
		_ = db.Close()
		return nil, eris.Wrap(err, "sqlite: migrate")
	}
	return &SQLiteStore{db: db}, nil
}

// SaveFeatures implements Store.
func (s *SQLiteStore) SaveFeatures(ctx context.Context, features []model.Feature) (int64, error) {
	if len(features) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO features (layer, name, latitude, longitude) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert")
	}
	defer func() { _ = stmt.Close() }()

	var n int64
	for _, f := range features {
		if _, err := stmt.ExecContext(ctx, string(f.Layer), f.Name, f.Latitude, f.Longitude); err != nil {
			return n, eris.Wrap(err, "sqlite: insert feature")
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit")
	}
	return n, nil
}

// ReplaceLayer implements Store.
func (s *SQLiteStore) ReplaceLayer(ctx context.Context, layer model.Layer, features []model.Feature) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM features WHERE layer = ?`, string(layer)); err != nil {
		return 0, eris.Wrapf(err, "sqlite: clear layer %s", layer)
	}

	var n int64
	for _, f := range features {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO features (layer, name, latitude, longitude) VALUES (?, ?, ?, ?)`,
			string(layer), f.Name, f.Latitude, f.Longitude); err != nil {
			return 0, eris.Wrap(err, "sqlite: insert feature")
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit")
	}
	return n, nil
}

// LoadFeatures implements Store.
func (s *SQLiteStore) LoadFeatures(ctx context.Context) ([]model.Feature, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT layer, name, latitude, longitude FROM features ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query features")
	}
	defer func() { _ = rows.Close() }()

	var features []model.Feature
	for rows.Next() {
		var f model.Feature
		var layer string
		if err := rows.Scan(&layer, &f.Name, &f.Latitude, &f.Longitude); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan feature")
		}
		f.Layer = model.Layer(layer)
		features = append(features, f)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate features")
	}
	return features, nil
}

// Counts implements Store.
func (s *SQLiteStore) Counts(ctx context.Context) (map[model.Layer]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT layer, COUNT(*) FROM features GROUP BY layer`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: count features")
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[model.Layer]int, len(model.Layers))
	for _, l := range model.Layers {
		counts[l] = 0
	}
	for rows.Next() {
		var layer string
		var n int
		if err := rows.Scan(&layer, &n); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan count")
		}
		counts[model.Layer(layer)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate counts")
	}
	return counts, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
