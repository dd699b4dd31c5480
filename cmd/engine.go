package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/sitescout/internal/layers"
	"github.com/sells-group/sitescout/internal/model"
	"github.com/sells-group/sitescout/internal/recommend"
	"github.com/sells-group/sitescout/internal/scoring"
)

// engineEnv bundles the store-backed layer set and the engine built on it.
type engineEnv struct {
	store  layers.Store
	set    *layers.Set
	engine *recommend.Engine
}

func (e *engineEnv) Close() {
	if err := e.store.Close(); err != nil {
		zap.L().Warn("close store", zap.Error(err))
	}
}

// initEngine opens the feature store, loads all layers into memory, and
// builds the recommendation engine from config.
func initEngine(ctx context.Context) (*engineEnv, error) {
	store, err := layers.OpenStore(ctx, cfg.Store.Driver, cfg.Store.DSN())
	if err != nil {
		return nil, err
	}

	set, err := layers.LoadSet(ctx, store, cfg.Engine.CellKM)
	if err != nil {
		store.Close()
		return nil, err
	}

	var profiles map[string]scoring.Weights
	if cfg.Engine.ProfilesPath != "" {
		profiles, err = scoring.LoadProfiles(cfg.Engine.ProfilesPath)
		if err != nil {
			store.Close()
			return nil, err
		}
		zap.L().Info("loaded weight profiles",
			zap.String("path", cfg.Engine.ProfilesPath),
			zap.Int("profiles", len(profiles)),
		)
	}

	engine := recommend.New(set, recommend.Options{
		ChunkSize:      cfg.Engine.ChunkSize,
		Workers:        cfg.Engine.Workers,
		Bounds:         &cfg.Engine.Bounds,
		GridSpacingDeg: cfg.Engine.GridSpacingDeg,
		ExtraProfiles:  profiles,
	})

	zap.L().Info("engine ready",
		zap.Int("features", set.Total()),
		zap.Strings("missing_layers", layerNames(set.MissingLayers())),
	)

	return &engineEnv{store: store, set: set, engine: engine}, nil
}

func layerNames(ls []model.Layer) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = string(l)
	}
	return out
}
