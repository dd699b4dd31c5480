package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/sitescout/internal/layers"
	"github.com/sells-group/sitescout/internal/model"
)

var layersCmd = &cobra.Command{
	Use:   "layers",
	Short: "Manage infrastructure reference layers",
}

var (
	layersLoadLayer   string
	layersLoadReplace bool
)

var layersLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load features from a shapefile or CSV into a layer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("layers"); err != nil {
			return err
		}

		layer, err := model.ParseLayer(layersLoadLayer)
		if err != nil {
			return err
		}

		path := args[0]
		var features []model.Feature
		switch strings.ToLower(filepath.Ext(path)) {
		case ".shp":
			features, err = layers.ParseShapefile(path, layer)
		case ".csv":
			features, err = layers.ParseCSV(path, layer)
		default:
			return eris.Wrapf(model.ErrInvalidParameter, "layers: unsupported input format %s", filepath.Ext(path))
		}
		if err != nil {
			return err
		}

		store, err := layers.OpenStore(cmd.Context(), cfg.Store.Driver, cfg.Store.DSN())
		if err != nil {
			return err
		}
		defer store.Close()

		var n int64
		if layersLoadReplace {
			n, err = store.ReplaceLayer(cmd.Context(), layer, features)
		} else {
			n, err = store.SaveFeatures(cmd.Context(), features)
		}
		if err != nil {
			return err
		}

		zap.L().Info("layer loaded",
			zap.String("layer", string(layer)),
			zap.String("file", path),
			zap.Int64("features", n),
			zap.Bool("replace", layersLoadReplace),
		)
		fmt.Printf("Loaded %d %s features from %s\n", n, layer, path)
		return nil
	},
}

var layersStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show per-layer feature counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("layers"); err != nil {
			return err
		}

		store, err := layers.OpenStore(cmd.Context(), cfg.Store.Driver, cfg.Store.DSN())
		if err != nil {
			return err
		}
		defer store.Close()

		counts, err := store.Counts(cmd.Context())
		if err != nil {
			return err
		}

		for _, line := range statusLines(counts) {
			fmt.Println(line)
		}
		return nil
	},
}

// statusLines renders per-layer counts in canonical layer order, matching the
// ordering used in API responses and exports, followed by a total row.
func statusLines(counts map[model.Layer]int) []string {
	lines := make([]string, 0, len(model.Layers)+1)
	total := 0
	for _, layer := range model.Layers {
		n := counts[layer]
		total += n
		lines = append(lines, fmt.Sprintf("%-14s %8d", layer, n))
	}
	lines = append(lines, fmt.Sprintf("%-14s %8d", "total", total))
	return lines
}

func init() {
	layersLoadCmd.Flags().StringVarP(&layersLoadLayer, "layer", "l", "", "target layer (substation, transmission, fiber, ixp, water)")
	layersLoadCmd.Flags().BoolVar(&layersLoadReplace, "replace", false, "replace the layer's existing features")
	layersLoadCmd.MarkFlagRequired("layer")

	layersCmd.AddCommand(layersLoadCmd)
	layersCmd.AddCommand(layersStatusCmd)
	rootCmd.AddCommand(layersCmd)
}
