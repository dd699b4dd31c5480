package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/sitescout/internal/export"
	"github.com/sells-group/sitescout/internal/recommend"
)

var (
	recommendInput      string
	recommendOutput     string
	recommendCandidates int
	recommendTopN       int
	recommendMode       string
	recommendSpacing    float64
	recommendSeed       uint64
	recommendPersona    string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Score candidate sites against existing locations",
	Long:  "Loads existing locations from a JSON or CSV file, generates and scores candidate sites, and writes the ranked results to stdout or a .json/.xlsx/.geojson file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("recommend"); err != nil {
			return err
		}

		existing, err := recommend.LoadExistingLocations(recommendInput)
		if err != nil {
			return err
		}

		env, err := initEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		req := recommend.Request{
			ExistingLocations: existing,
			NumCandidates:     recommendCandidates,
			TopN:              recommendTopN,
			Mode:              recommendMode,
			GridSpacingDeg:    recommendSpacing,
			Seed:              recommendSeed,
			Persona:           recommendPersona,
		}
		if req.NumCandidates == 0 {
			req.NumCandidates = cfg.Engine.NumCandidates
		}
		if req.TopN == 0 {
			req.TopN = cfg.Engine.TopN
		}

		resp, err := env.engine.Recommend(cmd.Context(), req)
		if err != nil {
			return err
		}

		if recommendOutput == "" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}

		if err := export.Write(recommendOutput, resp); err != nil {
			return err
		}
		zap.L().Info("results written",
			zap.String("path", recommendOutput),
			zap.Int("recommendations", len(resp.TopRecommendations)),
		)
		return nil
	},
}

func init() {
	recommendCmd.Flags().StringVarP(&recommendInput, "input", "i", "", "existing locations file (.json or .csv)")
	recommendCmd.Flags().StringVarP(&recommendOutput, "output", "o", "", "output file (.json, .xlsx, .geojson; default stdout)")
	recommendCmd.Flags().IntVarP(&recommendCandidates, "candidates", "n", 0, "number of candidates (default from config)")
	recommendCmd.Flags().IntVar(&recommendTopN, "top", 0, "number of results to return (default from config)")
	recommendCmd.Flags().StringVar(&recommendMode, "mode", "", "candidate generation mode: random or grid")
	recommendCmd.Flags().Float64Var(&recommendSpacing, "grid-spacing", 0, "grid spacing in degrees (grid mode)")
	recommendCmd.Flags().Uint64Var(&recommendSeed, "seed", 0, "random seed for reproducible sampling")
	recommendCmd.Flags().StringVar(&recommendPersona, "persona", "", "weight profile name")
	recommendCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(recommendCmd)
}
