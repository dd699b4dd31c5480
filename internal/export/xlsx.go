package export

import (
	"fmt"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/sitescout/internal/model"
	"github.com/sells-group/sitescout/internal/recommend"
)

// WriteXLSX writes a workbook with a Recommendations sheet and a Model sheet.
func WriteXLSX(path string, resp *recommend.Response) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet("Recommendations")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range []string{"rank", "latitude", "longitude", "composite_score", "percentile_rank", "recommendation"} {
		header.AddCell().SetString(col)
	}
	for _, layer := range model.Layers {
		header.AddCell().SetString(fmt.Sprintf("%s_score", layer))
		header.AddCell().SetString(fmt.Sprintf("%s_distance_km", layer))
	}

	for i, rec := range resp.TopRecommendations {
		row := sheet.AddRow()
		row.AddCell().SetInt(i + 1)
		row.AddCell().SetFloat(rec.Latitude)
		row.AddCell().SetFloat(rec.Longitude)
		row.AddCell().SetFloat(rec.CompositeScore)
		row.AddCell().SetFloat(rec.PercentileRank)
		row.AddCell().SetString(rec.Recommendation)
		for _, layer := range model.Layers {
			row.AddCell().SetFloat(rec.FeatureScores[layer])
			if d := rec.DistancesKM[layer]; d != nil {
				row.AddCell().SetFloat(*d)
			} else {
				row.AddCell().SetString("")
			}
		}
	}

	info, err := f.AddSheet("Model")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}
	addInfoRow(info, "model_type", resp.ModelInfo.ModelType)
	addInfoRow(info, "training_samples", strconv.Itoa(resp.ModelInfo.TrainingSamples))
	addInfoRow(info, "threshold_score", strconv.FormatFloat(resp.ModelInfo.ThresholdScore, 'f', 4, 64))
	addInfoRow(info, "candidates_evaluated", strconv.Itoa(resp.ModelInfo.CandidatesEvaluated))
	addInfoRow(info, "processing_time_seconds", strconv.FormatFloat(resp.ProcessingTimeSeconds, 'f', 3, 64))

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

func addInfoRow(sheet *xlsx.Sheet, key, value string) {
	row := sheet.AddRow()
	row.AddCell().SetString(key)
	row.AddCell().SetString(value)
}
