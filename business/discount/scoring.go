package discount

import (
	"fmt"
	"math"
)

// FeatureRow is one model input row keyed by feature column name.
// Numeric features are float64, categorical features are string, and nil marks
// a missing/unknown categorical value.
type FeatureRow map[string]any

// Regressor is the trained model collaborator. Predictions are in log1p space;
// the engine never consumes a raw prediction without clampExpm1.
type Regressor interface {
	Predict(rows []FeatureRow) ([]float64, error)
}

const (
	expm1MinInput = -20.0
	expm1MaxInput = 10.0
)

// clampExpm1 inverse-transforms a log1p-space prediction into linear units.
// The input clip guards expm1 overflow; the floor removes negative-unit
// predictions from an imperfect regressor.
func clampExpm1(x float64) float64 {
	x = clip(x, expm1MinInput, expm1MaxInput)
	y := math.Expm1(x)
	if y < 0 {
		return 0
	}
	return y
}

// scoreModel runs the regressor on aligned rows and inverse-transforms every
// output. Inference errors propagate untouched; retrying is pointless because
// inference is deterministic for identical inputs.
func scoreModel(model Regressor, rows []FeatureRow) ([]float64, error) {
	predLog, err := model.Predict(rows)
	if err != nil {
		return nil, fmt.Errorf("model inference failed: %w", err)
	}
	if len(predLog) != len(rows) {
		return nil, fmt.Errorf("model inference failed: got %d predictions for %d rows", len(predLog), len(rows))
	}

	units := make([]float64, len(predLog))
	for i, v := range predLog {
		units[i] = clampExpm1(v)
	}
	return units, nil
}

// projectColumns keeps only the columns the model was trained on, in the
// model's declared order of interest. Columns the builder never produced are
// skipped rather than invented.
func projectColumns(rows []FeatureRow, featureCols []string) []FeatureRow {
	out := make([]FeatureRow, len(rows))
	for i, row := range rows {
		projected := make(FeatureRow, len(featureCols))
		for _, c := range featureCols {
			if v, ok := row[c]; ok {
				projected[c] = v
			}
		}
		out[i] = projected
	}
	return out
}

func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
