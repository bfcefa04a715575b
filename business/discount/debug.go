package discount

import "sofida/domain"

type debugInputs struct {
	grid                 []float64
	rows                 []FeatureRow
	predUnitsModel       []float64
	predUnitsEq          []float64
	predUnitsPerHour     []float64
	multiplierVsBaseline []float64
	adjustedExpected     []float64
	requiredUnits        float64
	slackUnits           float64
	chosenIdx            int
}

// buildDebugRows assembles the per-candidate trace, one row per grid entry in
// the same ascending order the selector scanned, with the winner marked.
func buildDebugRows(in debugInputs) []domain.DiscountDebugRow {
	out := make([]domain.DiscountDebugRow, 0, len(in.grid))

	for i, pct := range in.grid {
		features := make(map[string]any, len(in.rows[i]))
		for k, v := range in.rows[i] {
			features[k] = v
		}

		out = append(out, domain.DiscountDebugRow{
			Pct:                          pct,
			Features:                     features,
			PredUnitsModel:               in.predUnitsModel[i],
			PredUnitsEq:                  in.predUnitsEq[i],
			PredUnitsPerHour:             in.predUnitsPerHour[i],
			MultiplierVsBaseline:         in.multiplierVsBaseline[i],
			AdjustedExpectedForRemaining: in.adjustedExpected[i],
			RequiredUnits:                in.requiredUnits,
			SlackUnits:                   in.slackUnits,
			Chosen:                       i == in.chosenIdx,
		})
	}

	return out
}
