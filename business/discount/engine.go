package discount

import (
	"errors"
	"fmt"

	"sofida/domain"
)

// ErrEmptyGrid is a precondition violation: callers must supply at least one
// candidate percentage.
var ErrEmptyGrid = errors.New("pct_grid must contain at least one candidate percentage")

// ModelSnapshot is the read-only trained-model handle the engine scores with.
// A snapshot is immutable for its lifetime; reload swaps in a whole new one.
type ModelSnapshot struct {
	Model        Regressor
	FeatureCols  []string
	Vocabulary   CategoryVocabulary
	LoadedAtUnix int64
}

// recommendDiscount is the decision core: pure function of its inputs plus the
// read-only snapshot. It builds one feature row per sorted grid candidate,
// blends model and rule-based velocity estimates, computes the clearance
// target and selects the winning percentage.
func recommendDiscount(
	snap *ModelSnapshot,
	p Params,
	itemPrior, placePrior float64,
	cfg Config,
	withDebug bool,
) (domain.DiscountRecommendation, []domain.DiscountDebugRow, error) {
	var zero domain.DiscountRecommendation

	if len(p.PctGrid) == 0 {
		return zero, nil, ErrEmptyGrid
	}

	grid := sortedGrid(p.PctGrid)
	winHours := windowHours(p.NowTSUnix, p.WindowEndTSUnix)
	wModel, wEq, coverageFactor := mapAggressiveness(p.Aggressiveness)

	rc := buildRowContext(p, winHours, itemPrior, placePrior)
	rows := buildCandidateRows(rc, grid)
	rows = projectColumns(rows, snap.FeatureCols)
	AlignCategories(rows, snap.Vocabulary)

	predUnitsModel, err := scoreModel(snap.Model, rows)
	if err != nil {
		return zero, nil, err
	}

	predUnitsEq := make([]float64, len(grid))
	for i, pct := range grid {
		predUnitsEq[i] = eqUnitsPerHour(
			p.AmountLeft,
			p.ExpectedDemandForRemaining,
			pct,
			winHours,
			cfg.MaxBoostFactor,
		)
	}

	predUnitsPerHour := make([]float64, len(grid))
	for i := range grid {
		predUnitsPerHour[i] = wModel*predUnitsModel[i] + wEq*predUnitsEq[i]
	}

	baseIdx := baselineIndex(grid, p.BaselinePct)
	baselineUnits := predUnitsPerHour[baseIdx]

	denom := baselineUnits
	if denom < 1e-6 {
		denom = 1e-6
	}

	multiplierVsBaseline := make([]float64, len(grid))
	adjustedExpected := make([]float64, len(grid))
	for i := range grid {
		multiplierVsBaseline[i] = predUnitsPerHour[i] / denom
		adjustedExpected[i] = p.ExpectedDemandForRemaining * multiplierVsBaseline[i]
	}

	rel := computeRelief(p.AmountLeft, winHours, p.Aggressiveness)
	required := requiredUnits(p.AmountLeft, rel.SlackUnits, coverageFactor)

	chosenIdx, status := selectCandidate(adjustedExpected, required)

	result := domain.DiscountRecommendation{
		RecommendedPct:               grid[chosenIdx],
		PredUnitsPerHour:             predUnitsPerHour[chosenIdx],
		BaselineUnitsPerHour:         baselineUnits,
		MultiplierVsBaseline:         multiplierVsBaseline[chosenIdx],
		AdjustedExpectedForRemaining: adjustedExpected[chosenIdx],

		AmountLeft:                 p.AmountLeft,
		ExpectedDemandForRemaining: p.ExpectedDemandForRemaining,
		WindowHours:                winHours,

		CoverageFactor: coverageFactor,
		WModel:         wModel,
		WEq:            wEq,

		PlaceID:          p.PlaceID,
		ItemID:           p.ItemID,
		CampaignSegment:  rc.campaignSegment,
		NumItemsTargeted: p.NumItemsTargeted,

		Status:             status,
		Aggressiveness:     p.Aggressiveness,
		RequiredUnits:      required,
		SlackUnits:         rel.SlackUnits,
		ReliefMaxFrac:      rel.MaxFrac,
		ReliefUnitsPerHour: rel.UnitsPerHour,
	}

	if !withDebug {
		return result, nil, nil
	}

	dbg := buildDebugRows(debugInputs{
		grid:                 grid,
		rows:                 rows,
		predUnitsModel:       predUnitsModel,
		predUnitsEq:          predUnitsEq,
		predUnitsPerHour:     predUnitsPerHour,
		multiplierVsBaseline: multiplierVsBaseline,
		adjustedExpected:     adjustedExpected,
		requiredUnits:        required,
		slackUnits:           rel.SlackUnits,
		chosenIdx:            chosenIdx,
	})

	return result, dbg, nil
}

// validateParams rejects what cannot be defaulted or clamped. Everything else
// downstream is clamped rather than failed to keep the engine available with
// degenerate inputs.
func validateParams(p Params) error {
	if len(p.PctGrid) == 0 {
		return ErrEmptyGrid
	}
	for _, pct := range p.PctGrid {
		if pct < 0 || pct > 1 {
			return fmt.Errorf("pct_grid value %v outside [0,1]", pct)
		}
	}
	if p.AmountLeft < 0 {
		return fmt.Errorf("amount_left must be >= 0, got %v", p.AmountLeft)
	}
	if p.ExpectedDemandForRemaining < 0 {
		return fmt.Errorf("expected_demand_for_remaining must be >= 0, got %v", p.ExpectedDemandForRemaining)
	}
	return nil
}
