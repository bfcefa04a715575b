package discount

import (
	"sort"
	"strconv"
	"time"
)

// Params are the scalar decision inputs for one recommendation call.
type Params struct {
	AmountLeft                 float64
	ExpectedDemandForRemaining float64
	NowTSUnix                  int64
	WindowEndTSUnix            int64
	PlaceID                    int64
	ItemID                     int64
	NumItemsTargeted           int
	PctGrid                    []float64
	BaselinePct                float64
	Aggressiveness             float64
	CampaignSegment            string
}

// sortedGrid returns an ascending copy of the candidate grid. Duplicate values
// are kept; rows are index-addressed by position in this order.
func sortedGrid(grid []float64) []float64 {
	out := make([]float64, len(grid))
	copy(out, grid)
	sort.Float64s(out)
	return out
}

// windowHours converts the remaining window to hours with the documented floor.
func windowHours(nowTS, endTS int64) float64 {
	h := float64(endTS-nowTS) / 3600.0
	if h < minWindowHours {
		return minWindowHours
	}
	return h
}

// makeDaypart buckets an hour-of-day into the coarse categorical the model was
// trained on. Negative hours map to "unknown".
func makeDaypart(hour int) string {
	switch {
	case hour < 0:
		return "unknown"
	case hour >= 5 && hour <= 10:
		return "morning"
	case hour >= 11 && hour <= 15:
		return "afternoon"
	case hour >= 16 && hour <= 20:
		return "evening"
	default:
		return "night"
	}
}

// rowContext holds every field shared by all candidates of one call. Only the
// discount percentage and its derived depth fields vary across the grid.
type rowContext struct {
	windowHours float64

	hour      int
	dow       int // Monday=0 .. Sunday=6, training-data convention
	month     int
	isWeekend int
	daypart   string

	placeID          int64
	itemID           int64
	numItemsTargeted int
	campaignSegment  string

	itemPrior  float64
	placePrior float64
}

func buildRowContext(p Params, winHours, itemPrior, placePrior float64) rowContext {
	now := time.Unix(p.NowTSUnix, 0).UTC()
	dow := (int(now.Weekday()) + 6) % 7

	isWeekend := 0
	if dow >= 5 {
		isWeekend = 1
	}

	segment := p.CampaignSegment
	if segment == "" {
		segment = CampaignSegmentItem
	}

	return rowContext{
		windowHours:      winHours,
		hour:             now.Hour(),
		dow:              dow,
		month:            int(now.Month()),
		isWeekend:        isWeekend,
		daypart:          makeDaypart(now.Hour()),
		placeID:          p.PlaceID,
		itemID:           p.ItemID,
		numItemsTargeted: p.NumItemsTargeted,
		campaignSegment:  segment,
		itemPrior:        itemPrior,
		placePrior:       placePrior,
	}
}

// buildCandidateRows produces one feature row per grid percentage, in grid
// order. Categorical columns carry canonical strings so the aligner can match
// them against the training vocabulary.
func buildCandidateRows(rc rowContext, grid []float64) []FeatureRow {
	rows := make([]FeatureRow, 0, len(grid))

	durationCapped := rc.windowHours
	if durationCapped > maxDurationHours {
		durationCapped = maxDurationHours
	}

	for _, p := range grid {
		effMult := clip(1.0-p, minPriceMultiplier, 1.0)

		row := FeatureRow{
			"discount_kind_final": "pct",
			"discount_pct_final":  p,
			"buy_qty":             0.0,
			"pay_qty":             0.0,
			"get_qty":             0.0,

			"discount_is_pct":      1.0,
			"discount_is_multibuy": 0.0,
			"discount_is_unknown":  0.0,

			"effective_price_multiplier_final": effMult,
			"effective_discount_depth_final":   clip(1.0-effMult, 0.0, maxDiscountDepth),

			"duration_hours":        rc.windowHours,
			"duration_hours_capped": durationCapped,

			"has_start_time":    1.0,
			"has_end_time":      1.0,
			"has_valid_time":    1.0,
			"duration_is_valid": 1.0,

			"hour_of_day_start": float64(rc.hour),
			"day_of_week_start": float64(rc.dow),
			"is_weekend_start":  float64(rc.isWeekend),
			"month_start":       float64(rc.month),
			"daypart":           rc.daypart,

			"num_items_targeted": float64(rc.numItemsTargeted),
			"place_id":           strconv.FormatInt(rc.placeID, 10),
			"item_id":            strconv.FormatInt(rc.itemID, 10),
			"campaign_segment":   rc.campaignSegment,

			"order_count":             rc.itemPrior,
			"place_total_order_count": rc.placePrior,
		}

		rows = append(rows, row)
	}

	return rows
}
