package discount

import "sofida/domain"

// mapAggressiveness turns the business aggressiveness dial (clamped to [0,10])
// into blend weights and the inventory-coverage bar. Higher aggressiveness
// shifts weight toward the rule-based curve and raises the coverage factor.
func mapAggressiveness(aggressiveness float64) (wModel, wEq, coverageFactor float64) {
	a := clip(aggressiveness, 0.0, 10.0)
	wEq = clip(0.2+0.06*a, 0.2, 0.8)
	wModel = 1.0 - wEq
	coverageFactor = 0.9 + 0.02*a
	return wModel, wEq, coverageFactor
}

// relief is the slack policy permitting partial clearance without maximal
// discounting.
type relief struct {
	MaxFrac      float64
	UnitsPerHour float64
	SlackUnits   float64
}

// computeRelief derives the slack allowance from the pre-clamped
// aggressiveness. MaxFrac has no explicit lower clip; with aggressiveness
// clamped to [0,10] its floor is 0.10, which the selector tests pin down.
func computeRelief(amountLeft, winHours, aggressiveness float64) relief {
	a := clip(aggressiveness, 0.0, 10.0)

	r := relief{
		MaxFrac:      0.60 - 0.05*a,
		UnitsPerHour: 2.0 - 0.18*a,
	}

	byFraction := amountLeft * r.MaxFrac
	byRate := r.UnitsPerHour * winHours
	if byFraction < byRate {
		r.SlackUnits = byFraction
	} else {
		r.SlackUnits = byRate
	}
	return r
}

// requiredUnits is the clearance target after relief slack and coverage.
func requiredUnits(amountLeft, slackUnits, coverageFactor float64) float64 {
	base := amountLeft - slackUnits
	if base < 0 {
		base = 0
	}
	return base * coverageFactor
}

// baselineIndex finds the exact baseline percentage in the sorted grid; when
// absent, the first grid element silently serves as baseline. Documented
// default, not an error.
func baselineIndex(grid []float64, baselinePct float64) int {
	for i, p := range grid {
		if p == baselinePct {
			return i
		}
	}
	return 0
}

// selectCandidate scans candidates in ascending percentage order and picks the
// first one whose adjusted expectation meets the clearance target, favoring
// the smallest sufficient discount. When none qualifies it falls back to the
// candidate selling through the most.
func selectCandidate(adjustedExpected []float64, required float64) (idx int, status string) {
	for i, v := range adjustedExpected {
		if v >= required {
			return i, domain.StatusCanClear
		}
	}
	return argmax(adjustedExpected), domain.StatusCannotClear
}

// argmax returns the index of the first maximum.
func argmax(xs []float64) int {
	best := 0
	for i, v := range xs {
		if v > xs[best] {
			best = i
		}
	}
	return best
}
