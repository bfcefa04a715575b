package discount

import (
	"math"
	"testing"

	"sofida/domain"

	"github.com/stretchr/testify/assert"
)

func TestMapAggressivenessMidpoint(t *testing.T) {
	wModel, wEq, coverage := mapAggressiveness(5)
	assert.InDelta(t, 0.5, wEq, 1e-9)
	assert.InDelta(t, 0.5, wModel, 1e-9)
	assert.InDelta(t, 1.0, coverage, 1e-9)
}

func TestMapAggressivenessClamped(t *testing.T) {
	wm15, we15, cov15 := mapAggressiveness(15)
	wm10, we10, cov10 := mapAggressiveness(10)
	assert.Equal(t, wm10, wm15)
	assert.Equal(t, we10, we15)
	assert.Equal(t, cov10, cov15)

	wmNeg, weNeg, covNeg := mapAggressiveness(-3)
	wm0, we0, cov0 := mapAggressiveness(0)
	assert.Equal(t, wm0, wmNeg)
	assert.Equal(t, we0, weNeg)
	assert.Equal(t, cov0, covNeg)

	// extremes of the weight clips
	assert.InDelta(t, 0.2, we0, 1e-9)
	assert.InDelta(t, 0.8, we10, 1e-9)
	assert.InDelta(t, 0.9, cov0, 1e-9)
	assert.InDelta(t, 1.1, cov10, 1e-9)
}

func TestComputeReliefMaxFracFloor(t *testing.T) {
	// with aggressiveness clamped to 10, MaxFrac bottoms out at 0.10
	r := computeRelief(100, 3, 10)
	assert.InDelta(t, 0.10, r.MaxFrac, 1e-9)
	assert.InDelta(t, 0.20, r.UnitsPerHour, 1e-9)

	rOver := computeRelief(100, 3, 99)
	assert.Equal(t, r, rOver)
}

func TestComputeReliefSlackIsMin(t *testing.T) {
	// a=5: MaxFrac=0.35, UnitsPerHour=1.1
	// amount=20, win=3h: byFraction=7.0, byRate=3.3 -> slack=3.3
	r := computeRelief(20, 3, 5)
	assert.InDelta(t, 3.3, r.SlackUnits, 1e-9)

	// tiny inventory: fraction side wins
	r = computeRelief(2, 3, 5)
	assert.InDelta(t, 0.7, r.SlackUnits, 1e-9)
}

func TestRequiredUnitsFloorsAtZero(t *testing.T) {
	if got := requiredUnits(2, 10, 1.1); got != 0 {
		t.Fatalf("slack beyond inventory must floor required at 0, got %v", got)
	}
	got := requiredUnits(20, 3.3, 1.0)
	if math.Abs(got-16.7) > 1e-9 {
		t.Fatalf("required units: got %v want 16.7", got)
	}
}

func TestBaselineIndex(t *testing.T) {
	grid := []float64{0, 0.05, 0.10, 0.20}
	assert.Equal(t, 2, baselineIndex(grid, 0.10))
	assert.Equal(t, 0, baselineIndex(grid, 0))
	// absent baseline falls back to the first grid element
	assert.Equal(t, 0, baselineIndex(grid, 0.07))
}

func TestSelectCandidateSmallestSufficient(t *testing.T) {
	idx, status := selectCandidate([]float64{5, 8, 12}, 10)
	assert.Equal(t, 2, idx)
	assert.Equal(t, domain.StatusCanClear, status)

	idx, status = selectCandidate([]float64{11, 12, 13}, 10)
	assert.Equal(t, 0, idx)
	assert.Equal(t, domain.StatusCanClear, status)
}

func TestSelectCandidateFallbackArgmax(t *testing.T) {
	idx, status := selectCandidate([]float64{5, 8, 9}, 10)
	assert.Equal(t, 2, idx)
	assert.Equal(t, domain.StatusCannotClear, status)
}

func TestArgmaxFirstMaximum(t *testing.T) {
	assert.Equal(t, 1, argmax([]float64{1, 7, 7, 3}))
	assert.Equal(t, 0, argmax([]float64{4}))
}
