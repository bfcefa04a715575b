package discount

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampExpm1(t *testing.T) {
	assert.Equal(t, 0.0, clampExpm1(0))
	assert.InDelta(t, math.Expm1(2.5), clampExpm1(2.5), 1e-12)

	// huge inputs saturate instead of overflowing
	assert.Equal(t, math.Expm1(expm1MaxInput), clampExpm1(100))
	assert.Equal(t, clampExpm1(expm1MaxInput), clampExpm1(1e9))

	// deeply negative predictions floor at zero units
	assert.Equal(t, 0.0, clampExpm1(-1000))
	assert.Equal(t, 0.0, clampExpm1(-0.5))
}

type stubRegressor struct {
	preds []float64
	err   error
	calls int
}

func (s *stubRegressor) Predict(rows []FeatureRow) ([]float64, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.preds != nil {
		return s.preds, nil
	}
	return make([]float64, len(rows)), nil
}

func TestScoreModelInverseTransforms(t *testing.T) {
	model := &stubRegressor{preds: []float64{0, 1, -5}}
	rows := make([]FeatureRow, 3)

	units, err := scoreModel(model, rows)
	require.NoError(t, err)
	require.Len(t, units, 3)

	assert.Equal(t, 0.0, units[0])
	assert.InDelta(t, math.Expm1(1), units[1], 1e-12)
	assert.Equal(t, 0.0, units[2])
}

func TestScoreModelPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := scoreModel(&stubRegressor{err: boom}, make([]FeatureRow, 2))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestScoreModelLengthMismatch(t *testing.T) {
	_, err := scoreModel(&stubRegressor{preds: []float64{1}}, make([]FeatureRow, 3))
	require.Error(t, err)
}

func TestProjectColumns(t *testing.T) {
	rows := []FeatureRow{{"a": 1.0, "b": "x", "c": 2.0}}
	got := projectColumns(rows, []string{"a", "b", "missing"})

	require.Len(t, got, 1)
	assert.Equal(t, FeatureRow{"a": 1.0, "b": "x"}, got[0])
}

func TestClip(t *testing.T) {
	assert.Equal(t, 0.5, clip(0.2, 0.5, 2.0))
	assert.Equal(t, 2.0, clip(9.0, 0.5, 2.0))
	assert.Equal(t, 1.0, clip(1.0, 0.5, 2.0))
}
