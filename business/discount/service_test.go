package discount

import (
	"context"
	"errors"
	"testing"
	"time"

	"sofida/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModels struct {
	snap *ModelSnapshot
	err  error
}

func (f *fakeModels) Snapshot(ctx context.Context) (*ModelSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snap, nil
}

type fakePopRepo struct {
	itemCount  float64
	placeCount float64
	err        error
}

func (f *fakePopRepo) ItemOrderCount(ctx context.Context, placeID, itemID int64) (float64, error) {
	return f.itemCount, f.err
}

func (f *fakePopRepo) PlaceOrderCount(ctx context.Context, placeID int64) (float64, error) {
	return f.placeCount, f.err
}

type fakeEventRepo struct {
	events []domain.DiscountEvent
	err    error
}

func (f *fakeEventRepo) SaveEvent(ctx context.Context, event domain.DiscountEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func testSnapshot(model Regressor) *ModelSnapshot {
	return &ModelSnapshot{
		Model: model,
		FeatureCols: []string{
			"discount_pct_final", "effective_price_multiplier_final",
			"duration_hours", "daypart", "place_id", "item_id",
			"campaign_segment", "order_count", "place_total_order_count",
		},
		Vocabulary: CategoryVocabulary{
			"daypart":          {"morning", "afternoon", "evening", "night"},
			"place_id":         {"59897"},
			"item_id":          {"42"},
			"campaign_segment": {CampaignSegmentItem, CampaignSegmentBill},
		},
		LoadedAtUnix: time.Now().Unix(),
	}
}

func testParams() Params {
	now := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC).Unix()
	return Params{
		AmountLeft:                 20,
		ExpectedDemandForRemaining: 18,
		NowTSUnix:                  now,
		WindowEndTSUnix:            now + 3*3600,
		PlaceID:                    59897,
		ItemID:                     42,
		NumItemsTargeted:           1,
		PctGrid:                    DefaultPctGrid(),
		BaselinePct:                0,
		Aggressiveness:             5,
	}
}

func newTestService(models ModelSource, events EventRepository) *DiscountService {
	return NewDiscountService(models, &fakePopRepo{itemCount: 7, placeCount: 120}, events, DefaultConfig())
}

func TestRecommendCanClearPicksSmallestDiscount(t *testing.T) {
	// zero-valued model predictions leave the rule curve in charge: the
	// undiscounted candidate already covers required units, so it wins.
	events := &fakeEventRepo{}
	svc := newTestService(&fakeModels{snap: testSnapshot(&stubRegressor{})}, events)

	result, err := svc.Recommend(context.Background(), testParams())
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.RecommendedPct)
	assert.Equal(t, domain.StatusCanClear, result.Status)
	assert.InDelta(t, 3.0, result.WindowHours, 1e-9)
	assert.InDelta(t, 0.5, result.WEq, 1e-9)
	assert.InDelta(t, 0.5, result.WModel, 1e-9)
	assert.InDelta(t, 1.0, result.CoverageFactor, 1e-9)
	assert.InDelta(t, 3.3, result.SlackUnits, 1e-9)
	assert.InDelta(t, 16.7, result.RequiredUnits, 1e-9)
	assert.InDelta(t, 1.0, result.MultiplierVsBaseline, 1e-9)
	assert.InDelta(t, 18.0, result.AdjustedExpectedForRemaining, 1e-9)
	assert.Equal(t, CampaignSegmentItem, result.CampaignSegment)

	require.Len(t, events.events, 1)
	assert.Equal(t, result.RecommendedPct, events.events[0].RecommendedPct)
	assert.Equal(t, result.Status, events.events[0].Status)
	assert.Contains(t, events.events[0].Context, "trace_id")
}

func TestRecommendCannotClearFallsBackToBestSellthrough(t *testing.T) {
	svc := newTestService(&fakeModels{snap: testSnapshot(&stubRegressor{})}, nil)

	p := testParams()
	p.AmountLeft = 200 // clearance target far beyond any candidate

	result, err := svc.Recommend(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCannotClear, result.Status)
	assert.Equal(t, 0.40, result.RecommendedPct)
}

func TestRecommendIsDeterministic(t *testing.T) {
	svc := newTestService(&fakeModels{snap: testSnapshot(&stubRegressor{})}, nil)
	p := testParams()

	a, err := svc.Recommend(context.Background(), p)
	require.NoError(t, err)
	b, err := svc.Recommend(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestRecommendSortsUnsortedGrid(t *testing.T) {
	svc := newTestService(&fakeModels{snap: testSnapshot(&stubRegressor{})}, nil)

	p := testParams()
	p.PctGrid = []float64{0.3, 0, 0.1}

	result, err := svc.Recommend(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.RecommendedPct)
}

func TestRecommendBaselineAbsentFallsBackToFirst(t *testing.T) {
	svc := newTestService(&fakeModels{snap: testSnapshot(&stubRegressor{})}, nil)

	p := testParams()
	p.BaselinePct = 0.07 // not in the grid

	result, err := svc.Recommend(context.Background(), p)
	require.NoError(t, err)
	// first grid element serves as baseline, so the pct 0 candidate has
	// multiplier 1.0
	assert.InDelta(t, 3.0, result.WindowHours, 1e-9)
	assert.Equal(t, domain.StatusCanClear, result.Status)
}

func TestRecommendUnknownPlaceAndItemAreSafe(t *testing.T) {
	svc := newTestService(&fakeModels{snap: testSnapshot(&stubRegressor{})}, nil)

	p := testParams()
	p.PlaceID = 999999
	p.ItemID = 888888

	_, err := svc.Recommend(context.Background(), p)
	require.NoError(t, err)
}

func TestRecommendWithDebugTracesEveryCandidate(t *testing.T) {
	svc := newTestService(&fakeModels{snap: testSnapshot(&stubRegressor{})}, nil)
	p := testParams()

	result, dbg, err := svc.RecommendWithDebug(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, dbg, len(p.PctGrid))

	chosen := 0
	for i, row := range dbg {
		if i > 0 {
			assert.GreaterOrEqual(t, row.Pct, dbg[i-1].Pct)
		}
		assert.InDelta(t, result.RequiredUnits, row.RequiredUnits, 1e-9)
		assert.InDelta(t, result.SlackUnits, row.SlackUnits, 1e-9)
		if row.Chosen {
			chosen++
			assert.Equal(t, result.RecommendedPct, row.Pct)
		}
	}
	assert.Equal(t, 1, chosen)
}

func TestRecommendBillForcesBillIdentity(t *testing.T) {
	svc := newTestService(&fakeModels{snap: testSnapshot(&stubRegressor{})}, nil)

	result, err := svc.RecommendBill(context.Background(), testParams())
	require.NoError(t, err)

	assert.Equal(t, CampaignSegmentBill, result.CampaignSegment)
	assert.Equal(t, int64(-1), result.ItemID)
	assert.Equal(t, 0, result.NumItemsTargeted)
}

func TestRecommendValidation(t *testing.T) {
	svc := newTestService(&fakeModels{snap: testSnapshot(&stubRegressor{})}, nil)

	p := testParams()
	p.PctGrid = nil
	_, err := svc.Recommend(context.Background(), p)
	assert.ErrorIs(t, err, ErrEmptyGrid)

	p = testParams()
	p.PctGrid = []float64{0, 1.5}
	_, err = svc.Recommend(context.Background(), p)
	assert.Error(t, err)

	p = testParams()
	p.AmountLeft = -1
	_, err = svc.Recommend(context.Background(), p)
	assert.Error(t, err)
}

func TestRecommendPriorLookupFailureDegradesToZero(t *testing.T) {
	svc := NewDiscountService(
		&fakeModels{snap: testSnapshot(&stubRegressor{})},
		&fakePopRepo{err: errors.New("table missing")},
		nil,
		DefaultConfig(),
	)

	_, err := svc.Recommend(context.Background(), testParams())
	require.NoError(t, err)
}

func TestRecommendEventWriteFailureDoesNotFailRequest(t *testing.T) {
	svc := newTestService(
		&fakeModels{snap: testSnapshot(&stubRegressor{})},
		&fakeEventRepo{err: errors.New("db down")},
	)

	_, err := svc.Recommend(context.Background(), testParams())
	require.NoError(t, err)
}

func TestRecommendSnapshotErrorPropagates(t *testing.T) {
	svc := newTestService(&fakeModels{err: errors.New("artifacts missing")}, nil)

	_, err := svc.Recommend(context.Background(), testParams())
	require.Error(t, err)
}

func TestRecommendCancelledContext(t *testing.T) {
	svc := newTestService(&fakeModels{snap: testSnapshot(&stubRegressor{})}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Recommend(ctx, testParams())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecommendModelFailureCounted(t *testing.T) {
	svc := newTestService(&fakeModels{snap: testSnapshot(&stubRegressor{err: errors.New("bad split")})}, nil)

	_, err := svc.Recommend(context.Background(), testParams())
	require.Error(t, err)
}
