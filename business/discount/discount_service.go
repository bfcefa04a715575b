package discount

import (
	"context"
	"fmt"
	"time"

	"sofida/domain"
	"sofida/pkg/logger"

	"gorm.io/datatypes"
)

// ---- Repository interfaces ----

// ModelSource hands out the currently loaded, immutable model snapshot.
// Implementations serialize reload against reads so callers never observe a
// half-swapped model/vocabulary pair.
type ModelSource interface {
	Snapshot(ctx context.Context) (*ModelSnapshot, error)
}

// PopularityRepository looks up order-count priors. Both lookups default to
// 0.0 when the backing tables are absent.
type PopularityRepository interface {
	ItemOrderCount(ctx context.Context, placeID, itemID int64) (float64, error)
	PlaceOrderCount(ctx context.Context, placeID int64) (float64, error)
}

// EventRepository persists the audit row of a served recommendation.
type EventRepository interface {
	SaveEvent(ctx context.Context, event domain.DiscountEvent) error
}

// ---- Usecase / Service ----

type DiscountService struct {
	models    ModelSource
	popRepo   PopularityRepository
	eventRepo EventRepository
	cfg       Config
}

func NewDiscountService(
	models ModelSource,
	popRepo PopularityRepository,
	eventRepo EventRepository,
	cfg Config,
) *DiscountService {
	return &DiscountService{
		models:    models,
		popRepo:   popRepo,
		eventRepo: eventRepo,
		cfg:       cfg,
	}
}

// Recommend scores the candidate grid for an item-level campaign and returns
// the winning discount. Stateless per call; the only cross-call state is the
// read-only model snapshot.
func (s *DiscountService) Recommend(ctx context.Context, p Params) (domain.DiscountRecommendation, error) {
	result, _, err := s.recommend(ctx, p, false)
	return result, err
}

// RecommendWithDebug additionally returns one trace row per candidate, in the
// same ascending-percentage order as the grid.
func (s *DiscountService) RecommendWithDebug(ctx context.Context, p Params) (domain.DiscountRecommendation, []domain.DiscountDebugRow, error) {
	return s.recommend(ctx, p, true)
}

// RecommendBill scores a bill-level campaign with the same decision logic,
// forcing the item identity to the bill sentinel.
func (s *DiscountService) RecommendBill(ctx context.Context, p Params) (domain.DiscountRecommendation, error) {
	p.ItemID = -1
	p.NumItemsTargeted = 0
	p.CampaignSegment = CampaignSegmentBill
	result, _, err := s.recommend(ctx, p, false)
	return result, err
}

// RecommendBillWithDebug is RecommendBill plus the per-candidate trace.
func (s *DiscountService) RecommendBillWithDebug(ctx context.Context, p Params) (domain.DiscountRecommendation, []domain.DiscountDebugRow, error) {
	p.ItemID = -1
	p.NumItemsTargeted = 0
	p.CampaignSegment = CampaignSegmentBill
	return s.recommend(ctx, p, true)
}

func (s *DiscountService) recommend(ctx context.Context, p Params, withDebug bool) (domain.DiscountRecommendation, []domain.DiscountDebugRow, error) {
	var zero domain.DiscountRecommendation

	if err := ctx.Err(); err != nil {
		return zero, nil, fmt.Errorf("context error: %w", err)
	}
	if err := validateParams(p); err != nil {
		return zero, nil, err
	}

	snap, err := s.models.Snapshot(ctx)
	if err != nil {
		return zero, nil, fmt.Errorf("load model snapshot: %w", err)
	}

	itemPrior, placePrior := s.lookupPriors(ctx, p)

	tid := TraceIDFromContext(ctx)
	logger.Debug("discount_recommend",
		"trace_id", tid,
		"place_id", p.PlaceID,
		"item_id", p.ItemID,
		"amount_left", p.AmountLeft,
		"expected_demand", p.ExpectedDemandForRemaining,
		"grid_size", len(p.PctGrid),
		"aggressiveness", p.Aggressiveness,
	)

	if !gridContains(p.PctGrid, p.BaselinePct) {
		logger.Warn("baseline_pct absent from pct_grid, falling back to first grid element",
			"trace_id", tid,
			"baseline_pct", p.BaselinePct,
		)
	}

	result, dbg, err := recommendDiscount(snap, p, itemPrior, placePrior, s.cfg, withDebug)
	if err != nil {
		InferenceFailuresTotal.Inc()
		return zero, nil, err
	}

	RecommendationsTotal.WithLabelValues(result.CampaignSegment, result.Status).Inc()

	s.saveEvent(ctx, result, tid)

	return result, dbg, nil
}

// lookupPriors fetches popularity priors; failures degrade to the documented
// 0.0 default rather than failing the recommendation.
func (s *DiscountService) lookupPriors(ctx context.Context, p Params) (itemPrior, placePrior float64) {
	if s.popRepo == nil {
		return 0, 0
	}

	var err error
	itemPrior, err = s.popRepo.ItemOrderCount(ctx, p.PlaceID, p.ItemID)
	if err != nil {
		logger.Warn("item popularity lookup failed, defaulting to 0",
			"place_id", p.PlaceID, "item_id", p.ItemID, "error", err)
		itemPrior = 0
	}

	placePrior, err = s.popRepo.PlaceOrderCount(ctx, p.PlaceID)
	if err != nil {
		logger.Warn("place popularity lookup failed, defaulting to 0",
			"place_id", p.PlaceID, "error", err)
		placePrior = 0
	}

	return itemPrior, placePrior
}

// saveEvent writes the audit row best-effort; a failed write never fails the
// recommendation that was already computed.
func (s *DiscountService) saveEvent(ctx context.Context, result domain.DiscountRecommendation, traceID string) {
	if s.eventRepo == nil {
		return
	}

	event := domain.DiscountEvent{
		PlaceID:         result.PlaceID,
		ItemID:          result.ItemID,
		CampaignSegment: result.CampaignSegment,
		RecommendedPct:  result.RecommendedPct,
		Status:          result.Status,
		Aggressiveness:  result.Aggressiveness,
		CreatedAt:       time.Now(),
		Context: datatypes.JSONMap{
			"trace_id":        traceID,
			"window_hours":    result.WindowHours,
			"required_units":  result.RequiredUnits,
			"slack_units":     result.SlackUnits,
			"coverage_factor": result.CoverageFactor,
			"w_model":         result.WModel,
			"w_eq":            result.WEq,
		},
	}

	if err := s.eventRepo.SaveEvent(ctx, event); err != nil {
		logger.Error("failed to save discount event", "trace_id", traceID, "error", err)
	}
}

func gridContains(grid []float64, pct float64) bool {
	for _, p := range grid {
		if p == pct {
			return true
		}
	}
	return false
}
