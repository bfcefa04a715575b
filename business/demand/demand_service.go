package demand

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sofida/domain"
	"sofida/pkg/logger"
)

// ErrNoHistory means the pair has no recorded sales to estimate from.
var ErrNoHistory = errors.New("no order history for item")

const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"

	historyWindowDays = 28
	recentWindowDays  = 7

	// Blend of the recent trailing average against the full window; recent
	// sales dominate so demand shifts show up within a week.
	recentWeight = 0.6
)

type OrderHistoryRepository interface {
	DailyUnits(ctx context.Context, placeID, itemID int64, days int) ([]domain.OrderHistoryDay, error)
}

// DemandService produces the statistical expected-demand estimate used to
// seed discount decisions when no trained demand model is deployed.
type DemandService struct {
	historyRepo OrderHistoryRepository
}

func NewDemandService(historyRepo OrderHistoryRepository) *DemandService {
	return &DemandService{historyRepo: historyRepo}
}

// Forecast estimates demand for the requested period from a trailing moving
// average of daily sales, blending the last week against the last four weeks.
func (s *DemandService) Forecast(ctx context.Context, placeID, itemID int64, period string) (domain.DemandForecast, error) {
	var zero domain.DemandForecast

	if err := ctx.Err(); err != nil {
		return zero, fmt.Errorf("context error: %w", err)
	}

	periodDays, err := periodLengthDays(period)
	if err != nil {
		return zero, err
	}

	rows, err := s.historyRepo.DailyUnits(ctx, placeID, itemID, historyWindowDays)
	if err != nil {
		return zero, fmt.Errorf("load order history: %w", err)
	}
	if len(rows) == 0 {
		return zero, ErrNoHistory
	}

	dailyRate := blendedDailyRate(rows)

	logger.Debug("demand_forecast",
		"place_id", placeID,
		"item_id", itemID,
		"period", period,
		"history_days", len(rows),
		"daily_rate", dailyRate,
	)

	return domain.DemandForecast{
		ItemID:          itemID,
		PlaceID:         placeID,
		Period:          period,
		PredictedDemand: dailyRate * float64(periodDays),
		ModelType:       "statistical",
		Timestamp:       time.Now().UTC(),
	}, nil
}

// blendedDailyRate averages daily units over the full history window and over
// the most recent week, then blends the two. Rows arrive newest first.
func blendedDailyRate(rows []domain.OrderHistoryDay) float64 {
	var fullSum, recentSum float64
	recentCount := 0

	for i, row := range rows {
		fullSum += row.Units
		if i < recentWindowDays {
			recentSum += row.Units
			recentCount++
		}
	}

	fullAvg := fullSum / float64(len(rows))
	if recentCount == 0 {
		return fullAvg
	}
	recentAvg := recentSum / float64(recentCount)

	return recentWeight*recentAvg + (1-recentWeight)*fullAvg
}

func periodLengthDays(period string) (int, error) {
	switch period {
	case PeriodDaily:
		return 1, nil
	case PeriodWeekly:
		return 7, nil
	case PeriodMonthly:
		return 30, nil
	default:
		return 0, fmt.Errorf("unknown period: %s", period)
	}
}
