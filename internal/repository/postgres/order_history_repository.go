package postgres

import (
	"context"
	"fmt"
	"time"

	"sofida/domain"

	"gorm.io/gorm"
)

type OrderHistoryRepository struct {
	DB *gorm.DB
}

func NewOrderHistoryRepository(db *gorm.DB) *OrderHistoryRepository {
	return &OrderHistoryRepository{DB: db}
}

// DailyUnits returns up to days of daily sales for a (place, item) pair,
// newest first.
func (r *OrderHistoryRepository) DailyUnits(ctx context.Context, placeID, itemID int64, days int) ([]domain.OrderHistoryDay, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	since := time.Now().UTC().AddDate(0, 0, -days)

	var rows []domain.OrderHistoryDay
	err := r.DB.WithContext(ctx).
		Where("place_id = ? AND item_id = ? AND day >= ?", placeID, itemID, since).
		Order("day DESC").
		Limit(days).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query order history: %w", err)
	}

	return rows, nil
}
