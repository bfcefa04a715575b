package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// PopularityRepository reads the offline-built order-count tables used as
// popularity priors. Rows absent from the tables yield the 0.0 default.
type PopularityRepository struct {
	DB *gorm.DB
}

func NewPopularityRepository(db *gorm.DB) *PopularityRepository {
	return &PopularityRepository{DB: db}
}

type itemOrderCountRow struct {
	PlaceID    int64   `gorm:"column:place_id"`
	ItemID     int64   `gorm:"column:item_id"`
	OrderCount float64 `gorm:"column:order_count"`
}

func (itemOrderCountRow) TableName() string {
	return "item_order_counts"
}

type placeOrderCountRow struct {
	PlaceID         int64   `gorm:"column:place_id"`
	TotalOrderCount float64 `gorm:"column:place_total_order_count"`
}

func (placeOrderCountRow) TableName() string {
	return "place_order_counts"
}

func (r *PopularityRepository) ItemOrderCount(ctx context.Context, placeID, itemID int64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var total float64
	err := r.DB.WithContext(ctx).
		Model(&itemOrderCountRow{}).
		Where("place_id = ? AND item_id = ?", placeID, itemID).
		Select("COALESCE(SUM(order_count), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to query item order count: %w", err)
	}

	return total, nil
}

func (r *PopularityRepository) PlaceOrderCount(ctx context.Context, placeID int64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var total float64
	err := r.DB.WithContext(ctx).
		Model(&placeOrderCountRow{}).
		Where("place_id = ?", placeID).
		Select("COALESCE(SUM(place_total_order_count), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to query place order count: %w", err)
	}

	return total, nil
}
