package postgres

import (
	"context"
	"fmt"

	"sofida/domain"

	"gorm.io/gorm"
)

type DiscountEventRepository struct {
	DB *gorm.DB
}

func NewDiscountEventRepository(db *gorm.DB) *DiscountEventRepository {
	return &DiscountEventRepository{DB: db}
}

func (r *DiscountEventRepository) SaveEvent(ctx context.Context, event domain.DiscountEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to save discount event: %w", err)
	}

	return nil
}
