package domain

import (
	"time"

	"gorm.io/datatypes"
)

// DiscountRecommendation is the wire-level result of one recommendation call.
// Field names match the persisted model's training pipeline, so downstream
// consumers can correlate served recommendations with offline evaluation runs.
type DiscountRecommendation struct {
	RecommendedPct               float64 `json:"recommended_pct"`
	PredUnitsPerHour             float64 `json:"pred_units_per_hour"`
	BaselineUnitsPerHour         float64 `json:"baseline_units_per_hour"`
	MultiplierVsBaseline         float64 `json:"multiplier_vs_baseline"`
	AdjustedExpectedForRemaining float64 `json:"adjusted_expected_for_remaining"`

	AmountLeft                 float64 `json:"amount_left"`
	ExpectedDemandForRemaining float64 `json:"expected_demand_for_remaining"`
	WindowHours                float64 `json:"window_hours"`

	CoverageFactor float64 `json:"coverage_factor"`
	WModel         float64 `json:"w_model"`
	WEq            float64 `json:"w_eq"`

	PlaceID          int64  `json:"place_id"`
	ItemID           int64  `json:"item_id"`
	CampaignSegment  string `json:"campaign_segment"`
	NumItemsTargeted int    `json:"num_items_targeted"`

	Status             string  `json:"status"`
	Aggressiveness     float64 `json:"aggressiveness"`
	RequiredUnits      float64 `json:"required_units"`
	SlackUnits         float64 `json:"slack_units"`
	ReliefMaxFrac      float64 `json:"relief_max_frac"`
	ReliefUnitsPerHour float64 `json:"relief_units_per_hour"`
}

const (
	StatusCanClear    = "can_clear_inventory"
	StatusCannotClear = "cannot_clear_choose_best_sellthrough"
)

// DiscountDebugRow is one per-candidate trace row, in ascending pct order.
type DiscountDebugRow struct {
	Pct                          float64        `json:"pct"`
	Features                     map[string]any `json:"features"`
	PredUnitsModel               float64        `json:"pred_units_model"`
	PredUnitsEq                  float64        `json:"pred_units_eq"`
	PredUnitsPerHour             float64        `json:"pred_units_per_hour"`
	MultiplierVsBaseline         float64        `json:"multiplier_vs_baseline"`
	AdjustedExpectedForRemaining float64        `json:"adjusted_expected_for_remaining"`
	RequiredUnits                float64        `json:"required_units"`
	SlackUnits                   float64        `json:"slack_units"`
	Chosen                       bool           `json:"chosen"`
}

// DiscountEvent is the audit row persisted for every served recommendation.
type DiscountEvent struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PlaceID         int64     `gorm:"column:place_id;not null" json:"place_id"`
	ItemID          int64     `gorm:"column:item_id;not null" json:"item_id"`
	CampaignSegment string    `gorm:"column:campaign_segment;not null" json:"campaign_segment"`
	RecommendedPct  float64   `gorm:"column:recommended_pct" json:"recommended_pct"`
	Status          string    `gorm:"column:status" json:"status"`
	Aggressiveness  float64   `gorm:"column:aggressiveness" json:"aggressiveness"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Context datatypes.JSONMap `gorm:"column:context;type:jsonb" json:"context"`
}

func (DiscountEvent) TableName() string {
	return "discount_events"
}
