package domain

import "time"

// DemandForecast is the response of the expected-demand estimate endpoint.
type DemandForecast struct {
	ItemID          int64     `json:"item_id"`
	PlaceID         int64     `json:"place_id"`
	Period          string    `json:"period"`
	PredictedDemand float64   `json:"predicted_demand"`
	ModelType       string    `json:"model_type"`
	Timestamp       time.Time `json:"timestamp"`
}

// OrderHistoryDay is one day of aggregated sales for a (place, item) pair.
type OrderHistoryDay struct {
	PlaceID int64     `gorm:"column:place_id" json:"place_id"`
	ItemID  int64     `gorm:"column:item_id" json:"item_id"`
	Day     time.Time `gorm:"column:day" json:"day"`
	Units   float64   `gorm:"column:units" json:"units"`
}

func (OrderHistoryDay) TableName() string {
	return "order_history_daily"
}
