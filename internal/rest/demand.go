package rest

import (
	"context"
	"errors"
	"net/http"

	"sofida/business/demand"
	"sofida/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	DemandHandler struct {
		validate       *validator.Validate
		demandService  DemandService
		defaultPlaceID int64
	}

	DemandService interface {
		Forecast(ctx context.Context, placeID, itemID int64, period string) (domain.DemandForecast, error)
	}

	DemandRequest struct {
		ItemID  *int64 `json:"item_id" validate:"required"`
		PlaceID *int64 `json:"place_id"`
		Period  string `json:"period" validate:"omitempty,oneof=daily weekly monthly"`
	}
)

func NewDemandHandler(svc DemandService, defaultPlaceID int64) *DemandHandler {
	return &DemandHandler{
		validate:       validator.New(),
		demandService:  svc,
		defaultPlaceID: defaultPlaceID,
	}
}

// Predict handles POST /demand/predict.
func (h *DemandHandler) Predict(c echo.Context) error {
	var req DemandRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	placeID := h.defaultPlaceID
	if req.PlaceID != nil {
		placeID = *req.PlaceID
	}
	period := req.Period
	if period == "" {
		period = demand.PeriodDaily
	}

	forecast, err := h.demandService.Forecast(c.Request().Context(), placeID, *req.ItemID, period)
	if err != nil {
		if errors.Is(err, demand.ErrNoHistory) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(forecast))
}
