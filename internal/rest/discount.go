package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"sofida/business/discount"
	"sofida/domain"
	"sofida/internal/repository/artifact"
	"sofida/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

type (
	DiscountHandler struct {
		validate        *validator.Validate
		discountService DiscountService
		modelAdmin      ModelAdmin
		defaultPlaceID  int64
	}

	DiscountService interface {
		Recommend(ctx context.Context, p discount.Params) (domain.DiscountRecommendation, error)
		RecommendWithDebug(ctx context.Context, p discount.Params) (domain.DiscountRecommendation, []domain.DiscountDebugRow, error)
		RecommendBill(ctx context.Context, p discount.Params) (domain.DiscountRecommendation, error)
		RecommendBillWithDebug(ctx context.Context, p discount.Params) (domain.DiscountRecommendation, []domain.DiscountDebugRow, error)
	}

	DiscountRequest struct {
		AmountLeft                 *float64 `json:"amount_left" validate:"required"`
		ExpectedDemandForRemaining *float64 `json:"expected_demand_for_remaining" validate:"required"`
		ItemID                     *int64   `json:"item_id" validate:"required"`

		PlaceID          *int64    `json:"place_id"`
		NumItemsTargeted *int      `json:"num_items_targeted"`
		NowTSUnix        *int64    `json:"now_ts_unix"`
		WindowEndTSUnix  *int64    `json:"window_end_ts_unix"`
		WindowHours      *float64  `json:"window_hours"`
		PctGrid          []float64 `json:"pct_grid"`
		BaselinePct      *float64  `json:"baseline_pct"`
		Aggressiveness   *float64  `json:"aggressiveness"`
		ReturnDebug      bool      `json:"return_debug"`
		DebugLimit       *int      `json:"debug_limit"`
		Reload           bool      `json:"reload"`
	}

	BillDiscountRequest struct {
		AmountLeft                 *float64 `json:"amount_left" validate:"required"`
		ExpectedDemandForRemaining *float64 `json:"expected_demand_for_remaining" validate:"required"`

		PlaceID         *int64    `json:"place_id"`
		NowTSUnix       *int64    `json:"now_ts_unix"`
		WindowEndTSUnix *int64    `json:"window_end_ts_unix"`
		WindowHours     *float64  `json:"window_hours"`
		PctGrid         []float64 `json:"pct_grid"`
		BaselinePct     *float64  `json:"baseline_pct"`
		Aggressiveness  *float64  `json:"aggressiveness"`
		ReturnDebug     bool      `json:"return_debug"`
		DebugLimit      *int      `json:"debug_limit"`
		Reload          bool      `json:"reload"`
	}

	DiscountResponse struct {
		Result domain.DiscountRecommendation `json:"result"`
		Debug  []domain.DiscountDebugRow     `json:"debug,omitempty"`

		// BaselineWarning is set on debug responses when baseline_pct was not
		// found in pct_grid and the first grid element served as baseline.
		BaselineWarning string `json:"baseline_warning,omitempty"`
	}
)

const (
	defaultNumItemsTargeted = 1
	defaultWindowHours      = 3.0
	defaultAggressiveness   = 5.0
	defaultDebugLimit       = 200
)

func NewDiscountHandler(svc DiscountService, modelAdmin ModelAdmin, defaultPlaceID int64) *DiscountHandler {
	return &DiscountHandler{
		validate:        validator.New(),
		discountService: svc,
		modelAdmin:      modelAdmin,
		defaultPlaceID:  defaultPlaceID,
	}
}

// Recommend handles POST /discount.
func (h *DiscountHandler) Recommend(c echo.Context) error {
	start := time.Now()
	metrics.DiscountRequestsTotal.Inc()
	defer func() {
		metrics.DiscountRequestLatency.Observe(time.Since(start).Seconds())
	}()

	var req DiscountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if req.Reload {
		if err := h.reload(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, ResponseError{Message: err.Error()})
		}
	}

	params := discountParams(
		*req.AmountLeft, *req.ExpectedDemandForRemaining,
		req.PlaceID, h.defaultPlaceID, *req.ItemID, req.NumItemsTargeted,
		req.NowTSUnix, req.WindowEndTSUnix, req.WindowHours,
		req.PctGrid, req.BaselinePct, req.Aggressiveness,
	)

	ctx := c.Request().Context()

	if req.ReturnDebug {
		result, dbg, err := h.discountService.RecommendWithDebug(ctx, params)
		if err != nil {
			return discountError(c, err)
		}
		return c.JSON(http.StatusOK, fres.Response.StatusOK(DiscountResponse{
			Result:          result,
			Debug:           truncateDebug(dbg, req.DebugLimit),
			BaselineWarning: baselineWarning(params.PctGrid, params.BaselinePct),
		}))
	}

	result, err := h.discountService.Recommend(ctx, params)
	if err != nil {
		return discountError(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(DiscountResponse{Result: result}))
}

// RecommendBill handles POST /discount/bill.
func (h *DiscountHandler) RecommendBill(c echo.Context) error {
	start := time.Now()
	metrics.DiscountRequestsTotal.Inc()
	defer func() {
		metrics.DiscountRequestLatency.Observe(time.Since(start).Seconds())
	}()

	var req BillDiscountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if req.Reload {
		if err := h.reload(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, ResponseError{Message: err.Error()})
		}
	}

	params := discountParams(
		*req.AmountLeft, *req.ExpectedDemandForRemaining,
		req.PlaceID, h.defaultPlaceID, 0, nil,
		req.NowTSUnix, req.WindowEndTSUnix, req.WindowHours,
		req.PctGrid, req.BaselinePct, req.Aggressiveness,
	)

	ctx := c.Request().Context()

	if req.ReturnDebug {
		result, dbg, err := h.discountService.RecommendBillWithDebug(ctx, params)
		if err != nil {
			return discountError(c, err)
		}
		return c.JSON(http.StatusOK, fres.Response.StatusOK(DiscountResponse{
			Result:          result,
			Debug:           truncateDebug(dbg, req.DebugLimit),
			BaselineWarning: baselineWarning(params.PctGrid, params.BaselinePct),
		}))
	}

	result, err := h.discountService.RecommendBill(ctx, params)
	if err != nil {
		return discountError(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(DiscountResponse{Result: result}))
}

func (h *DiscountHandler) reload() error {
	metrics.ArtifactReloadsTotal.Inc()
	return h.modelAdmin.Reload()
}

// discountParams fills the documented request defaults.
func discountParams(
	amountLeft, expectedDemand float64,
	placeID *int64, defaultPlaceID, itemID int64, numItemsTargeted *int,
	nowTS, windowEndTS *int64, windowHoursOpt *float64,
	pctGrid []float64, baselinePct, aggressiveness *float64,
) discount.Params {
	p := discount.Params{
		AmountLeft:                 amountLeft,
		ExpectedDemandForRemaining: expectedDemand,
		ItemID:                     itemID,
		PlaceID:                    defaultPlaceID,
		NumItemsTargeted:           defaultNumItemsTargeted,
		Aggressiveness:             defaultAggressiveness,
	}

	if placeID != nil {
		p.PlaceID = *placeID
	}
	if numItemsTargeted != nil {
		p.NumItemsTargeted = *numItemsTargeted
	}

	if nowTS != nil {
		p.NowTSUnix = *nowTS
	} else {
		p.NowTSUnix = time.Now().Unix()
	}

	if windowEndTS != nil {
		p.WindowEndTSUnix = *windowEndTS
	} else {
		winHours := defaultWindowHours
		if windowHoursOpt != nil {
			winHours = *windowHoursOpt
		}
		p.WindowEndTSUnix = p.NowTSUnix + int64(winHours*3600.0)
	}

	if len(pctGrid) > 0 {
		p.PctGrid = pctGrid
	} else {
		p.PctGrid = discount.DefaultPctGrid()
	}

	if baselinePct != nil {
		p.BaselinePct = *baselinePct
	}
	if aggressiveness != nil {
		p.Aggressiveness = *aggressiveness
	}

	return p
}

func baselineWarning(grid []float64, baseline float64) string {
	for _, p := range grid {
		if p == baseline {
			return ""
		}
	}
	return fmt.Sprintf("baseline_pct %v not in pct_grid, first grid element used as baseline", baseline)
}

func truncateDebug(rows []domain.DiscountDebugRow, limit *int) []domain.DiscountDebugRow {
	n := defaultDebugLimit
	if limit != nil {
		n = *limit
	}
	if n < 0 {
		n = 0
	}
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

// discountError maps engine failures onto the documented status codes:
// precondition violations are client errors, unloaded artifacts mean the
// service is degraded, anything else is an inference failure.
func discountError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, discount.ErrEmptyGrid):
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	case errors.Is(err, artifact.ErrNotLoaded):
		return c.JSON(http.StatusServiceUnavailable, ResponseError{Message: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
}
