package rest

import (
	"context"
	"net/http"

	"sofida/business/discount"
	"sofida/internal/repository/artifact"
	"sofida/pkg/metrics"

	"github.com/labstack/echo/v4"
)

type ModelAdmin interface {
	Snapshot(ctx context.Context) (*discount.ModelSnapshot, error)
	Reload() error
	Status() artifact.Status
}

type ModelAdminHandler struct {
	store ModelAdmin
}

func NewModelAdminHandler(store ModelAdmin) *ModelAdminHandler {
	return &ModelAdminHandler{store: store}
}

// GET /api/v1/admin/model
func (h *ModelAdminHandler) GetStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Status())
}

// POST /api/v1/admin/model/reload
func (h *ModelAdminHandler) Reload(c echo.Context) error {
	metrics.ArtifactReloadsTotal.Inc()

	if err := h.store.Reload(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"error":  err.Error(),
			"status": h.store.Status(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": h.store.Status(),
	})
}
