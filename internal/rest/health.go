package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type HealthHandler struct {
	store ModelAdmin
}

func NewHealthHandler(store ModelAdmin) *HealthHandler {
	return &HealthHandler{store: store}
}

type HealthResponse struct {
	Status         string `json:"status"`
	ModelLoaded    bool   `json:"model_loaded"`
	ArtifactPrefix string `json:"artifact_prefix"`
	LoadedAtUnix   int64  `json:"loaded_at_unix,omitempty"`
	Error          string `json:"error,omitempty"`
}

// Health handles GET /health. It attempts a lazy load so a freshly started
// instance reports ready as soon as artifacts are present on disk.
func (h *HealthHandler) Health(c echo.Context) error {
	_, _ = h.store.Snapshot(c.Request().Context())

	st := h.store.Status()
	resp := HealthResponse{
		Status:         "ok",
		ModelLoaded:    st.Loaded,
		ArtifactPrefix: st.Prefix,
		LoadedAtUnix:   st.LoadedAtUnix,
		Error:          st.Error,
	}

	if !st.Loaded {
		resp.Status = "degraded"
		return c.JSON(http.StatusServiceUnavailable, resp)
	}

	return c.JSON(http.StatusOK, resp)
}
