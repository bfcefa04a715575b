package router

import (
	"sofida/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetDiscountRoutes(api *echo.Group, handler *rest.DiscountHandler) {
	discounts := api.Group("/discount")
	discounts.POST("", handler.Recommend)
	discounts.POST("/bill", handler.RecommendBill)
}

func SetDemandRoutes(api *echo.Group, handler *rest.DemandHandler) {
	demand := api.Group("/demand")
	demand.POST("/predict", handler.Predict)
}

func SetHealthRoutes(api *echo.Group, handler *rest.HealthHandler) {
	api.GET("/health", handler.Health)
}

func SetModelAdminRoutes(api *echo.Group, handler *rest.ModelAdminHandler, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin/model", adminOnly)

	admin.GET("", handler.GetStatus)
	admin.POST("/reload", handler.Reload)
}

func SetMetricsRoute(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
