package router

import (
	"easy11ML/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupServiceRoutes(e *echo.Echo, handler *rest.ServiceHandler) {
	e.GET("/", handler.Root)
	e.GET("/health", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

func SetupRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler) {
	reco := api.Group("/recommendations")
	reco.GET("", handler.Recommend)
	reco.GET("/", handler.Recommend)
	reco.POST("/batch", handler.Batch)
	reco.GET("/metrics", handler.Metrics)
}

func SetupPricingRoutes(api *echo.Group, handler *rest.PricingHandler) {
	pricing := api.Group("/pricing")
	pricing.POST("/recommendation", handler.Recommend)
	pricing.POST("/bulk", handler.Bulk)
	pricing.POST("/simulate-discount", handler.SimulateDiscount)
	pricing.GET("/metrics", handler.Metrics)
}

func SetupForecastRoutes(api *echo.Group, handler *rest.ForecastHandler) {
	forecast := api.Group("/forecast")
	forecast.POST("/demand", handler.Demand)
	forecast.POST("/product/:product_id", handler.Product)
	forecast.GET("/trends", handler.Trends)
	forecast.GET("/metrics", handler.Metrics)
}

func SetupChurnRoutes(api *echo.Group, handler *rest.ChurnHandler) {
	churn := api.Group("/churn")
	churn.POST("/predict", handler.Predict)
	churn.POST("/batch", handler.Batch)
	churn.GET("/at-risk", handler.AtRisk)
	churn.GET("/metrics", handler.Metrics)
}

func SetupGenerativeRoutes(api *echo.Group, handler *rest.GenerativeHandler) {
	generative := api.Group("/generative")
	generative.POST("/marketing/content", handler.MarketingContent)
}

func SetupGovernanceRoutes(api *echo.Group, handler *rest.GovernanceHandler) {
	governance := api.Group("/governance")
	governance.GET("/model-cards", handler.ModelCards)
	governance.GET("/model-cards/:model_id", handler.ModelCard)
	governance.GET("/drift", handler.Drift)
	governance.GET("/audit-log", handler.AuditLog)
	governance.POST("/audit-log", handler.RecordAudit)
}

func SetupPipelineRoutes(api *echo.Group, handler *rest.ServiceHandler) {
	pipelines := api.Group("/pipelines")
	pipelines.GET("/runs", handler.PipelineRuns)
}
