package handler

import (
	"net/http"

	"github.com/vfg2006/sales-forecast-api/internal/api/handler/router"
	"github.com/vfg2006/sales-forecast-api/internal/config"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/forecasting"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/pipeline"
	"github.com/vfg2006/sales-forecast-api/pkg/middleware"
)

func Healthcheck(reader SnapshotReader) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(reader),
		},
	}
}

func Metrics(handler http.Handler) []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: handler,
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
	}
}

func Sales(reader SnapshotReader) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/sales/monthly",
			Method:  http.MethodGet,
			Handler: GetMonthlySales(reader),
		},
		{
			Path:    "/v1/sales/seasonality",
			Method:  http.MethodGet,
			Handler: GetSeasonality(reader),
		},
		{
			Path:    "/v1/items/top",
			Method:  http.MethodGet,
			Handler: GetTopItems(reader),
		},
	}
}

func Forecast(reader SnapshotReader, registry *forecasting.Registry) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/strategies",
			Method:  http.MethodGet,
			Handler: ListStrategies(registry),
		},
		{
			Path:    "/v1/forecast",
			Method:  http.MethodGet,
			Handler: GetForecast(reader),
		},
		{
			Path:    "/v1/forecast/comparison",
			Method:  http.MethodGet,
			Handler: GetComparison(reader),
		},
	}
}

func Pipeline(
	service pipeline.Pipeliner,
	syncService PipelineScheduler,
	authenticator authenticating.Authenticator,
	cfg config.RateLimit,
) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/pipeline/run",
			Method:  http.MethodPost,
			Handler: RunPipeline(service, syncService),
			Middlewares: []func(http.Handler) http.Handler{
				middleware.AuthMiddleware(authenticator),
				middleware.AdminOnly(),
				middleware.RateLimit(cfg.PerMinute, cfg.Burst),
			},
		},
		{
			Path:    "/v1/pipeline/status",
			Method:  http.MethodGet,
			Handler: GetPipelineStatus(service, syncService),
		},
	}
}
