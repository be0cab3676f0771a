package handler

import (
	"net/http"

	"github.com/vfg2006/appsflyer-master-sync/infrastructure/repository"
	"github.com/vfg2006/appsflyer-master-sync/internal/api/handler/router"
	"github.com/vfg2006/appsflyer-master-sync/internal/config"
	"github.com/vfg2006/appsflyer-master-sync/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Schema(cfg *config.Config) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/schema",
			Method:      http.MethodGet,
			Handler:     GetSchema(cfg),
			Middlewares: []func(http.Handler) http.Handler{middleware.OperatorOnly()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.OperatorOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.OperatorOnly()},
		},
	}
}

func SyncRuns(repo repository.SyncRunRepository) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/sync-runs",
			Method:      http.MethodGet,
			Handler:     ListSyncRuns(repo),
			Middlewares: []func(http.Handler) http.Handler{middleware.OperatorOnly()},
		},
	}
}
