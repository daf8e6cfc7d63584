package handler

import (
	"net/http"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/api/handler/router"
)

func Healthcheck(db Pinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(db),
		},
	}
}

func Snapshots(orchestrator SnapshotOrchestrator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/snapshots/daily",
			Method:  http.MethodPost,
			Handler: RunDailySnapshot(orchestrator),
		},
		{
			Path:    "/v1/snapshots/run",
			Method:  http.MethodPost,
			Handler: RunManualSnapshot(orchestrator),
		},
		{
			Path:    "/v1/snapshots/backfill",
			Method:  http.MethodPost,
			Handler: RunBackfillSnapshots(orchestrator),
		},
		{
			Path:    "/v1/snapshots/retry-failed",
			Method:  http.MethodPost,
			Handler: RetryFailedTasks(orchestrator),
		},
	}
}

func Tasks(orchestrator SnapshotOrchestrator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/tasks",
			Method:  http.MethodGet,
			Handler: ListTasks(orchestrator),
		},
		{
			Path:    "/v1/tasks/:id",
			Method:  http.MethodGet,
			Handler: GetTask(orchestrator),
		},
		{
			Path:    "/v1/tasks/:id/retry",
			Method:  http.MethodPost,
			Handler: RetryTask(orchestrator),
		},
	}
}

func Scheduler(orchestrator SnapshotOrchestrator, stats StatsProvider) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/scheduler/status",
			Method:  http.MethodGet,
			Handler: GetSchedulerStatus(orchestrator, stats),
		},
	}
}

// Metrics expõe o registry Prometheus do coletor
func Metrics(metricsHandler http.Handler) []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: metricsHandler,
		},
	}
}
