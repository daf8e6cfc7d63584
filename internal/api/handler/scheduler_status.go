package handler

import (
	"net/http"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/scheduler"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/pkg/metrics"
)

// StatsProvider expõe o resumo em memória das operações medidas
type StatsProvider interface {
	All() []metrics.Stats
}

type schedulerStatusResponse struct {
	Scheduler  scheduler.SchedulerStatus `json:"scheduler"`
	Operations []metrics.Stats           `json:"operations"`
}

// GetSchedulerStatus retorna o estado do agendador e as estatísticas das etapas do pipeline
func GetSchedulerStatus(orchestrator SnapshotOrchestrator, stats StatsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := schedulerStatusResponse{
			Scheduler:  orchestrator.GetStatus(),
			Operations: []metrics.Stats{},
		}
		if stats != nil {
			response.Operations = stats.All()
		}

		writeJSON(w, http.StatusOK, response)
	}
}
