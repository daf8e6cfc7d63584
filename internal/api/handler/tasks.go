package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/domain"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/pkg/apiErrors"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/pkg/utils"
)

const maxTaskListLimit = 500

var (
	validTaskStatuses = map[domain.TaskStatus]bool{
		domain.TaskStatusPending:   true,
		domain.TaskStatusRunning:   true,
		domain.TaskStatusCompleted: true,
		domain.TaskStatusFailed:    true,
		domain.TaskStatusRetrying:  true,
	}
	validTaskKinds = map[domain.TaskKind]bool{
		domain.TaskKindDaily:    true,
		domain.TaskKindManual:   true,
		domain.TaskKindBackfill: true,
		domain.TaskKindRetry:    true,
	}
)

// TaskList é a resposta da listagem de execuções
type TaskList struct {
	Tasks []*domain.TaskExecution `json:"tasks"`
	Total int                     `json:"total"`
}

// ListTasks lista execuções com filtros opcionais ?status=&kind=&date=&limit=
func ListTasks(orchestrator SnapshotOrchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseTaskFilter(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
			return
		}

		tasks, err := orchestrator.ListTasks(r.Context(), filter)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar execuções", nil)
			return
		}

		writeJSON(w, http.StatusOK, TaskList{Tasks: tasks, Total: len(tasks)})
	}
}

// GetTask devolve uma execução pelo id
func GetTask(orchestrator SnapshotOrchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da execução não informado", nil)
			return
		}

		task, err := orchestrator.GetTaskStatus(r.Context(), id)
		if err != nil {
			writeTaskError(w, err, nil)
			return
		}

		writeJSON(w, http.StatusOK, task)
	}
}

// RetryTask reprocessa manualmente uma execução com falha
func RetryTask(orchestrator SnapshotOrchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da execução não informado", nil)
			return
		}

		task, err := orchestrator.RetryTask(r.Context(), id)
		if err != nil {
			writeTaskError(w, err, task)
			return
		}

		writeJSON(w, http.StatusOK, task)
	}
}

// RetryFailedTasks dispara a rodada de retry fora do cron
func RetryFailedTasks(orchestrator SnapshotOrchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tasks, err := orchestrator.RetryFailedTasks(r.Context())
		if err != nil {
			writeTaskError(w, err, nil)
			return
		}

		writeJSON(w, http.StatusOK, TaskList{Tasks: tasks, Total: len(tasks)})
	}
}

func parseTaskFilter(r *http.Request) (domain.TaskFilter, error) {
	query := r.URL.Query()
	var filter domain.TaskFilter

	if v := query.Get("status"); v != "" {
		status := domain.TaskStatus(v)
		if !validTaskStatuses[status] {
			return filter, fmt.Errorf("status inválido: %s", v)
		}
		filter.Status = &status
	}

	if v := query.Get("kind"); v != "" {
		kind := domain.TaskKind(v)
		if !validTaskKinds[kind] {
			return filter, fmt.Errorf("tipo inválido: %s", v)
		}
		filter.Kind = &kind
	}

	if v := query.Get("date"); v != "" {
		date, err := utils.ParseRequiredDate(v)
		if err != nil {
			return filter, err
		}
		filter.TargetDate = &date
	}

	if v := query.Get("limit"); v != "" {
		limit, err := strconv.ParseUint(v, 10, 64)
		if err != nil || limit == 0 || limit > maxTaskListLimit {
			return filter, fmt.Errorf("limit deve estar entre 1 e %d", maxTaskListLimit)
		}
		filter.Limit = limit
	}

	return filter, nil
}
