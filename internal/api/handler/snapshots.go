package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/pkg/apiErrors"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/pkg/log"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/pkg/utils"
)

// BackfillAccepted é a resposta do disparo assíncrono de backfill
type BackfillAccepted struct {
	Message   string `json:"message"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`
}

// RunDailySnapshot executa o pipeline para T-1 e devolve a execução
func RunDailySnapshot(orchestrator SnapshotOrchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		task, err := orchestrator.RunDaily(r.Context())
		if err != nil {
			writeTaskError(w, err, task)
			return
		}

		writeJSON(w, http.StatusOK, task)
	}
}

// RunManualSnapshot executa o pipeline para a data informada em ?date=YYYY-MM-DD
func RunManualSnapshot(orchestrator SnapshotOrchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targetDate, err := utils.ParseRequiredDate(r.URL.Query().Get("date"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		task, err := orchestrator.RunManual(r.Context(), targetDate)
		if err != nil {
			writeTaskError(w, err, task)
			return
		}

		writeJSON(w, http.StatusOK, task)
	}
}

// RunBackfillSnapshots valida o intervalo e dispara o backfill em segundo plano
func RunBackfillSnapshots(orchestrator SnapshotOrchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		start, err := utils.ParseRequiredDate(query.Get("start_date"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}
		end, err := utils.ParseRequiredDate(query.Get("end_date"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		if err := orchestrator.CheckBackfillRange(start, end); err != nil {
			writeTaskError(w, err, nil)
			return
		}

		// O backfill sobrevive ao fim da requisição mas mantém o ID de correlação
		ctx := context.WithoutCancel(r.Context())
		go func() {
			tasks, err := orchestrator.RunBackfill(ctx, start, end)
			logger := log.ForContext(ctx).WithFields(log.Fields{
				"start_date": start.Format(time.DateOnly),
				"end_date":   end.Format(time.DateOnly),
				"tasks":      len(tasks),
			})
			if err != nil {
				logger.WithError(err).Error("Backfill disparado pela API falhou")
				return
			}
			logger.Info("Backfill disparado pela API concluído")
		}()

		logrus.WithFields(logrus.Fields{
			"start_date": start.Format(time.DateOnly),
			"end_date":   end.Format(time.DateOnly),
		}).Info("Backfill aceito")

		writeJSON(w, http.StatusAccepted, BackfillAccepted{
			Message:   "Backfill iniciado",
			StartDate: start.Format(time.DateOnly),
			EndDate:   end.Format(time.DateOnly),
			Days:      utils.DaysBetween(start, end),
		})
	}
}
