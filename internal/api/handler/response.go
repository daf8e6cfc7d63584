package handler

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/domain"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/scheduler"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/usecases/aggregating"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/pkg/apiErrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("Erro ao enviar resposta")
	}
}

// writeTaskError traduz os erros do orquestrador para os códigos da API.
// Quando a execução chegou a ser criada, ela vai nos detalhes.
func writeTaskError(w http.ResponseWriter, err error, task *domain.TaskExecution) {
	var details any
	if task != nil {
		details = task
	}

	switch {
	case errors.Is(err, scheduler.ErrTaskNotFound):
		apiErrors.WriteError(w, apiErrors.ErrTaskNotFound, "Execução não encontrada", nil)
	case errors.Is(err, scheduler.ErrTaskNotRetryable):
		apiErrors.WriteError(w, apiErrors.ErrTaskNotRetryable, err.Error(), details)
	case errors.Is(err, scheduler.ErrTaskInProgress):
		apiErrors.WriteError(w, apiErrors.ErrTaskInProgress, err.Error(), details)
	case errors.Is(err, scheduler.ErrInvalidDateRange):
		apiErrors.WriteError(w, apiErrors.ErrInvalidDateRange, err.Error(), nil)
	case errors.Is(err, scheduler.ErrQualityGate):
		apiErrors.WriteError(w, apiErrors.ErrQualityGate, err.Error(), details)
	case errors.Is(err, aggregating.ErrSourceUnavailable):
		apiErrors.WriteError(w, apiErrors.ErrExternalService, "Origem de dados indisponível", details)
	default:
		logrus.WithError(err).Error("Erro não mapeado do orquestrador")
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao executar o pipeline", details)
	}
}
