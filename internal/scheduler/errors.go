package scheduler

import (
	"errors"
	"fmt"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/domain"
)

// Erros específicos do orquestrador de snapshots
var (
	// Erros de consulta
	ErrTaskNotFound     = errors.New("execução não encontrada")
	ErrTaskNotRetryable = errors.New("execução não pode ser reprocessada")
	ErrTaskInProgress   = errors.New("já existe uma execução em andamento para a data")

	// Erros de entrada
	ErrInvalidDateRange = errors.New("intervalo de datas inválido")

	// Erros do pipeline
	ErrQualityGate = errors.New("lote reprovado no controle de qualidade")
)

// QualityGateError carrega o motivo da reprovação do lote
type QualityGateError struct {
	Status    domain.ValidationStatus
	Score     float64
	Threshold float64
}

func (e *QualityGateError) Error() string {
	return fmt.Sprintf("%s: status %s, nota %.3f (mínimo %.2f)", ErrQualityGate, e.Status, e.Score, e.Threshold)
}

func (e *QualityGateError) Unwrap() error {
	return ErrQualityGate
}
