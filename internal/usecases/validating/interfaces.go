package validating

import (
	"context"
	"time"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/domain"
)

// QualityValidator confere um lote de snapshots antes da persistência
type QualityValidator interface {
	// Validate não altera o lote recebido
	Validate(ctx context.Context, snapshots []*domain.Snapshot, targetDate time.Time) (*domain.ConsistencyReport, error)
	// ValidateAndFix devolve o relatório e um novo lote com as correções automáticas aplicadas.
	// Retorna erro apenas em falhas de infraestrutura, nunca por problemas nos dados.
	ValidateAndFix(ctx context.Context, snapshots []*domain.Snapshot, targetDate time.Time) (*domain.ConsistencyReport, []*domain.Snapshot, error)
}
