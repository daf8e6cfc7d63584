package aggregating

import (
	"context"
	"time"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/domain"
)

// SnapshotGenerator transforma as linhas diárias de origem em snapshots por janela
type SnapshotGenerator interface {
	// GenerateSnapshots lê os 60 dias terminando em targetDate e devolve 4 snapshots
	// por (produto, armazém). Sem linhas de origem retorna slice vazio e nenhum erro.
	GenerateSnapshots(ctx context.Context, targetDate time.Time) ([]*domain.Snapshot, error)
}
