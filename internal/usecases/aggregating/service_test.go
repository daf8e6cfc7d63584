package aggregating

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/infrastructure/repository/mocks"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/domain"
)

var targetDate = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return targetDate.AddDate(0, 0, -offset)
}

func row(productID, warehouse string, offset int, fn func(r *domain.SourceRecord)) *domain.SourceRecord {
	r := &domain.SourceRecord{
		ProductID:   productID,
		Warehouse:   warehouse,
		Date:        day(offset),
		ProductName: "Produto " + productID,
		OwnerName:   "Responsável",
		SyncedAt:    day(offset).Add(6 * time.Hour),
	}
	if fn != nil {
		fn(r)
	}
	return r
}

func newService(t *testing.T, records []*domain.SourceRecord) *Service {
	ctrl := gomock.NewController(t)
	sourceRepo := mocks.NewMockSourceRecordRepository(ctrl)

	start, end := domain.LookbackBounds(targetDate)
	sourceRepo.EXPECT().
		ListByDateRange(gomock.Any(), start, end).
		Return(records, nil).
		AnyTimes()

	return NewService(sourceRepo, domain.DefaultTurnoverPolicy(), 2)
}

func byWindow(snapshots []*domain.Snapshot, key domain.GroupKey) map[string]*domain.Snapshot {
	out := make(map[string]*domain.Snapshot)
	for _, s := range snapshots {
		if s.GroupKey() == key {
			out[s.WindowCode] = s
		}
	}
	return out
}

func TestGenerateSnapshots_TrintaDiasDeVendaConstante(t *testing.T) {
	var records []*domain.SourceRecord
	for i := 0; i < 30; i++ {
		records = append(records, row("P1", "US", i, func(r *domain.SourceRecord) {
			r.SalesAmount = 10
			r.SalesQty = 1
		}))
	}

	snapshots, err := newService(t, records).GenerateSnapshots(context.Background(), targetDate)
	require.NoError(t, err)
	require.Len(t, snapshots, 4)

	windows := byWindow(snapshots, domain.GroupKey{ProductID: "P1", Warehouse: "US"})
	assert.InDelta(t, 70, windows["7d"].SalesAmount, 1e-9)
	assert.InDelta(t, 10, windows["7d"].AvgDailySalesAmount, 1e-9)
	assert.InDelta(t, 300, windows["30d"].SalesAmount, 1e-9)
	assert.InDelta(t, 1, windows["30d"].CompletenessScore, 1e-9)
	assert.Equal(t, 30, windows["30d"].RecordsFound)
}

func TestGenerateSnapshots_SemVendasComEstoqueUsaSentinela(t *testing.T) {
	records := []*domain.SourceRecord{
		row("P1", "US", 0, func(r *domain.SourceRecord) { r.OnHandQty = 50 }),
	}

	snapshots, err := newService(t, records).GenerateSnapshots(context.Background(), targetDate)
	require.NoError(t, err)

	for _, s := range snapshots {
		assert.Equal(t, 999.0, s.TurnoverDays, s.WindowCode)
		assert.Equal(t, domain.InventoryStatusOverstock, s.InventoryStatus, s.WindowCode)
	}
}

func TestGenerateSnapshots_SemVendasESemEstoque(t *testing.T) {
	records := []*domain.SourceRecord{row("P1", "US", 0, nil)}

	snapshots, err := newService(t, records).GenerateSnapshots(context.Background(), targetDate)
	require.NoError(t, err)

	for _, s := range snapshots {
		assert.Zero(t, s.TurnoverDays)
		assert.Equal(t, domain.InventoryStatusShortage, s.InventoryStatus)
	}
}

func TestGenerateSnapshots_CompletudeComDiasFaltando(t *testing.T) {
	records := []*domain.SourceRecord{
		row("P1", "US", 0, nil),
		row("P1", "US", 3, nil),
		row("P1", "US", 6, nil),
	}

	snapshots, err := newService(t, records).GenerateSnapshots(context.Background(), targetDate)
	require.NoError(t, err)

	windows := byWindow(snapshots, domain.GroupKey{ProductID: "P1", Warehouse: "US"})
	assert.InDelta(t, 3.0/7.0, windows["7d"].CompletenessScore, 1e-9)
	assert.InDelta(t, 0.429, windows["7d"].CompletenessScore, 1e-3)
	assert.Equal(t, 3, windows["7d"].RecordsFound)
	assert.InDelta(t, 1.0/3.0, windows["3d"].CompletenessScore, 1e-9)
}

func TestGenerateSnapshots_EstoqueDaDataAlvoIgualEmTodasAsJanelas(t *testing.T) {
	records := []*domain.SourceRecord{
		row("P1", "US", 5, func(r *domain.SourceRecord) { r.OnHandQty = 500 }),
		row("P1", "US", 0, func(r *domain.SourceRecord) {
			r.OnHandQty = 10
			r.InTransitQty = 4
		}),
		// Observação posterior do mesmo dia prevalece
		row("P1", "US", 0, func(r *domain.SourceRecord) {
			r.OnHandQty = 20
			r.InTransitQty = 5
			r.SyncedAt = r.SyncedAt.Add(time.Hour)
			r.ProductName = "Nome atualizado"
		}),
	}

	snapshots, err := newService(t, records).GenerateSnapshots(context.Background(), targetDate)
	require.NoError(t, err)
	require.Len(t, snapshots, 4)

	for _, s := range snapshots {
		assert.Equal(t, 20, s.OnHandQty, s.WindowCode)
		assert.Equal(t, 5, s.InTransitQty, s.WindowCode)
		assert.Equal(t, 25, s.TotalInventory, s.WindowCode)
		assert.Equal(t, "Nome atualizado", s.ProductName, s.WindowCode)
	}
}

func TestGenerateSnapshots_SemLinhaNaDataAlvoZeraEstoque(t *testing.T) {
	records := []*domain.SourceRecord{
		row("P1", "US", 1, func(r *domain.SourceRecord) { r.OnHandQty = 40 }),
	}

	snapshots, err := newService(t, records).GenerateSnapshots(context.Background(), targetDate)
	require.NoError(t, err)

	for _, s := range snapshots {
		assert.Zero(t, s.TotalInventory)
	}
}

func TestGenerateSnapshots_RazoesRecalculadasDasSomas(t *testing.T) {
	records := []*domain.SourceRecord{
		row("P1", "US", 0, func(r *domain.SourceRecord) {
			r.AdImpressions = 100
			r.AdClicks = 10
			r.AdOrders = 5
			r.AdSpend = 20
			r.SalesAmount = 100
			r.AdConversionRate = 0.5
		}),
		row("P1", "US", 1, func(r *domain.SourceRecord) {
			r.AdImpressions = 9900
			r.AdClicks = 90
			r.AdOrders = 1
			r.AdSpend = 80
			r.SalesAmount = 300
			r.AdConversionRate = 0.011
		}),
	}

	snapshots, err := newService(t, records).GenerateSnapshots(context.Background(), targetDate)
	require.NoError(t, err)

	windows := byWindow(snapshots, domain.GroupKey{ProductID: "P1", Warehouse: "US"})
	s := windows["3d"]
	assert.Equal(t, int64(10000), s.AdImpressions)
	assert.Equal(t, int64(100), s.AdClicks)
	assert.InDelta(t, 0.01, s.AdCTR, 1e-12)
	assert.InDelta(t, 0.06, s.AdConversionRate, 1e-12)
	assert.InDelta(t, 0.25, s.AdCostOfSales, 1e-12)

	oneDay := windows["1d"]
	assert.InDelta(t, 0.1, oneDay.AdCTR, 1e-12)
	assert.InDelta(t, 0.2, oneDay.AdCostOfSales, 1e-12)
}

func TestGenerateSnapshots_DenominadorZeroGeraRazaoZero(t *testing.T) {
	records := []*domain.SourceRecord{
		row("P1", "US", 0, func(r *domain.SourceRecord) { r.AdSpend = 15 }),
	}

	snapshots, err := newService(t, records).GenerateSnapshots(context.Background(), targetDate)
	require.NoError(t, err)

	for _, s := range snapshots {
		assert.Zero(t, s.AdCTR)
		assert.Zero(t, s.AdConversionRate)
		assert.Zero(t, s.AdCostOfSales)
	}
}

func TestGenerateSnapshots_CumulativosNaoDecrescem(t *testing.T) {
	var records []*domain.SourceRecord
	for i := 0; i < 45; i += 2 {
		records = append(records, row("P1", "US", i, func(r *domain.SourceRecord) {
			r.SalesAmount = float64(i + 1)
			r.SalesQty = i % 3
			r.AdImpressions = int64(100 * i)
			r.AdClicks = int64(i)
			r.AdSpend = float64(i) / 2
			r.AdOrders = int64(i % 4)
		}))
	}

	snapshots, err := newService(t, records).GenerateSnapshots(context.Background(), targetDate)
	require.NoError(t, err)
	require.Len(t, snapshots, 4)

	for i := 1; i < len(snapshots); i++ {
		prev, cur := snapshots[i-1], snapshots[i]
		assert.Less(t, prev.WindowDays, cur.WindowDays)
		assert.GreaterOrEqual(t, cur.SalesAmount, prev.SalesAmount)
		assert.GreaterOrEqual(t, cur.SalesQty, prev.SalesQty)
		assert.GreaterOrEqual(t, cur.AdImpressions, prev.AdImpressions)
		assert.GreaterOrEqual(t, cur.AdClicks, prev.AdClicks)
		assert.GreaterOrEqual(t, cur.AdSpend, prev.AdSpend)
		assert.GreaterOrEqual(t, cur.AdOrders, prev.AdOrders)
		assert.LessOrEqual(t, cur.CompletenessScore, 1.0)
		assert.GreaterOrEqual(t, cur.CompletenessScore, 0.0)
	}
}

func TestGenerateSnapshots_Idempotente(t *testing.T) {
	var records []*domain.SourceRecord
	for _, p := range []string{"P3", "P1", "P2"} {
		for _, w := range []string{"US", "CA"} {
			for i := 0; i < 10; i++ {
				records = append(records, row(p, w, i, func(r *domain.SourceRecord) {
					r.SalesAmount = float64(i) * 1.5
					r.SalesQty = i
					r.OnHandQty = 30
				}))
			}
		}
	}

	svc := newService(t, records)
	first, err := svc.GenerateSnapshots(context.Background(), targetDate)
	require.NoError(t, err)
	second, err := svc.GenerateSnapshots(context.Background(), targetDate)
	require.NoError(t, err)

	require.Len(t, first, 3*2*4)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("execuções repetidas divergiram (-primeira +segunda):\n%s", diff)
	}

	assert.Equal(t, "P1", first[0].ProductID)
	assert.Equal(t, "CA", first[0].Warehouse)
	assert.Equal(t, "1d", first[0].WindowCode)
	assert.Equal(t, "30d", first[3].WindowCode)
}

func TestGenerateSnapshots_OrigemVazia(t *testing.T) {
	snapshots, err := newService(t, nil).GenerateSnapshots(context.Background(), targetDate)

	require.NoError(t, err)
	assert.NotNil(t, snapshots)
	assert.Empty(t, snapshots)
}

func TestGenerateSnapshots_FalhaNaOrigem(t *testing.T) {
	ctrl := gomock.NewController(t)
	sourceRepo := mocks.NewMockSourceRecordRepository(ctrl)
	sourceRepo.EXPECT().
		ListByDateRange(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("conexão recusada"))

	svc := NewService(sourceRepo, domain.DefaultTurnoverPolicy(), 1)
	snapshots, err := svc.GenerateSnapshots(context.Background(), targetDate)

	assert.Nil(t, snapshots)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.ErrorContains(t, err, "conexão recusada")
}
