package domain

import (
	"fmt"
	"time"
)

// SnapshotKey é a identidade de um snapshot persistido
type SnapshotKey struct {
	ProductID    string    `json:"product_id"`
	Warehouse    string    `json:"warehouse"`
	SnapshotDate time.Time `json:"snapshot_date"`
	WindowCode   string    `json:"window_code"`
}

func (k SnapshotKey) String() string {
	return fmt.Sprintf("%s@%s/%s/%s", k.ProductID, k.Warehouse, k.SnapshotDate.Format(time.DateOnly), k.WindowCode)
}

// Snapshot representa o agregado de um grupo (produto, armazém) para uma janela
// terminando na data alvo (T-1)
type Snapshot struct {
	ProductID    string    `json:"product_id"`
	Warehouse    string    `json:"warehouse"`
	SnapshotDate time.Time `json:"snapshot_date"`
	WindowCode   string    `json:"window_code"`
	WindowDays   int       `json:"window_days"`

	// Informativos, copiados da linha de origem mais recente do grupo
	ProductName string `json:"product_name"`
	OwnerName   string `json:"owner_name"`

	// Estoque sempre da data alvo, igual em todas as janelas do grupo
	OnHandQty      int `json:"on_hand_qty"`
	InTransitQty   int `json:"in_transit_qty"`
	TotalInventory int `json:"total_inventory"`

	SalesAmount         float64 `json:"sales_amount"`
	SalesQty            int     `json:"sales_qty"`
	AvgDailySalesAmount float64 `json:"avg_daily_sales_amount"`
	AvgDailySalesQty    float64 `json:"avg_daily_sales_qty"`

	AdImpressions int64   `json:"ad_impressions"`
	AdClicks      int64   `json:"ad_clicks"`
	AdSpend       float64 `json:"ad_spend"`
	AdOrders      int64   `json:"ad_orders"`

	// Razões recalculadas a partir das somas, nunca médias de razões diárias
	AdCTR            float64 `json:"ad_ctr"`
	AdConversionRate float64 `json:"ad_conversion_rate"`
	AdCostOfSales    float64 `json:"ad_cost_of_sales"`

	TurnoverDays    float64         `json:"turnover_days"`
	InventoryStatus InventoryStatus `json:"inventory_status"`

	RecordsFound      int     `json:"records_found"`
	CompletenessScore float64 `json:"completeness_score"`
}

func (s *Snapshot) Key() SnapshotKey {
	return SnapshotKey{
		ProductID:    s.ProductID,
		Warehouse:    s.Warehouse,
		SnapshotDate: s.SnapshotDate,
		WindowCode:   s.WindowCode,
	}
}

func (s *Snapshot) GroupKey() GroupKey {
	return GroupKey{ProductID: s.ProductID, Warehouse: s.Warehouse}
}

// Clone retorna uma cópia independente do snapshot
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// CloneSnapshots copia o lote sem compartilhar ponteiros
func CloneSnapshots(snapshots []*Snapshot) []*Snapshot {
	out := make([]*Snapshot, len(snapshots))
	for i, s := range snapshots {
		out[i] = s.Clone()
	}
	return out
}

// GroupSnapshots agrupa o lote por (produto, armazém)
func GroupSnapshots(snapshots []*Snapshot) map[GroupKey][]*Snapshot {
	groups := make(map[GroupKey][]*Snapshot)
	for _, s := range snapshots {
		key := s.GroupKey()
		groups[key] = append(groups[key], s)
	}
	return groups
}
