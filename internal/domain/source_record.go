package domain

import (
	"fmt"
	"time"
)

// SourceRecord representa uma observação diária bruta de um produto em um armazém/marketplace.
// É somente leitura para o agregador: quem escreve é o sistema de sincronização upstream.
type SourceRecord struct {
	ProductID        string    `json:"product_id"`
	Date             time.Time `json:"date"`
	Warehouse        string    `json:"warehouse"`
	OwnerName        string    `json:"owner_name"`
	ProductName      string    `json:"product_name"`
	OnHandQty        int       `json:"on_hand_qty"`
	InTransitQty     int       `json:"in_transit_qty"`
	SalesAmount      float64   `json:"sales_amount"`
	SalesQty         int       `json:"sales_qty"`
	AdImpressions    int64     `json:"ad_impressions"`
	AdClicks         int64     `json:"ad_clicks"`
	AdSpend          float64   `json:"ad_spend"`
	AdOrders         int64     `json:"ad_orders"`
	AdConversionRate float64   `json:"ad_conversion_rate"`
	AdCostOfSales    float64   `json:"ad_cost_of_sales"`
	SyncedAt         time.Time `json:"synced_at"`
}

// GroupKey identifica uma unidade de agregação (produto + armazém)
type GroupKey struct {
	ProductID string `json:"product_id"`
	Warehouse string `json:"warehouse"`
}

func (k GroupKey) String() string {
	return fmt.Sprintf("%s@%s", k.ProductID, k.Warehouse)
}

// Less ordena por produto e depois por armazém
func (k GroupKey) Less(other GroupKey) bool {
	if k.ProductID != other.ProductID {
		return k.ProductID < other.ProductID
	}
	return k.Warehouse < other.Warehouse
}

func (r *SourceRecord) GroupKey() GroupKey {
	return GroupKey{ProductID: r.ProductID, Warehouse: r.Warehouse}
}

// ObservedAfter indica se r é uma observação mais recente que other para o mesmo dia
func (r *SourceRecord) ObservedAfter(other *SourceRecord) bool {
	if other == nil {
		return true
	}
	return r.SyncedAt.After(other.SyncedAt)
}
