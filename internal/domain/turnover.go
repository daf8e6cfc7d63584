package domain

// InventoryStatus é a faixa de cobertura de estoque derivada dos dias de giro
type InventoryStatus string

const (
	InventoryStatusShortage   InventoryStatus = "shortage"
	InventoryStatusNormal     InventoryStatus = "normal"
	InventoryStatusSufficient InventoryStatus = "sufficient"
	InventoryStatusOverstock  InventoryStatus = "overstock"
)

// TurnoverPolicy define os limites das faixas de status e o valor sentinela
// usado quando há estoque mas nenhuma venda
type TurnoverPolicy struct {
	ShortageDays   float64 `json:"shortage_days"`
	NormalDays     float64 `json:"normal_days"`
	SufficientDays float64 `json:"sufficient_days"`
	SentinelDays   float64 `json:"sentinel_days"`
}

func DefaultTurnoverPolicy() TurnoverPolicy {
	return TurnoverPolicy{
		ShortageDays:   7,
		NormalDays:     30,
		SufficientDays: 60,
		SentinelDays:   999,
	}
}

// TurnoverDays calcula estoque total ÷ média diária de vendas
func (p TurnoverPolicy) TurnoverDays(totalInventory int, avgDailySalesQty float64) float64 {
	if avgDailySalesQty <= 0 {
		if totalInventory > 0 {
			return p.SentinelDays
		}
		return 0
	}
	return float64(totalInventory) / avgDailySalesQty
}

// Classify converte dias de giro na faixa de status
func (p TurnoverPolicy) Classify(turnoverDays float64) InventoryStatus {
	switch {
	case turnoverDays <= p.ShortageDays:
		return InventoryStatusShortage
	case turnoverDays <= p.NormalDays:
		return InventoryStatusNormal
	case turnoverDays <= p.SufficientDays:
		return InventoryStatusSufficient
	default:
		return InventoryStatusOverstock
	}
}

// IsSentinel indica se o giro do snapshot é o sentinela de "sem vendas".
// Um giro calculado igual ou maior que o sentinela, com vendas, não conta.
func (p TurnoverPolicy) IsSentinel(snap *Snapshot) bool {
	return snap.AvgDailySalesQty <= 0 && snap.TurnoverDays == p.SentinelDays
}

// SafeRatio divide retornando 0 quando o denominador é zero
func SafeRatio(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
