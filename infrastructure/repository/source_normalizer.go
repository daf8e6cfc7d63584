package repository

import (
	"fmt"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// O sync upstream grava o payload de métricas com nomes que variam conforme
// a origem (relatório de estoque, relatório de anúncios, planilha manual).
// As chaves são comparadas sem caixa e sem separadores.
var metricAliases = map[string]string{
	"onhandqty":        "on_hand_qty",
	"onhand":           "on_hand_qty",
	"fbaavailable":     "on_hand_qty",
	"availableqty":     "on_hand_qty",
	"fbainventory":     "on_hand_qty",
	"intransitqty":     "in_transit_qty",
	"intransit":        "in_transit_qty",
	"inboundqty":       "in_transit_qty",
	"fbainbound":       "in_transit_qty",
	"salesamount":      "sales_amount",
	"sales":            "sales_amount",
	"revenue":          "sales_amount",
	"orderedsales":     "sales_amount",
	"salesqty":         "sales_qty",
	"salesquantity":    "sales_qty",
	"unitsordered":     "sales_qty",
	"units":            "sales_qty",
	"adimpressions":    "ad_impressions",
	"impressions":      "ad_impressions",
	"adclicks":         "ad_clicks",
	"clicks":           "ad_clicks",
	"adspend":          "ad_spend",
	"adcost":           "ad_spend",
	"spend":            "ad_spend",
	"adorders":         "ad_orders",
	"adconversions":    "ad_orders",
	"adconversionrate": "ad_conversion_rate",
	"cvr":              "ad_conversion_rate",
	"adcostofsales":    "ad_cost_of_sales",
	"acos":             "ad_cost_of_sales",
}

// sourceMetrics é o formato canônico do payload jsonb
type sourceMetrics struct {
	OnHandQty        int     `mapstructure:"on_hand_qty"`
	InTransitQty     int     `mapstructure:"in_transit_qty"`
	SalesAmount      float64 `mapstructure:"sales_amount"`
	SalesQty         int     `mapstructure:"sales_qty"`
	AdImpressions    int64   `mapstructure:"ad_impressions"`
	AdClicks         int64   `mapstructure:"ad_clicks"`
	AdSpend          float64 `mapstructure:"ad_spend"`
	AdOrders         int64   `mapstructure:"ad_orders"`
	AdConversionRate float64 `mapstructure:"ad_conversion_rate"`
	AdCostOfSales    float64 `mapstructure:"ad_cost_of_sales"`
}

func canonicalMetricKey(key string) (string, bool) {
	k := strings.ToLower(strings.TrimSpace(key))
	k = strings.NewReplacer("_", "", "-", "", " ", "").Replace(k)
	canonical, ok := metricAliases[k]
	return canonical, ok
}

// normalizeMetrics converte o payload bruto no formato canônico. Chaves
// desconhecidas são ignoradas; números em string são aceitos.
func normalizeMetrics(raw []byte) (sourceMetrics, error) {
	var out sourceMetrics
	if len(raw) == 0 {
		return out, nil
	}

	payload := make(map[string]any)
	if err := json.Unmarshal(raw, &payload); err != nil {
		return out, fmt.Errorf("erro ao deserializar JSON de métricas: %w", err)
	}

	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	canonical := make(map[string]any, len(payload))
	for _, key := range keys {
		value := payload[key]
		name, ok := canonicalMetricKey(key)
		if !ok || value == nil {
			continue
		}
		// Nome canônico explícito prevalece sobre apelidos
		if _, exists := canonical[name]; exists && key != name {
			continue
		}
		canonical[name] = value
	}

	if err := mapstructure.WeakDecode(canonical, &out); err != nil {
		return out, fmt.Errorf("erro ao normalizar métricas: %w", err)
	}

	return out, nil
}

func (m sourceMetrics) applyTo(record *domain.SourceRecord) {
	record.OnHandQty = m.OnHandQty
	record.InTransitQty = m.InTransitQty
	record.SalesAmount = m.SalesAmount
	record.SalesQty = m.SalesQty
	record.AdImpressions = m.AdImpressions
	record.AdClicks = m.AdClicks
	record.AdSpend = m.AdSpend
	record.AdOrders = m.AdOrders
	record.AdConversionRate = m.AdConversionRate
	record.AdCostOfSales = m.AdCostOfSales
}
