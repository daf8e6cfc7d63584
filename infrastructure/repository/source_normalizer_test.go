package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMetrics(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected sourceMetrics
		wantErr  bool
	}{
		{
			name: "chaves canônicas",
			raw:  `{"on_hand_qty": 10, "in_transit_qty": 5, "sales_amount": 99.5, "sales_qty": 3, "ad_spend": 12.25}`,
			expected: sourceMetrics{
				OnHandQty:    10,
				InTransitQty: 5,
				SalesAmount:  99.5,
				SalesQty:     3,
				AdSpend:      12.25,
			},
		},
		{
			name: "apelidos e camelCase",
			raw:  `{"fbaAvailable": 7, "Inbound-Qty": 2, "revenue": "150.75", "unitsOrdered": "4", "Impressions": 1000, "clicks": 20, "ACOS": 0.15}`,
			expected: sourceMetrics{
				OnHandQty:     7,
				InTransitQty:  2,
				SalesAmount:   150.75,
				SalesQty:      4,
				AdImpressions: 1000,
				AdClicks:      20,
				AdCostOfSales: 0.15,
			},
		},
		{
			name:     "chave canônica prevalece sobre apelido",
			raw:      `{"sales": 1, "sales_amount": 2}`,
			expected: sourceMetrics{SalesAmount: 2},
		},
		{
			name:     "chaves desconhecidas e nulos são ignorados",
			raw:      `{"foo": "bar", "on_hand_qty": null, "ad_orders": 3}`,
			expected: sourceMetrics{AdOrders: 3},
		},
		{
			name:     "payload vazio",
			raw:      ``,
			expected: sourceMetrics{},
		},
		{
			name:    "JSON inválido",
			raw:     `{"on_hand_qty": `,
			wantErr: true,
		},
		{
			name:    "valor não numérico",
			raw:     `{"on_hand_qty": "muitos"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeMetrics([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
