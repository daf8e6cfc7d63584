package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTurnoverPolicy_TurnoverDays(t *testing.T) {
	policy := DefaultTurnoverPolicy()

	tests := []struct {
		name      string
		inventory int
		avgQty    float64
		expected  float64
	}{
		{"estoque e vendas", 100, 10, 10},
		{"sem vendas com estoque usa sentinela", 50, 0, 999},
		{"sem vendas e sem estoque", 0, 0, 0},
		{"sem estoque com vendas", 0, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, policy.TurnoverDays(tt.inventory, tt.avgQty), 1e-9)
		})
	}
}

func TestTurnoverPolicy_Classify(t *testing.T) {
	policy := DefaultTurnoverPolicy()

	tests := []struct {
		days     float64
		expected InventoryStatus
	}{
		{0, InventoryStatusShortage},
		{7, InventoryStatusShortage},
		{7.01, InventoryStatusNormal},
		{30, InventoryStatusNormal},
		{45, InventoryStatusSufficient},
		{60, InventoryStatusSufficient},
		{60.5, InventoryStatusOverstock},
		{999, InventoryStatusOverstock},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, policy.Classify(tt.days), "dias=%v", tt.days)
	}
}

func TestTurnoverPolicy_IsSentinel(t *testing.T) {
	policy := DefaultTurnoverPolicy()

	tests := []struct {
		name     string
		snap     *Snapshot
		expected bool
	}{
		{"sem vendas com estoque", &Snapshot{TotalInventory: 50, TurnoverDays: 999}, true},
		{"giro calculado igual ao sentinela", &Snapshot{TotalInventory: 999, AvgDailySalesQty: 1, TurnoverDays: 999}, false},
		{"giro calculado acima do sentinela", &Snapshot{TotalInventory: 3000, AvgDailySalesQty: 1, TurnoverDays: 3000}, false},
		{"giro comum", &Snapshot{TotalInventory: 100, AvgDailySalesQty: 10, TurnoverDays: 10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, policy.IsSentinel(tt.snap))
		})
	}
}

func TestSafeRatio(t *testing.T) {
	assert.Zero(t, SafeRatio(10, 0))
	assert.InDelta(t, 0.05, SafeRatio(50, 1000), 1e-12)
}
