package domain

import "time"

type ValidationStatus string

const (
	ValidationStatusPassed  ValidationStatus = "passed"
	ValidationStatusWarning ValidationStatus = "warning"
	ValidationStatusFailed  ValidationStatus = "failed"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Blocking indica se a severidade exige revisão manual e bloqueia a persistência
func (s Severity) Blocking() bool {
	return s == SeverityHigh || s == SeverityCritical
}

type RuleCategory string

const (
	RuleDataIntegrity    RuleCategory = "data_integrity"
	RuleBusinessLogic    RuleCategory = "business_logic"
	RuleCrossTemporal    RuleCategory = "cross_temporal"
	RuleAnomalyDetection RuleCategory = "anomaly_detection"
	RuleCompleteness     RuleCategory = "completeness"
)

// ValidationResult é o resultado de uma categoria de regra
type ValidationResult struct {
	Rule            RuleCategory   `json:"rule"`
	Passed          bool           `json:"passed"`
	Severity        Severity       `json:"severity"`
	AutoFixable     bool           `json:"auto_fixable"`
	Checked         int            `json:"checked"`
	Errors          int            `json:"errors"`
	Warnings        int            `json:"warnings"`
	Score           float64        `json:"score"`
	Message         string         `json:"message"`
	SampleEntityIDs []string       `json:"sample_entity_ids,omitempty"`
	FixesApplied    int            `json:"fixes_applied,omitempty"`
	Details         map[string]any `json:"details,omitempty"`
}

// ConsistencyReport resume uma execução do validador
type ConsistencyReport struct {
	ValidationID string             `json:"validation_id"`
	TargetDate   time.Time          `json:"target_date"`
	Status       ValidationStatus   `json:"status"`
	Score        float64            `json:"score"`
	TotalRecords int                `json:"total_records"`
	TotalGroups  int                `json:"total_groups"`
	PassedRules  int                `json:"passed_rules"`
	FailedRules  int                `json:"failed_rules"`
	ErrorCount   int                `json:"error_count"`
	WarningCount int                `json:"warning_count"`
	FixesApplied int                `json:"fixes_applied"`
	Results      []ValidationResult `json:"results"`
	ValidatedAt  time.Time          `json:"validated_at"`
	DurationMs   int64              `json:"duration_ms"`
}

// Result busca o resultado de uma categoria específica
func (r *ConsistencyReport) Result(rule RuleCategory) (ValidationResult, bool) {
	for _, res := range r.Results {
		if res.Rule == rule {
			return res, true
		}
	}
	return ValidationResult{}, false
}

// SnapshotPatch descreve uma correção pontual de um campo recalculável
type SnapshotPatch struct {
	Key         SnapshotKey     `json:"key"`
	Field       string          `json:"field"`
	Before      float64         `json:"before"`
	After       float64         `json:"after"`
	StatusAfter InventoryStatus `json:"status_after,omitempty"`
}

// Campos corrigíveis pelo auto-fix
const (
	FieldAdCTR               = "ad_ctr"
	FieldAdConversionRate    = "ad_conversion_rate"
	FieldAdCostOfSales       = "ad_cost_of_sales"
	FieldAvgDailySalesAmount = "avg_daily_sales_amount"
	FieldAvgDailySalesQty    = "avg_daily_sales_qty"
	FieldTurnoverDays        = "turnover_days"
	FieldInventoryStatus     = "inventory_status"
)
