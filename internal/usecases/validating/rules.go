package validating

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/domain"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/pkg/utils"
)

const maxSampleEntityIDs = 10

// Peso de cada categoria na nota final
var ruleWeights = map[domain.RuleCategory]float64{
	domain.RuleDataIntegrity:    0.30,
	domain.RuleBusinessLogic:    0.25,
	domain.RuleCrossTemporal:    0.25,
	domain.RuleAnomalyDetection: 0.05,
	domain.RuleCompleteness:     0.15,
}

// Ordem de execução e de apresentação no relatório
var ruleOrder = []domain.RuleCategory{
	domain.RuleDataIntegrity,
	domain.RuleBusinessLogic,
	domain.RuleCrossTemporal,
	domain.RuleAnomalyDetection,
	domain.RuleCompleteness,
}

// severityForShare escala a severidade pela fração de registros com erro
func severityForShare(errors, checked int) domain.Severity {
	if checked == 0 || errors == 0 {
		return domain.SeverityLow
	}
	share := float64(errors) / float64(checked)
	switch {
	case share <= 0.01:
		return domain.SeverityLow
	case share <= 0.05:
		return domain.SeverityMedium
	case share <= 0.20:
		return domain.SeverityHigh
	default:
		return domain.SeverityCritical
	}
}

type sampler struct {
	ids []string
}

func (s *sampler) add(id string) {
	if len(s.ids) < maxSampleEntityIDs {
		s.ids = append(s.ids, id)
	}
}

func newResult(rule domain.RuleCategory, checked, errors, warnings int, sev domain.Severity, fixable bool) domain.ValidationResult {
	return domain.ValidationResult{
		Rule:        rule,
		Passed:      errors == 0,
		Severity:    sev,
		AutoFixable: fixable,
		Checked:     checked,
		Errors:      errors,
		Warnings:    warnings,
		Score:       ruleScore(checked, errors, warnings),
		Details:     map[string]any{},
	}
}

// groupsWithTargetRows conta os grupos cuja janela de 1 dia encontrou linhas
func groupsWithTargetRows(groups map[domain.GroupKey][]*domain.Snapshot) int {
	var n int
	for _, snaps := range groups {
		for _, snap := range snaps {
			if snap.WindowDays == 1 && snap.RecordsFound > 0 {
				n++
				break
			}
		}
	}
	return n
}

func sortedGroupKeys(groups map[domain.GroupKey][]*domain.Snapshot) []domain.GroupKey {
	keys := make([]domain.GroupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// sampleGroups escolhe grupos espaçados uniformemente para que a amostra
// seja a mesma a cada execução sobre o mesmo lote
func sampleGroups(keys []domain.GroupKey, size int) []domain.GroupKey {
	if size <= 0 || len(keys) <= size {
		return keys
	}
	out := make([]domain.GroupKey, 0, size)
	for i := 0; i < size; i++ {
		out = append(out, keys[i*len(keys)/size])
	}
	return out
}

// checkDataIntegrity relê a origem de uma amostra de grupos e confere as somas de vendas por janela
func (s *Service) checkDataIntegrity(ctx context.Context, groups map[domain.GroupKey][]*domain.Snapshot, target time.Time) (domain.ValidationResult, error) {
	sample := sampleGroups(sortedGroupKeys(groups), s.opts.SampleSize)
	if len(sample) == 0 {
		res := newResult(domain.RuleDataIntegrity, 0, 0, 0, domain.SeverityHigh, false)
		res.Message = "nenhum grupo para amostrar"
		return res, nil
	}

	start, end := domain.Window30Days.Bounds(target)
	records, err := s.sourceRepository.ListByGroupsAndDateRange(ctx, sample, start, end)
	if err != nil {
		return domain.ValidationResult{}, fmt.Errorf("erro ao reler origem para amostra: %w", err)
	}

	byGroup := make(map[domain.GroupKey][]*domain.SourceRecord)
	for _, r := range records {
		byGroup[r.GroupKey()] = append(byGroup[r.GroupKey()], r)
	}

	var checked, errs int
	var samples sampler
	for _, key := range sample {
		rows := byGroup[key]
		for _, snap := range groups[key] {
			w, ok := domain.WindowByCode(snap.WindowCode)
			if !ok {
				continue
			}
			checked++

			var amount float64
			var qty int
			for _, r := range rows {
				if w.Contains(target, r.Date) {
					amount += r.SalesAmount
					qty += r.SalesQty
				}
			}

			if !utils.AlmostEqual(amount, snap.SalesAmount, s.opts.AmountTolerance) || qty != snap.SalesQty {
				errs++
				samples.add(snap.Key().String())
			}
		}
	}

	res := newResult(domain.RuleDataIntegrity, checked, errs, 0, domain.SeverityHigh, false)
	res.SampleEntityIDs = samples.ids
	res.Details["sampled_groups"] = len(sample)
	res.Details["source_rows"] = len(records)
	res.Message = fmt.Sprintf("%d de %d snapshots amostrados divergem da origem", errs, checked)
	return res, nil
}

// checkBusinessLogic recalcula os campos derivados de cada snapshot e gera patches para os divergentes
func (s *Service) checkBusinessLogic(snapshots []*domain.Snapshot) (domain.ValidationResult, []domain.SnapshotPatch) {
	var patches []domain.SnapshotPatch
	var errs int
	var samples sampler
	mismatches := make(map[string]int)

	for _, snap := range snapshots {
		snapPatches, invalid := s.recomputeDerived(snap)
		if len(snapPatches) == 0 && !invalid {
			continue
		}
		errs++
		samples.add(snap.Key().String())
		for _, p := range snapPatches {
			mismatches[p.Field]++
		}
		if invalid {
			mismatches["invalid_base_values"]++
		}
		patches = append(patches, snapPatches...)
	}

	res := newResult(domain.RuleBusinessLogic, len(snapshots), errs, 0, severityForShare(errs, len(snapshots)), true)
	res.SampleEntityIDs = samples.ids
	res.Details["field_mismatches"] = mismatches
	res.Message = fmt.Sprintf("%d snapshots com campos derivados inconsistentes", errs)
	return res, patches
}

// recomputeDerived devolve os patches do snapshot e se há valores base inválidos (não corrigíveis)
func (s *Service) recomputeDerived(snap *domain.Snapshot) ([]domain.SnapshotPatch, bool) {
	key := snap.Key()
	var patches []domain.SnapshotPatch

	check := func(field string, stored, expected, tolerance float64) {
		if !utils.AlmostEqual(stored, expected, tolerance) {
			patches = append(patches, domain.SnapshotPatch{Key: key, Field: field, Before: stored, After: expected})
		}
	}

	invalid := snap.SalesAmount < 0 || snap.SalesQty < 0 || snap.AdSpend < 0 ||
		snap.AdImpressions < 0 || snap.AdClicks < 0 || snap.AdOrders < 0 ||
		snap.OnHandQty < 0 || snap.InTransitQty < 0 ||
		snap.TotalInventory != snap.OnHandQty+snap.InTransitQty

	check(domain.FieldAdCTR, snap.AdCTR, domain.SafeRatio(float64(snap.AdClicks), float64(snap.AdImpressions)), s.opts.RatioTolerance)
	check(domain.FieldAdConversionRate, snap.AdConversionRate, domain.SafeRatio(float64(snap.AdOrders), float64(snap.AdClicks)), s.opts.RatioTolerance)
	check(domain.FieldAdCostOfSales, snap.AdCostOfSales, domain.SafeRatio(snap.AdSpend, snap.SalesAmount), s.opts.RatioTolerance)

	days := snap.WindowDays
	if w, ok := domain.WindowByCode(snap.WindowCode); ok {
		days = w.Days
	}
	if days <= 0 {
		return patches, true
	}

	avgQty := float64(snap.SalesQty) / float64(days)
	check(domain.FieldAvgDailySalesAmount, snap.AvgDailySalesAmount, snap.SalesAmount/float64(days), s.opts.AmountTolerance)
	check(domain.FieldAvgDailySalesQty, snap.AvgDailySalesQty, avgQty, s.opts.AmountTolerance)

	turnover := s.opts.Policy.TurnoverDays(snap.TotalInventory, avgQty)
	check(domain.FieldTurnoverDays, snap.TurnoverDays, turnover, s.opts.TurnoverTolerance)

	if status := s.opts.Policy.Classify(turnover); status != snap.InventoryStatus {
		patches = append(patches, domain.SnapshotPatch{Key: key, Field: domain.FieldInventoryStatus, StatusAfter: status})
	}

	return patches, invalid
}

// checkCrossTemporal confere janelas completas, somas crescentes e estoque idêntico por grupo
func (s *Service) checkCrossTemporal(groups map[domain.GroupKey][]*domain.Snapshot) domain.ValidationResult {
	expectedWindows := domain.TimeWindows()
	var errs int
	var samples sampler
	violations := map[string]int{}

	for _, key := range sortedGroupKeys(groups) {
		snaps := append([]*domain.Snapshot(nil), groups[key]...)
		sort.Slice(snaps, func(i, j int) bool { return snaps[i].WindowDays < snaps[j].WindowDays })

		var problems []string
		if !hasExactWindows(snaps, expectedWindows) {
			problems = append(problems, "window_count")
		}

		for i := 1; i < len(snaps); i++ {
			prev, cur := snaps[i-1], snaps[i]
			if cur.SalesAmount+1e-9 < prev.SalesAmount || cur.SalesQty < prev.SalesQty {
				problems = append(problems, "sales_monotonicity")
			}
			if cur.AdImpressions < prev.AdImpressions || cur.AdClicks < prev.AdClicks ||
				cur.AdOrders < prev.AdOrders || cur.AdSpend+1e-9 < prev.AdSpend {
				problems = append(problems, "ad_monotonicity")
			}
			if cur.OnHandQty != prev.OnHandQty || cur.InTransitQty != prev.InTransitQty || cur.TotalInventory != prev.TotalInventory {
				problems = append(problems, "inventory_consistency")
			}
		}

		if len(problems) > 0 {
			errs++
			samples.add(key.String())
			seen := map[string]bool{}
			for _, p := range problems {
				if !seen[p] {
					violations[p]++
					seen[p] = true
				}
			}
		}
	}

	res := newResult(domain.RuleCrossTemporal, len(groups), errs, 0, severityForShare(errs, len(groups)), false)
	res.SampleEntityIDs = samples.ids
	res.Details["violations"] = violations
	res.Message = fmt.Sprintf("%d de %d grupos violam a consistência entre janelas", errs, len(groups))
	return res
}

func hasExactWindows(snaps []*domain.Snapshot, expected []domain.TimeWindow) bool {
	if len(snaps) != len(expected) {
		return false
	}
	seen := make(map[string]bool, len(snaps))
	for _, s := range snaps {
		seen[s.WindowCode] = true
	}
	for _, w := range expected {
		if !seen[w.Code] {
			return false
		}
	}
	return true
}

// checkAnomalies sinaliza outliers por z-score (aviso) e giro extremo (erro, exige revisão)
func (s *Service) checkAnomalies(snapshots []*domain.Snapshot) domain.ValidationResult {
	byWindow := make(map[string][]*domain.Snapshot)
	for _, snap := range snapshots {
		byWindow[snap.WindowCode] = append(byWindow[snap.WindowCode], snap)
	}

	var warnings, errs int
	var samples sampler
	flagged := map[string]int{}

	for _, w := range domain.TimeWindows() {
		snaps := byWindow[w.Code]
		for _, metric := range []struct {
			name  string
			value func(*domain.Snapshot) float64
		}{
			{"sales_amount", func(s *domain.Snapshot) float64 { return s.SalesAmount }},
			{"ad_spend", func(s *domain.Snapshot) float64 { return s.AdSpend }},
		} {
			values := make([]float64, len(snaps))
			for i, snap := range snaps {
				values[i] = metric.value(snap)
			}
			mean, std := meanStdDev(values)
			if std == 0 {
				continue
			}
			for i, v := range values {
				if math.Abs(v-mean)/std > s.opts.ZScoreThreshold {
					warnings++
					flagged[metric.name]++
					samples.add(snaps[i].Key().String())
				}
			}
		}
	}

	var turnovers []float64
	for _, snap := range snapshots {
		if !s.opts.Policy.IsSentinel(snap) {
			turnovers = append(turnovers, snap.TurnoverDays)
		}
	}
	p95 := percentile(turnovers, 0.95)
	if p95 > 0 {
		limit := s.opts.TurnoverOutlierFactor * p95
		for _, snap := range snapshots {
			if !s.opts.Policy.IsSentinel(snap) && snap.TurnoverDays > limit {
				errs++
				flagged["turnover_days"]++
				samples.add(snap.Key().String())
			}
		}
	}

	res := newResult(domain.RuleAnomalyDetection, len(snapshots), errs, warnings, domain.SeverityMedium, false)
	res.SampleEntityIDs = samples.ids
	res.Details["flagged"] = flagged
	res.Details["turnover_p95"] = p95
	res.Message = fmt.Sprintf("%d avisos de outlier e %d giros extremos", warnings, errs)
	return res
}

// checkCompleteness compara os grupos com linha na data alvo contra a contagem feita
// direto na origem para a mesma data. Uma diferença indica que a leitura do agregador
// perdeu linhas (carga tardia, leitura parcial).
func (s *Service) checkCompleteness(ctx context.Context, snapshots []*domain.Snapshot, groups map[domain.GroupKey][]*domain.Snapshot, target time.Time) (domain.ValidationResult, error) {
	expected, err := s.sourceRepository.CountDistinctGroups(ctx, target, target)
	if err != nil {
		return domain.ValidationResult{}, fmt.Errorf("erro ao contar grupos esperados: %w", err)
	}

	actual := groupsWithTargetRows(groups)
	coverage := 1.0
	if expected > 0 {
		coverage = math.Min(1, float64(actual)/float64(expected))
	}

	var low int
	for _, snap := range snapshots {
		if snap.CompletenessScore < s.opts.LowCompletenessScore {
			low++
		}
	}
	lowShare := 0.0
	if len(snapshots) > 0 {
		lowShare = float64(low) / float64(len(snapshots))
	}

	missing := expected - actual
	if missing < 0 {
		missing = 0
	}

	coverageOK := coverage >= s.opts.CoverageThreshold
	densityOK := lowShare <= s.opts.LowCompletenessShare

	sev := domain.SeverityLow
	switch {
	case !coverageOK:
		sev = domain.SeverityHigh
	case !densityOK:
		sev = domain.SeverityMedium
	}

	res := domain.ValidationResult{
		Rule:     domain.RuleCompleteness,
		Passed:   coverageOK && densityOK,
		Severity: sev,
		Checked:  expected,
		Errors:   missing,
		Warnings: low,
		Score:    coverage * (1 - 0.5*lowShare),
		Details: map[string]any{
			"expected_groups":        expected,
			"actual_groups":          actual,
			"coverage":               coverage,
			"low_completeness_share": lowShare,
		},
		Message: fmt.Sprintf("cobertura de %.1f%% (%d/%d grupos), %.1f%% dos snapshots com completude baixa",
			coverage*100, actual, expected, lowShare*100),
	}
	return res, nil
}
