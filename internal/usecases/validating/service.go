package validating

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/infrastructure/repository"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/domain"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/pkg/utils"
)

type Service struct {
	sourceRepository repository.SourceRecordRepository
	opts             Options
	now              func() time.Time
}

func NewService(sourceRepo repository.SourceRecordRepository, opts Options) *Service {
	return &Service{
		sourceRepository: sourceRepo,
		opts:             opts,
		now:              time.Now,
	}
}

func (s *Service) Validate(ctx context.Context, snapshots []*domain.Snapshot, targetDate time.Time) (*domain.ConsistencyReport, error) {
	report, _, err := s.evaluate(ctx, snapshots, domain.DateOnly(targetDate))
	return report, err
}

func (s *Service) ValidateAndFix(ctx context.Context, snapshots []*domain.Snapshot, targetDate time.Time) (*domain.ConsistencyReport, []*domain.Snapshot, error) {
	started := s.now()
	target := domain.DateOnly(targetDate)

	report, patches, err := s.evaluate(ctx, snapshots, target)
	if err != nil {
		return nil, nil, err
	}

	if !s.opts.AutoFix || len(patches) == 0 {
		return report, domain.CloneSnapshots(snapshots), nil
	}

	fixed := ApplyPatches(snapshots, patches)

	// Só a regra de negócio é corrigível; reavaliar apenas ela sobre o lote corrigido
	before, _ := report.Result(domain.RuleBusinessLogic)
	after, _ := s.checkBusinessLogic(fixed)
	after.FixesApplied = len(patches)
	after.Details["errors_before_fix"] = before.Errors
	after.Message = fmt.Sprintf("%d correções aplicadas; %s", len(patches), after.Message)

	results := make([]domain.ValidationResult, len(report.Results))
	for i, res := range report.Results {
		if res.Rule == domain.RuleBusinessLogic {
			res = after
		}
		results[i] = res
	}

	fixedReport := s.buildReport(report.ValidationID, target, fixed, results, started)

	logrus.WithFields(logrus.Fields{
		"validation_id": fixedReport.ValidationID,
		"target_date":   target.Format(time.DateOnly),
		"fixes_applied": fixedReport.FixesApplied,
		"score":         fixedReport.Score,
		"status":        fixedReport.Status,
	}).Info("Correções automáticas aplicadas ao lote")

	return fixedReport, fixed, nil
}

// evaluate roda todas as regras sem alterar o lote e devolve os patches sugeridos
func (s *Service) evaluate(ctx context.Context, snapshots []*domain.Snapshot, target time.Time) (*domain.ConsistencyReport, []domain.SnapshotPatch, error) {
	started := s.now()

	validationID, err := utils.GeneratePrefixedID("val")
	if err != nil {
		return nil, nil, fmt.Errorf("erro ao gerar id de validação: %w", err)
	}

	groups := domain.GroupSnapshots(snapshots)
	results := make([]domain.ValidationResult, 0, len(ruleOrder))
	var patches []domain.SnapshotPatch

	for _, rule := range ruleOrder {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		var res domain.ValidationResult
		switch rule {
		case domain.RuleDataIntegrity:
			res, err = s.checkDataIntegrity(ctx, groups, target)
		case domain.RuleBusinessLogic:
			res, patches = s.checkBusinessLogic(snapshots)
		case domain.RuleCrossTemporal:
			res = s.checkCrossTemporal(groups)
		case domain.RuleAnomalyDetection:
			res = s.checkAnomalies(snapshots)
		case domain.RuleCompleteness:
			res, err = s.checkCompleteness(ctx, snapshots, groups, target)
		}
		if err != nil {
			return nil, nil, err
		}
		results = append(results, res)
	}

	report := s.buildReport(validationID, target, snapshots, results, started)

	logrus.WithFields(logrus.Fields{
		"validation_id": report.ValidationID,
		"target_date":   target.Format(time.DateOnly),
		"records":       report.TotalRecords,
		"score":         report.Score,
		"status":        report.Status,
		"errors":        report.ErrorCount,
		"warnings":      report.WarningCount,
	}).Info("Validação de consistência concluída")

	return report, patches, nil
}

func (s *Service) buildReport(
	validationID string,
	target time.Time,
	snapshots []*domain.Snapshot,
	results []domain.ValidationResult,
	started time.Time,
) *domain.ConsistencyReport {
	now := s.now()
	report := &domain.ConsistencyReport{
		ValidationID: validationID,
		TargetDate:   target,
		TotalRecords: len(snapshots),
		TotalGroups:  len(domain.GroupSnapshots(snapshots)),
		Results:      results,
		ValidatedAt:  now,
		DurationMs:   now.Sub(started).Milliseconds(),
	}

	var weighted, totalWeight float64
	blocking, nonBlocking := false, false
	for _, res := range results {
		weight := ruleWeights[res.Rule]
		weighted += weight * res.Score
		totalWeight += weight

		report.ErrorCount += res.Errors
		report.WarningCount += res.Warnings
		report.FixesApplied += res.FixesApplied

		if res.Passed {
			report.PassedRules++
			if res.Warnings > 0 {
				nonBlocking = true
			}
			continue
		}
		report.FailedRules++
		if res.Severity.Blocking() {
			blocking = true
		} else {
			nonBlocking = true
		}
	}

	if totalWeight > 0 {
		report.Score = weighted / totalWeight
	}

	switch {
	case blocking:
		report.Status = domain.ValidationStatusFailed
	case nonBlocking:
		report.Status = domain.ValidationStatusWarning
	default:
		report.Status = domain.ValidationStatusPassed
	}

	return report
}

// ApplyPatches devolve um novo lote com as correções aplicadas; o lote original não é alterado
func ApplyPatches(snapshots []*domain.Snapshot, patches []domain.SnapshotPatch) []*domain.Snapshot {
	out := domain.CloneSnapshots(snapshots)

	index := make(map[string]*domain.Snapshot, len(out))
	for _, snap := range out {
		index[snap.Key().String()] = snap
	}

	for _, p := range patches {
		snap, ok := index[p.Key.String()]
		if !ok {
			continue
		}
		switch p.Field {
		case domain.FieldAdCTR:
			snap.AdCTR = p.After
		case domain.FieldAdConversionRate:
			snap.AdConversionRate = p.After
		case domain.FieldAdCostOfSales:
			snap.AdCostOfSales = p.After
		case domain.FieldAvgDailySalesAmount:
			snap.AvgDailySalesAmount = p.After
		case domain.FieldAvgDailySalesQty:
			snap.AvgDailySalesQty = p.After
		case domain.FieldTurnoverDays:
			snap.TurnoverDays = p.After
		case domain.FieldInventoryStatus:
			snap.InventoryStatus = p.StatusAfter
		}
	}

	return out
}
