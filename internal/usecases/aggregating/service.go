package aggregating

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/infrastructure/repository"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/domain"
)

const defaultMaxConcurrency = 4

// ErrSourceUnavailable indica falha ao ler a origem; a execução pode ser repetida
var ErrSourceUnavailable = errors.New("origem de dados indisponível")

type Service struct {
	sourceRepository repository.SourceRecordRepository
	policy           domain.TurnoverPolicy
	maxConcurrency   int
}

func NewService(
	sourceRepo repository.SourceRecordRepository,
	policy domain.TurnoverPolicy,
	maxConcurrency int,
) *Service {
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}
	return &Service{
		sourceRepository: sourceRepo,
		policy:           policy,
		maxConcurrency:   maxConcurrency,
	}
}

func (s *Service) GenerateSnapshots(ctx context.Context, targetDate time.Time) ([]*domain.Snapshot, error) {
	target := domain.DateOnly(targetDate)
	start, end := domain.LookbackBounds(target)

	records, err := s.sourceRepository.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: erro ao buscar linhas de origem: %w", ErrSourceUnavailable, err)
	}

	if len(records) == 0 {
		logrus.WithField("target_date", target.Format(time.DateOnly)).Warn("Nenhuma linha de origem no período")
		return []*domain.Snapshot{}, nil
	}

	groups, keys := groupRecords(records)
	windows := domain.TimeWindows()
	results := make([][]*domain.Snapshot, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)

	for i, key := range keys {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.aggregateGroup(groups[key], target, windows)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "agregação interrompida")
	}

	snapshots := make([]*domain.Snapshot, 0, len(keys)*len(windows))
	for _, groupSnapshots := range results {
		snapshots = append(snapshots, groupSnapshots...)
	}

	logrus.WithFields(logrus.Fields{
		"target_date": target.Format(time.DateOnly),
		"records":     len(records),
		"groups":      len(keys),
		"snapshots":   len(snapshots),
	}).Info("Snapshots agregados")

	return snapshots, nil
}

// groupRecords agrupa por (produto, armazém) e devolve as chaves ordenadas
func groupRecords(records []*domain.SourceRecord) (map[domain.GroupKey][]*domain.SourceRecord, []domain.GroupKey) {
	groups := make(map[domain.GroupKey][]*domain.SourceRecord)
	for _, r := range records {
		key := r.GroupKey()
		groups[key] = append(groups[key], r)
	}

	keys := make([]domain.GroupKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	return groups, keys
}

func (s *Service) aggregateGroup(rows []*domain.SourceRecord, target time.Time, windows []domain.TimeWindow) []*domain.Snapshot {
	inventory := latestOnDate(rows, target)
	names := mostRecent(rows)

	out := make([]*domain.Snapshot, 0, len(windows))
	for _, w := range windows {
		snap := s.aggregateWindow(rows, target, w)
		snap.ProductName = names.ProductName
		snap.OwnerName = names.OwnerName

		if inventory != nil {
			snap.OnHandQty = inventory.OnHandQty
			snap.InTransitQty = inventory.InTransitQty
		}
		snap.TotalInventory = snap.OnHandQty + snap.InTransitQty

		snap.TurnoverDays = s.policy.TurnoverDays(snap.TotalInventory, snap.AvgDailySalesQty)
		snap.InventoryStatus = s.policy.Classify(snap.TurnoverDays)

		out = append(out, snap)
	}
	return out
}

// aggregateWindow soma as linhas da janela e recalcula as razões a partir das somas
func (s *Service) aggregateWindow(rows []*domain.SourceRecord, target time.Time, w domain.TimeWindow) *domain.Snapshot {
	first := rows[0]
	snap := &domain.Snapshot{
		ProductID:    first.ProductID,
		Warehouse:    first.Warehouse,
		SnapshotDate: target,
		WindowCode:   w.Code,
		WindowDays:   w.Days,
	}

	days := make(map[time.Time]struct{})
	for _, r := range rows {
		if !w.Contains(target, r.Date) {
			continue
		}
		snap.RecordsFound++
		days[domain.DateOnly(r.Date)] = struct{}{}

		snap.SalesAmount += r.SalesAmount
		snap.SalesQty += r.SalesQty
		snap.AdImpressions += r.AdImpressions
		snap.AdClicks += r.AdClicks
		snap.AdSpend += r.AdSpend
		snap.AdOrders += r.AdOrders
	}

	windowDays := float64(w.Days)
	snap.AvgDailySalesAmount = snap.SalesAmount / windowDays
	snap.AvgDailySalesQty = float64(snap.SalesQty) / windowDays

	snap.AdCTR = domain.SafeRatio(float64(snap.AdClicks), float64(snap.AdImpressions))
	snap.AdConversionRate = domain.SafeRatio(float64(snap.AdOrders), float64(snap.AdClicks))
	snap.AdCostOfSales = domain.SafeRatio(snap.AdSpend, snap.SalesAmount)

	snap.CompletenessScore = float64(len(days)) / windowDays
	if snap.CompletenessScore > 1 {
		snap.CompletenessScore = 1
	}

	return snap
}

// latestOnDate retorna a observação mais recente do dia alvo, ou nil
func latestOnDate(rows []*domain.SourceRecord, target time.Time) *domain.SourceRecord {
	var latest *domain.SourceRecord
	for _, r := range rows {
		if !domain.SameDate(r.Date, target) {
			continue
		}
		if r.ObservedAfter(latest) {
			latest = r
		}
	}
	return latest
}

// mostRecent retorna a linha de data mais recente do grupo, desempatando pela sincronização
func mostRecent(rows []*domain.SourceRecord) *domain.SourceRecord {
	var latest *domain.SourceRecord
	for _, r := range rows {
		switch {
		case latest == nil, r.Date.After(latest.Date):
			latest = r
		case r.Date.Equal(latest.Date) && r.ObservedAfter(latest):
			latest = r
		}
	}
	return latest
}
