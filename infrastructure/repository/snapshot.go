package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/infrastructure/database/postgres"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/domain"
)

const (
	snapshotsTable       = "product_snapshots"
	defaultUpsertBatch   = 500
	snapshotConflictKeys = "product_id, warehouse, snapshot_date, window_code"
)

var snapshotColumns = []string{
	"product_id",
	"warehouse",
	"snapshot_date",
	"window_code",
	"window_days",
	"product_name",
	"owner_name",
	"on_hand_qty",
	"in_transit_qty",
	"total_inventory",
	"sales_amount",
	"sales_qty",
	"avg_daily_sales_amount",
	"avg_daily_sales_qty",
	"ad_impressions",
	"ad_clicks",
	"ad_spend",
	"ad_orders",
	"ad_ctr",
	"ad_conversion_rate",
	"ad_cost_of_sales",
	"turnover_days",
	"inventory_status",
	"records_found",
	"completeness_score",
}

// SnapshotRepository persiste os agregados por janela
type SnapshotRepository interface {
	// UpsertBatch grava o lote inteiro em uma transação. Reexecutar com o
	// mesmo lote produz o mesmo estado final.
	UpsertBatch(ctx context.Context, snapshots []*domain.Snapshot) (int, error)
	ListByDate(ctx context.Context, snapshotDate time.Time) ([]*domain.Snapshot, error)
}

type snapshotRepository struct {
	conn      postgres.Conn
	batchSize int
}

func NewSnapshotRepository(conn postgres.Conn, batchSize int) SnapshotRepository {
	if batchSize <= 0 {
		batchSize = defaultUpsertBatch
	}
	return &snapshotRepository{
		conn:      conn,
		batchSize: batchSize,
	}
}

func (r *snapshotRepository) UpsertBatch(ctx context.Context, snapshots []*domain.Snapshot) (int, error) {
	if len(snapshots) == 0 {
		return 0, nil
	}

	written := 0
	err := r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for start := 0; start < len(snapshots); start += r.batchSize {
			end := start + r.batchSize
			if end > len(snapshots) {
				end = len(snapshots)
			}

			query, args, err := buildSnapshotUpsert(snapshots[start:end])
			if err != nil {
				return err
			}

			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				if pqErr, ok := err.(*pq.Error); ok {
					return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
				}
				return fmt.Errorf("erro ao executar a query: %w", err)
			}
			written += end - start
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return written, nil
}

func (r *snapshotRepository) ListByDate(ctx context.Context, snapshotDate time.Time) ([]*domain.Snapshot, error) {
	query, args, err := squirrel.
		Select(snapshotColumns...).
		From(snapshotsTable).
		Where(squirrel.Eq{"snapshot_date": snapshotDate.Format(dateLayout)}).
		OrderBy("product_id ASC", "warehouse ASC", "window_days ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	snapshots := make([]*domain.Snapshot, 0)
	for rows.Next() {
		s := &domain.Snapshot{}
		var status string
		err := rows.Scan(
			&s.ProductID, &s.Warehouse, &s.SnapshotDate, &s.WindowCode, &s.WindowDays,
			&s.ProductName, &s.OwnerName,
			&s.OnHandQty, &s.InTransitQty, &s.TotalInventory,
			&s.SalesAmount, &s.SalesQty, &s.AvgDailySalesAmount, &s.AvgDailySalesQty,
			&s.AdImpressions, &s.AdClicks, &s.AdSpend, &s.AdOrders,
			&s.AdCTR, &s.AdConversionRate, &s.AdCostOfSales,
			&s.TurnoverDays, &status,
			&s.RecordsFound, &s.CompletenessScore,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear snapshot: %w", err)
		}
		s.SnapshotDate = domain.DateOnly(s.SnapshotDate)
		s.InventoryStatus = domain.InventoryStatus(status)
		snapshots = append(snapshots, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return snapshots, nil
}

// buildSnapshotUpsert monta um INSERT multi-linha com ON CONFLICT na chave de identidade
func buildSnapshotUpsert(batch []*domain.Snapshot) (string, []interface{}, error) {
	insert := squirrel.StatementBuilder.
		Insert(snapshotsTable).
		Columns(snapshotColumns...)

	for _, s := range batch {
		insert = insert.Values(
			s.ProductID,
			s.Warehouse,
			s.SnapshotDate.Format(dateLayout),
			s.WindowCode,
			s.WindowDays,
			s.ProductName,
			s.OwnerName,
			s.OnHandQty,
			s.InTransitQty,
			s.TotalInventory,
			s.SalesAmount,
			s.SalesQty,
			s.AvgDailySalesAmount,
			s.AvgDailySalesQty,
			s.AdImpressions,
			s.AdClicks,
			s.AdSpend,
			s.AdOrders,
			s.AdCTR,
			s.AdConversionRate,
			s.AdCostOfSales,
			s.TurnoverDays,
			string(s.InventoryStatus),
			s.RecordsFound,
			s.CompletenessScore,
		)
	}

	query, args, err := insert.
		Suffix(snapshotConflictClause()).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return query, args, nil
}

func snapshotConflictClause() string {
	updates := make([]string, 0, len(snapshotColumns))
	for _, col := range snapshotColumns[4:] {
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}
	updates = append(updates, "updated_at = NOW()")

	return fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s", snapshotConflictKeys, strings.Join(updates, ", "))
}
