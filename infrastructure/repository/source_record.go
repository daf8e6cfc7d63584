package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/infrastructure/database/postgres"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/domain"
)

const (
	sourceRecordsTable = "product_daily_metrics pdm"
	dateLayout         = "2006-01-02"
)

var sourceRecordColumns = []string{
	"pdm.product_id",
	"pdm.date",
	"pdm.marketplace_id",
	"COALESCE(pdm.owner_name, '')",
	"COALESCE(pdm.product_name, '')",
	"pdm.metrics",
	"pdm.synced_at",
}

// SourceRecordRepository é o acesso somente leitura às linhas diárias de origem
type SourceRecordRepository interface {
	ListByDateRange(ctx context.Context, startDate, endDate time.Time) ([]*domain.SourceRecord, error)
	ListByGroupsAndDateRange(ctx context.Context, groups []domain.GroupKey, startDate, endDate time.Time) ([]*domain.SourceRecord, error)
	CountDistinctGroups(ctx context.Context, startDate, endDate time.Time) (int, error)
}

type sourceRecordRepository struct {
	conn postgres.Queryer
}

func NewSourceRecordRepository(conn postgres.Queryer) SourceRecordRepository {
	return &sourceRecordRepository{
		conn: conn,
	}
}

func (r *sourceRecordRepository) ListByDateRange(ctx context.Context, startDate, endDate time.Time) ([]*domain.SourceRecord, error) {
	query, args, err := squirrel.
		Select(sourceRecordColumns...).
		From(sourceRecordsTable).
		Where(squirrel.GtOrEq{"pdm.date": startDate.Format(dateLayout)}).
		Where(squirrel.LtOrEq{"pdm.date": endDate.Format(dateLayout)}).
		OrderBy("pdm.product_id ASC", "pdm.marketplace_id ASC", "pdm.date ASC", "pdm.synced_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.query(ctx, query, args...)
}

func (r *sourceRecordRepository) ListByGroupsAndDateRange(ctx context.Context, groups []domain.GroupKey, startDate, endDate time.Time) ([]*domain.SourceRecord, error) {
	if len(groups) == 0 {
		return []*domain.SourceRecord{}, nil
	}

	groupFilter := make(squirrel.Or, 0, len(groups))
	for _, g := range groups {
		groupFilter = append(groupFilter, squirrel.Eq{
			"pdm.product_id":     g.ProductID,
			"pdm.marketplace_id": g.Warehouse,
		})
	}

	query, args, err := squirrel.
		Select(sourceRecordColumns...).
		From(sourceRecordsTable).
		Where(groupFilter).
		Where(squirrel.GtOrEq{"pdm.date": startDate.Format(dateLayout)}).
		Where(squirrel.LtOrEq{"pdm.date": endDate.Format(dateLayout)}).
		OrderBy("pdm.product_id ASC", "pdm.marketplace_id ASC", "pdm.date ASC", "pdm.synced_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.query(ctx, query, args...)
}

// CountDistinctGroups conta os pares (produto, armazém) distintos no intervalo,
// usado como estimativa independente do número esperado de grupos
func (r *sourceRecordRepository) CountDistinctGroups(ctx context.Context, startDate, endDate time.Time) (int, error) {
	query, args, err := squirrel.
		Select("COUNT(DISTINCT (pdm.product_id, pdm.marketplace_id))").
		From(sourceRecordsTable).
		Where(squirrel.GtOrEq{"pdm.date": startDate.Format(dateLayout)}).
		Where(squirrel.LtOrEq{"pdm.date": endDate.Format(dateLayout)}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var count int
	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("erro ao contar grupos de origem: %w", err)
	}

	return count, nil
}

func (r *sourceRecordRepository) query(ctx context.Context, query string, args ...interface{}) ([]*domain.SourceRecord, error) {
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.SourceRecord, 0)
	for rows.Next() {
		record, err := scanSourceRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear linha de origem: %w", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return records, nil
}

func scanSourceRecord(rows *sql.Rows) (*domain.SourceRecord, error) {
	record := &domain.SourceRecord{}
	var metricsJSON []byte
	var syncedAt sql.NullTime

	err := rows.Scan(
		&record.ProductID,
		&record.Date,
		&record.Warehouse,
		&record.OwnerName,
		&record.ProductName,
		&metricsJSON,
		&syncedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Date = domain.DateOnly(record.Date)
	if syncedAt.Valid {
		record.SyncedAt = syncedAt.Time
	}

	metrics, err := normalizeMetrics(metricsJSON)
	if err != nil {
		return nil, fmt.Errorf("produto %s em %s: %w", record.ProductID, record.Date.Format(dateLayout), err)
	}
	metrics.applyTo(record)

	return record, nil
}
