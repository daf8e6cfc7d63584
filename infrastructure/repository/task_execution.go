package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/infrastructure/database/postgres"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/domain"
)

const (
	taskExecutionsTable = "snapshot_task_executions"
	defaultTaskListSize = 100
)

var taskExecutionColumns = []string{
	"id",
	"kind",
	"target_date",
	"status",
	"started_at",
	"ended_at",
	"records_processed",
	"error_message",
	"retry_count",
	"quality_score",
	"parent_task_id",
	"report",
	"created_at",
	"updated_at",
}

// TaskExecutionRepository guarda o histórico de execuções para auditoria e retry
type TaskExecutionRepository interface {
	Create(ctx context.Context, task *domain.TaskExecution) error
	Update(ctx context.Context, task *domain.TaskExecution) error
	// GetByID retorna nil, nil quando a execução não existe
	GetByID(ctx context.Context, id string) (*domain.TaskExecution, error)
	List(ctx context.Context, filter domain.TaskFilter) ([]*domain.TaskExecution, error)
	ListRetryable(ctx context.Context, maxRetries int, createdAfter time.Time) ([]*domain.TaskExecution, error)
}

type taskExecutionRepository struct {
	conn postgres.Queryer
}

func NewTaskExecutionRepository(conn postgres.Queryer) TaskExecutionRepository {
	return &taskExecutionRepository{
		conn: conn,
	}
}

func (r *taskExecutionRepository) Create(ctx context.Context, task *domain.TaskExecution) error {
	report, err := marshalReport(task.Report)
	if err != nil {
		return err
	}

	query, args, err := squirrel.StatementBuilder.
		Insert(taskExecutionsTable).
		Columns(taskExecutionColumns...).
		Values(
			task.ID,
			string(task.Kind),
			task.TargetDate.Format(dateLayout),
			string(task.Status),
			task.StartedAt,
			task.EndedAt,
			task.RecordsProcessed,
			task.ErrorMessage,
			task.RetryCount,
			task.QualityScore,
			task.ParentTaskID,
			report,
			task.CreatedAt,
			task.UpdatedAt,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.exec(ctx, query, args...)
}

func (r *taskExecutionRepository) Update(ctx context.Context, task *domain.TaskExecution) error {
	report, err := marshalReport(task.Report)
	if err != nil {
		return err
	}

	query, args, err := squirrel.StatementBuilder.
		Update(taskExecutionsTable).
		SetMap(map[string]interface{}{
			"status":            string(task.Status),
			"started_at":        task.StartedAt,
			"ended_at":          task.EndedAt,
			"records_processed": task.RecordsProcessed,
			"error_message":     task.ErrorMessage,
			"retry_count":       task.RetryCount,
			"quality_score":     task.QualityScore,
			"report":            report,
			"updated_at":        task.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": task.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.exec(ctx, query, args...)
}

func (r *taskExecutionRepository) GetByID(ctx context.Context, id string) (*domain.TaskExecution, error) {
	query, args, err := squirrel.
		Select(taskExecutionColumns...).
		From(taskExecutionsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	task, err := scanTaskExecution(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear execução: %w", err)
	}

	return task, nil
}

func (r *taskExecutionRepository) List(ctx context.Context, filter domain.TaskFilter) ([]*domain.TaskExecution, error) {
	builder := squirrel.
		Select(taskExecutionColumns...).
		From(taskExecutionsTable).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": string(*filter.Status)})
	}
	if filter.Kind != nil {
		builder = builder.Where(squirrel.Eq{"kind": string(*filter.Kind)})
	}
	if filter.TargetDate != nil {
		builder = builder.Where(squirrel.Eq{"target_date": filter.TargetDate.Format(dateLayout)})
	}

	limit := filter.Limit
	if limit == 0 {
		limit = defaultTaskListSize
	}
	builder = builder.Limit(limit)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.query(ctx, query, args...)
}

func (r *taskExecutionRepository) ListRetryable(ctx context.Context, maxRetries int, createdAfter time.Time) ([]*domain.TaskExecution, error) {
	query, args, err := squirrel.
		Select(taskExecutionColumns...).
		From(taskExecutionsTable).
		Where(squirrel.Eq{"status": string(domain.TaskStatusFailed)}).
		Where(squirrel.Lt{"retry_count": maxRetries}).
		Where(squirrel.GtOrEq{"created_at": createdAfter}).
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.query(ctx, query, args...)
}

func (r *taskExecutionRepository) exec(ctx context.Context, query string, args ...interface{}) error {
	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}
	return nil
}

func (r *taskExecutionRepository) query(ctx context.Context, query string, args ...interface{}) ([]*domain.TaskExecution, error) {
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	tasks := make([]*domain.TaskExecution, 0)
	for rows.Next() {
		task, err := scanTaskExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear execução: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return tasks, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTaskExecution(row rowScanner) (*domain.TaskExecution, error) {
	task := &domain.TaskExecution{}
	var (
		kind, status string
		startedAt    sql.NullTime
		endedAt      sql.NullTime
		errorMessage sql.NullString
		parentTaskID sql.NullString
		reportJSON   []byte
	)

	err := row.Scan(
		&task.ID,
		&kind,
		&task.TargetDate,
		&status,
		&startedAt,
		&endedAt,
		&task.RecordsProcessed,
		&errorMessage,
		&task.RetryCount,
		&task.QualityScore,
		&parentTaskID,
		&reportJSON,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Kind = domain.TaskKind(kind)
	task.Status = domain.TaskStatus(status)
	task.TargetDate = domain.DateOnly(task.TargetDate)
	task.ErrorMessage = errorMessage.String
	if startedAt.Valid {
		t := startedAt.Time
		task.StartedAt = &t
	}
	if endedAt.Valid {
		t := endedAt.Time
		task.EndedAt = &t
	}
	if parentTaskID.Valid {
		id := parentTaskID.String
		task.ParentTaskID = &id
	}

	if len(reportJSON) > 0 {
		report := &domain.ConsistencyReport{}
		if err := json.Unmarshal(reportJSON, report); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON do relatório: %w", err)
		}
		task.Report = report
	}

	return task, nil
}

func marshalReport(report *domain.ConsistencyReport) ([]byte, error) {
	if report == nil {
		return nil, nil
	}
	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar relatório para JSON: %w", err)
	}
	return data, nil
}
