package handler

import (
	"context"
	"time"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/domain"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/scheduler"
)

// SnapshotOrchestrator é a parte do orquestrador exposta pela API
type SnapshotOrchestrator interface {
	RunDaily(ctx context.Context) (*domain.TaskExecution, error)
	RunManual(ctx context.Context, targetDate time.Time) (*domain.TaskExecution, error)
	CheckBackfillRange(start, end time.Time) error
	RunBackfill(ctx context.Context, start, end time.Time) ([]*domain.TaskExecution, error)
	RetryFailedTasks(ctx context.Context) ([]*domain.TaskExecution, error)
	RetryTask(ctx context.Context, id string) (*domain.TaskExecution, error)
	GetTaskStatus(ctx context.Context, id string) (*domain.TaskExecution, error)
	ListTasks(ctx context.Context, filter domain.TaskFilter) ([]*domain.TaskExecution, error)
	GetStatus() scheduler.SchedulerStatus
}
