package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/domain"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/scheduler"
)

type fakeOrchestrator struct {
	manualDate    time.Time
	backfillStart time.Time
	backfillEnd   time.Time
	backfill      []*domain.TaskExecution
	retriedID     string
	filter        domain.TaskFilter
	tasks         []*domain.TaskExecution
	err           error
}

func (f *fakeOrchestrator) RunDaily(context.Context) (*domain.TaskExecution, error) {
	return task("t-daily", domain.TaskKindDaily, domain.TaskStatusCompleted), f.err
}

func (f *fakeOrchestrator) RunManual(_ context.Context, targetDate time.Time) (*domain.TaskExecution, error) {
	f.manualDate = targetDate
	return task("t-manual", domain.TaskKindManual, domain.TaskStatusCompleted), f.err
}

func (f *fakeOrchestrator) RunBackfill(_ context.Context, start, end time.Time) ([]*domain.TaskExecution, error) {
	f.backfillStart, f.backfillEnd = start, end
	return f.backfill, f.err
}

func (f *fakeOrchestrator) RetryFailedTasks(context.Context) ([]*domain.TaskExecution, error) {
	return f.tasks, f.err
}

func (f *fakeOrchestrator) RetryTask(_ context.Context, id string) (*domain.TaskExecution, error) {
	f.retriedID = id
	return task(id, domain.TaskKindManual, domain.TaskStatusCompleted), f.err
}

func (f *fakeOrchestrator) GetTaskStatus(_ context.Context, id string) (*domain.TaskExecution, error) {
	if f.err != nil {
		return nil, f.err
	}
	return task(id, domain.TaskKindDaily, domain.TaskStatusFailed), nil
}

func (f *fakeOrchestrator) ListTasks(_ context.Context, filter domain.TaskFilter) ([]*domain.TaskExecution, error) {
	f.filter = filter
	return f.tasks, f.err
}

func task(id string, kind domain.TaskKind, status domain.TaskStatus) *domain.TaskExecution {
	return &domain.TaskExecution{
		ID:               id,
		Kind:             kind,
		TargetDate:       time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:           status,
		RecordsProcessed: 8,
		QualityScore:     0.98,
	}
}

func execute(t *testing.T, fake *fakeOrchestrator, args ...string) (string, error) {
	t.Helper()

	closed := false
	original := newOrchestrator
	newOrchestrator = func(context.Context) (orchestrator, func() error, error) {
		return fake, func() error { closed = true; return nil }, nil
	}
	t.Cleanup(func() {
		newOrchestrator = original
		runFlags.date = ""
		backfillFlags.start, backfillFlags.end = "", ""
		statusFlags.status, statusFlags.kind, statusFlags.limit = "", "", 20
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	if err == nil {
		assert.True(t, closed, "recursos devem ser liberados")
	}
	return out.String(), err
}

func TestDaily(t *testing.T) {
	out, err := execute(t, &fakeOrchestrator{}, "daily")

	require.NoError(t, err)
	assert.Contains(t, out, `"id": "t-daily"`)
	assert.Contains(t, out, `"status": "completed"`)
}

func TestDaily_FalhaDoPipeline(t *testing.T) {
	fake := &fakeOrchestrator{err: scheduler.ErrQualityGate}

	out, err := execute(t, fake, "daily")

	assert.ErrorIs(t, err, scheduler.ErrQualityGate)
	assert.Contains(t, out, `"id": "t-daily"`)
}

func TestRun(t *testing.T) {
	fake := &fakeOrchestrator{}

	_, err := execute(t, fake, "run", "--date", "2025-01-10")

	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), fake.manualDate)
}

func TestRun_DataInvalida(t *testing.T) {
	_, err := execute(t, &fakeOrchestrator{}, "run", "--date", "10/01/2025")

	assert.Error(t, err)
}

func TestBackfill(t *testing.T) {
	failed := task("t-3", domain.TaskKindBackfill, domain.TaskStatusFailed)
	failed.ErrorMessage = "falha na agregação"
	fake := &fakeOrchestrator{backfill: []*domain.TaskExecution{
		task("t-1", domain.TaskKindBackfill, domain.TaskStatusCompleted),
		failed,
	}}

	out, err := execute(t, fake, "backfill", "--start", "2025-01-01", "--end", "2025-01-02")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 dias do backfill falharam")
	assert.Contains(t, out, "2 dias processados, 1 com falha")
	assert.Contains(t, out, "falha na agregação")
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), fake.backfillStart)
	assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), fake.backfillEnd)
}

func TestBackfill_IntervaloInvalido(t *testing.T) {
	fake := &fakeOrchestrator{err: scheduler.ErrInvalidDateRange}

	_, err := execute(t, fake, "backfill", "--start", "2025-01-05", "--end", "2025-01-01")

	assert.ErrorIs(t, err, scheduler.ErrInvalidDateRange)
}

func TestRetry(t *testing.T) {
	fake := &fakeOrchestrator{}

	out, err := execute(t, fake, "retry", "abc-123")

	require.NoError(t, err)
	assert.Equal(t, "abc-123", fake.retriedID)
	assert.Contains(t, out, `"id": "abc-123"`)
}

func TestRetry_ExigeID(t *testing.T) {
	_, err := execute(t, &fakeOrchestrator{}, "retry")

	assert.Error(t, err)
}

func TestRetryFailed(t *testing.T) {
	fake := &fakeOrchestrator{tasks: []*domain.TaskExecution{task("t-9", domain.TaskKindDaily, domain.TaskStatusCompleted)}}

	out, err := execute(t, fake, "retry-failed")

	require.NoError(t, err)
	assert.Contains(t, out, `"id": "t-9"`)
}

func TestStatus_Lista(t *testing.T) {
	fake := &fakeOrchestrator{tasks: []*domain.TaskExecution{task("t-1", domain.TaskKindDaily, domain.TaskStatusFailed)}}

	out, err := execute(t, fake, "status", "--status", "failed", "--kind", "daily", "--limit", "5")

	require.NoError(t, err)
	require.NotNil(t, fake.filter.Status)
	require.NotNil(t, fake.filter.Kind)
	assert.Equal(t, domain.TaskStatusFailed, *fake.filter.Status)
	assert.Equal(t, domain.TaskKindDaily, *fake.filter.Kind)
	assert.Equal(t, uint64(5), fake.filter.Limit)
	assert.Contains(t, out, "t-1  2025-01-15")
}

func TestStatus_Vazio(t *testing.T) {
	out, err := execute(t, &fakeOrchestrator{}, "status")

	require.NoError(t, err)
	assert.Contains(t, out, "Nenhuma execução encontrada")
}

func TestStatus_PorID(t *testing.T) {
	out, err := execute(t, &fakeOrchestrator{}, "status", "t-42")

	require.NoError(t, err)
	assert.Contains(t, out, `"id": "t-42"`)
}

func TestStatus_NaoEncontrada(t *testing.T) {
	_, err := execute(t, &fakeOrchestrator{err: scheduler.ErrTaskNotFound}, "status", "nope")

	assert.True(t, errors.Is(err, scheduler.ErrTaskNotFound))
}
