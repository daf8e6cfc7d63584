package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/api/handler/mocks"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/api/handler/router"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/domain"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/scheduler"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/usecases/aggregating"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/pkg/apiErrors"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/pkg/metrics"
)

func newTestRouter(orchestrator SnapshotOrchestrator, stats StatsProvider, db Pinger) http.Handler {
	return router.New(
		router.WithRoutes(Healthcheck(db)...),
		router.WithRoutes(Snapshots(orchestrator)...),
		router.WithRoutes(Tasks(orchestrator)...),
		router.WithRoutes(Scheduler(orchestrator, stats)...),
	)
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apiErrors.APIError {
	t.Helper()
	var apiErr apiErrors.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}

func completedTask(id string, date time.Time) *domain.TaskExecution {
	return &domain.TaskExecution{
		ID:               id,
		Kind:             domain.TaskKindManual,
		TargetDate:       date,
		Status:           domain.TaskStatusCompleted,
		RecordsProcessed: 40,
		QualityScore:     0.98,
	}
}

func TestRunManualSnapshot(t *testing.T) {
	target := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		query      string
		setup      func(m *mocks.MockSnapshotOrchestrator)
		wantStatus int
		wantCode   string
	}{
		{
			name:  "sucesso",
			query: "?date=2025-01-10",
			setup: func(m *mocks.MockSnapshotOrchestrator) {
				m.EXPECT().RunManual(gomock.Any(), target).Return(completedTask("t-1", target), nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "data ausente",
			query:      "",
			setup:      func(m *mocks.MockSnapshotOrchestrator) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrInvalidFormat,
		},
		{
			name:       "data mal formatada",
			query:      "?date=10/01/2025",
			setup:      func(m *mocks.MockSnapshotOrchestrator) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrInvalidFormat,
		},
		{
			name:  "lote reprovado no controle de qualidade",
			query: "?date=2025-01-10",
			setup: func(m *mocks.MockSnapshotOrchestrator) {
				task := completedTask("t-2", target)
				task.Status = domain.TaskStatusFailed
				m.EXPECT().RunManual(gomock.Any(), target).
					Return(task, &scheduler.QualityGateError{Status: domain.ValidationStatusFailed, Score: 0.4, Threshold: 0.8})
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   apiErrors.ErrQualityGate,
		},
		{
			name:  "data já em execução",
			query: "?date=2025-01-10",
			setup: func(m *mocks.MockSnapshotOrchestrator) {
				m.EXPECT().RunManual(gomock.Any(), target).
					Return(nil, fmt.Errorf("%w: 2025-01-10", scheduler.ErrTaskInProgress))
			},
			wantStatus: http.StatusConflict,
			wantCode:   apiErrors.ErrTaskInProgress,
		},
		{
			name:  "origem indisponível",
			query: "?date=2025-01-10",
			setup: func(m *mocks.MockSnapshotOrchestrator) {
				task := completedTask("t-3", target)
				task.Status = domain.TaskStatusFailed
				m.EXPECT().RunManual(gomock.Any(), target).
					Return(task, fmt.Errorf("falha na agregação: %w", aggregating.ErrSourceUnavailable))
			},
			wantStatus: http.StatusBadGateway,
			wantCode:   apiErrors.ErrExternalService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			orchestrator := mocks.NewMockSnapshotOrchestrator(ctrl)
			tt.setup(orchestrator)

			rec := do(t, newTestRouter(orchestrator, nil, nil), http.MethodPost, "/v1/snapshots/run"+tt.query)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
				return
			}

			var task domain.TaskExecution
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
			assert.Equal(t, "t-1", task.ID)
			assert.Equal(t, domain.TaskStatusCompleted, task.Status)
		})
	}
}

func TestRunDailySnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	orchestrator := mocks.NewMockSnapshotOrchestrator(ctrl)
	target := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	orchestrator.EXPECT().RunDaily(gomock.Any()).Return(completedTask("t-9", target), nil)

	rec := do(t, newTestRouter(orchestrator, nil, nil), http.MethodPost, "/v1/snapshots/daily")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"t-9"`)
}

func TestRunBackfillSnapshots(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

	t.Run("aceita e executa em segundo plano", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		orchestrator := mocks.NewMockSnapshotOrchestrator(ctrl)
		finished := make(chan struct{})

		orchestrator.EXPECT().CheckBackfillRange(start, end).Return(nil)
		orchestrator.EXPECT().RunBackfill(gomock.Any(), start, end).
			DoAndReturn(func(ctx context.Context, _, _ time.Time) ([]*domain.TaskExecution, error) {
				defer close(finished)
				assert.NoError(t, ctx.Err())
				return []*domain.TaskExecution{}, nil
			})

		rec := do(t, newTestRouter(orchestrator, nil, nil), http.MethodPost, "/v1/snapshots/backfill?start_date=2025-01-01&end_date=2025-01-05")

		assert.Equal(t, http.StatusAccepted, rec.Code)
		var body BackfillAccepted
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 5, body.Days)
		assert.Equal(t, "2025-01-01", body.StartDate)

		select {
		case <-finished:
		case <-time.After(2 * time.Second):
			t.Fatal("backfill não foi executado")
		}
	})

	t.Run("intervalo inválido", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		orchestrator := mocks.NewMockSnapshotOrchestrator(ctrl)
		orchestrator.EXPECT().CheckBackfillRange(end, start).
			Return(fmt.Errorf("%w: início depois do fim", scheduler.ErrInvalidDateRange))

		rec := do(t, newTestRouter(orchestrator, nil, nil), http.MethodPost, "/v1/snapshots/backfill?start_date=2025-01-05&end_date=2025-01-01")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apiErrors.ErrInvalidDateRange, decodeError(t, rec).Code)
	})

	t.Run("data final ausente", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		orchestrator := mocks.NewMockSnapshotOrchestrator(ctrl)

		rec := do(t, newTestRouter(orchestrator, nil, nil), http.MethodPost, "/v1/snapshots/backfill?start_date=2025-01-01")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apiErrors.ErrInvalidFormat, decodeError(t, rec).Code)
	})
}

func TestListTasks(t *testing.T) {
	t.Run("aplica filtros", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		orchestrator := mocks.NewMockSnapshotOrchestrator(ctrl)

		status := domain.TaskStatusFailed
		kind := domain.TaskKindBackfill
		date := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
		orchestrator.EXPECT().
			ListTasks(gomock.Any(), domain.TaskFilter{Status: &status, Kind: &kind, TargetDate: &date, Limit: 20}).
			Return([]*domain.TaskExecution{{ID: "t-1", Status: status, Kind: kind, TargetDate: date}}, nil)

		rec := do(t, newTestRouter(orchestrator, nil, nil), http.MethodGet, "/v1/tasks?status=failed&kind=backfill&date=2025-01-03&limit=20")

		assert.Equal(t, http.StatusOK, rec.Code)
		var body TaskList
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 1, body.Total)
		assert.Equal(t, "t-1", body.Tasks[0].ID)
	})

	for _, query := range []string{"?status=done", "?kind=hourly", "?limit=0", "?limit=abc", "?date=ontem"} {
		t.Run("filtro inválido "+query, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			orchestrator := mocks.NewMockSnapshotOrchestrator(ctrl)

			rec := do(t, newTestRouter(orchestrator, nil, nil), http.MethodGet, "/v1/tasks"+query)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, apiErrors.ErrInvalidRequest, decodeError(t, rec).Code)
		})
	}

	t.Run("erro do banco", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		orchestrator := mocks.NewMockSnapshotOrchestrator(ctrl)
		orchestrator.EXPECT().ListTasks(gomock.Any(), domain.TaskFilter{}).Return(nil, errors.New("conexão perdida"))

		rec := do(t, newTestRouter(orchestrator, nil, nil), http.MethodGet, "/v1/tasks")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, apiErrors.ErrDatabaseOperation, decodeError(t, rec).Code)
	})
}

func TestGetTask(t *testing.T) {
	ctrl := gomock.NewController(t)
	orchestrator := mocks.NewMockSnapshotOrchestrator(ctrl)
	target := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	orchestrator.EXPECT().GetTaskStatus(gomock.Any(), "t-1").Return(completedTask("t-1", target), nil)
	orchestrator.EXPECT().GetTaskStatus(gomock.Any(), "t-404").Return(nil, scheduler.ErrTaskNotFound)

	h := newTestRouter(orchestrator, nil, nil)

	rec := do(t, h, http.MethodGet, "/v1/tasks/t-1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"target_date":"2025-01-10T00:00:00Z"`)

	rec = do(t, h, http.MethodGet, "/v1/tasks/t-404")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apiErrors.ErrTaskNotFound, decodeError(t, rec).Code)
}

func TestRetryTask(t *testing.T) {
	ctrl := gomock.NewController(t)
	orchestrator := mocks.NewMockSnapshotOrchestrator(ctrl)
	target := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	retried := completedTask("t-2", target)
	retried.Kind = domain.TaskKindRetry
	orchestrator.EXPECT().RetryTask(gomock.Any(), "t-1").Return(retried, nil)
	orchestrator.EXPECT().RetryTask(gomock.Any(), "t-ok").
		Return(nil, fmt.Errorf("%w: status atual completed", scheduler.ErrTaskNotRetryable))

	h := newTestRouter(orchestrator, nil, nil)

	rec := do(t, h, http.MethodPost, "/v1/tasks/t-1/retry")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"retry"`)

	rec = do(t, h, http.MethodPost, "/v1/tasks/t-ok/retry")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, apiErrors.ErrTaskNotRetryable, decodeError(t, rec).Code)
}

func TestRetryFailedTasks(t *testing.T) {
	ctrl := gomock.NewController(t)
	orchestrator := mocks.NewMockSnapshotOrchestrator(ctrl)
	orchestrator.EXPECT().RetryFailedTasks(gomock.Any()).
		Return([]*domain.TaskExecution{{ID: "t-1"}, {ID: "t-2"}}, nil)

	rec := do(t, newTestRouter(orchestrator, nil, nil), http.MethodPost, "/v1/snapshots/retry-failed")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body TaskList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Total)
}

func TestGetSchedulerStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	orchestrator := mocks.NewMockSnapshotOrchestrator(ctrl)
	orchestrator.EXPECT().GetStatus().Return(scheduler.SchedulerStatus{
		SyncEnabled: true,
		SyncCron:    "0 2 * * *",
		Timezone:    "UTC",
		ActiveDates: []string{},
	})

	collector := metrics.NewCollector()
	collector.Observe(metrics.OpPipeline, 150*time.Millisecond, nil)

	rec := do(t, newTestRouter(orchestrator, collector, nil), http.MethodGet, "/v1/scheduler/status")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body schedulerStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Scheduler.SyncEnabled)
	require.Len(t, body.Operations, 1)
	assert.Equal(t, metrics.OpPipeline, body.Operations[0].Operation)
	assert.Equal(t, 1, body.Operations[0].Count)
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestHealthcheck(t *testing.T) {
	tests := []struct {
		name       string
		db         Pinger
		wantStatus int
		wantDB     string
	}{
		{name: "sem banco configurado", db: nil, wantStatus: http.StatusOK, wantDB: "unknown"},
		{name: "banco disponível", db: fakePinger{}, wantStatus: http.StatusOK, wantDB: "up"},
		{name: "banco fora do ar", db: fakePinger{err: errors.New("recusado")}, wantStatus: http.StatusServiceUnavailable, wantDB: "down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestRouter(nil, nil, tt.db), http.MethodGet, "/healthcheck")

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body healthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantDB, body.Database)
		})
	}
}

func TestRouter_RotaInexistente(t *testing.T) {
	rec := do(t, newTestRouter(nil, nil, nil), http.MethodGet, "/v1/nada")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apiErrors.ErrInvalidRequest, decodeError(t, rec).Code)

	rec = do(t, newTestRouter(nil, nil, nil), http.MethodDelete, "/v1/tasks")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
