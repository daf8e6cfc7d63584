package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/infrastructure/notifier"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/infrastructure/repository"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/config"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/domain"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/usecases/aggregating"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/usecases/validating"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/pkg/log"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/pkg/metrics"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/pkg/utils"
)

// SnapshotSyncConfig representa a configuração do orquestrador de snapshots
type SnapshotSyncConfig struct {
	SyncEnabled       bool
	CronSchedule      string
	RetryCronSchedule string
	BackfillDelay     time.Duration
	BackfillMaxDays   int
	MaxRetries        int
	RetryDelay        time.Duration
	RetryRetention    time.Duration
	QualityThreshold  float64
}

// SchedulerStatus resume o estado do agendador para a superfície de disparo
type SchedulerStatus struct {
	SyncEnabled      bool       `json:"sync_enabled"`
	SyncCron         string     `json:"sync_cron"`
	RetryCron        string     `json:"retry_cron"`
	Timezone         string     `json:"timezone"`
	Running          bool       `json:"running"`
	ActiveDates      []string   `json:"active_dates"`
	LastTaskID       string     `json:"last_task_id,omitempty"`
	LastRunStartedAt *time.Time `json:"last_run_started_at,omitempty"`
	LastRunEndedAt   *time.Time `json:"last_run_ended_at,omitempty"`
}

// SnapshotSyncService orquestra agregação, validação, persistência e notificação
// de cada data alvo, seja por cron, disparo manual, backfill ou retry
type SnapshotSyncService struct {
	scheduler *gocron.Scheduler
	config    SnapshotSyncConfig
	location  *time.Location

	generator    aggregating.SnapshotGenerator
	validator    validating.QualityValidator
	snapshotRepo repository.SnapshotRepository
	taskRepo     repository.TaskExecutionRepository
	notifier     notifier.Notifier
	metrics      *metrics.Collector

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	datesMutex  sync.Mutex
	activeDates map[string]bool

	statusMutex      sync.Mutex
	lastTaskID       string
	lastRunStartedAt time.Time
	lastRunEndedAt   time.Time
}

// NewSnapshotSyncService cria o orquestrador com um agendador próprio no fuso configurado
func NewSnapshotSyncService(
	generator aggregating.SnapshotGenerator,
	validator validating.QualityValidator,
	snapshotRepo repository.SnapshotRepository,
	taskRepo repository.TaskExecutionRepository,
	taskNotifier notifier.Notifier,
	collector *metrics.Collector,
	appConfig *config.Config,
) (*SnapshotSyncService, error) {
	location, err := appConfig.Location()
	if err != nil {
		return nil, err
	}

	syncConfig := SnapshotSyncConfig{
		SyncEnabled:       appConfig.SnapshotSync.Enabled,
		CronSchedule:      appConfig.SnapshotSync.CronSchedule,
		RetryCronSchedule: appConfig.SnapshotSync.RetryCronSchedule,
		BackfillDelay:     time.Duration(appConfig.SnapshotSync.BackfillDelaySeconds) * time.Second,
		BackfillMaxDays:   appConfig.SnapshotSync.BackfillMaxDays,
		MaxRetries:        appConfig.SnapshotSync.MaxRetries,
		RetryDelay:        appConfig.SnapshotSync.RetryDelay,
		RetryRetention:    appConfig.SnapshotSync.RetryRetention,
		QualityThreshold:  appConfig.SnapshotSync.QualityThreshold,
	}

	if taskNotifier == nil {
		taskNotifier = notifier.NewLogNotifier()
	}
	if collector == nil {
		collector = metrics.NewCollector()
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":     syncConfig.CronSchedule,
		"retry_cron":        syncConfig.RetryCronSchedule,
		"timezone":          location.String(),
		"backfill_max_days": syncConfig.BackfillMaxDays,
		"max_retries":       syncConfig.MaxRetries,
		"retry_delay":       syncConfig.RetryDelay.String(),
		"quality_threshold": syncConfig.QualityThreshold,
		"sync_enabled":      syncConfig.SyncEnabled,
	}).Info("Configuração do orquestrador de snapshots carregada")

	return &SnapshotSyncService{
		scheduler:    gocron.NewScheduler(location),
		config:       syncConfig,
		location:     location,
		generator:    generator,
		validator:    validator,
		snapshotRepo: snapshotRepo,
		taskRepo:     taskRepo,
		notifier:     taskNotifier,
		metrics:      collector,
		now:          time.Now,
		sleep:        sleepContext,
		activeDates:  make(map[string]bool),
	}, nil
}

// Start agenda a execução diária e a rodada de retry
func (s *SnapshotSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Sincronização de snapshots desabilitada por configuração")
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"cron":       s.config.CronSchedule,
		"retry_cron": s.config.RetryCronSchedule,
	}).Info("Iniciando agendador de snapshots")

	_, err := s.scheduler.Cron(s.config.CronSchedule).SingletonMode().Do(func() {
		if _, err := s.RunDaily(ctx); err != nil {
			logrus.WithError(err).Error("Execução diária de snapshots falhou")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar execução diária de snapshots: %w", err)
	}

	_, err = s.scheduler.Cron(s.config.RetryCronSchedule).SingletonMode().Do(func() {
		if _, err := s.RetryFailedTasks(ctx); err != nil {
			logrus.WithError(err).Error("Rodada de retry de snapshots falhou")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar retry de snapshots: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop interrompe o agendador; execuções em andamento terminam normalmente
func (s *SnapshotSyncService) Stop() {
	if s.scheduler.IsRunning() {
		logrus.Info("Parando agendador de snapshots")
		s.scheduler.Stop()
	}
}

// RunDaily processa T-1 no fuso configurado
func (s *SnapshotSyncService) RunDaily(ctx context.Context) (*domain.TaskExecution, error) {
	return s.run(ctx, domain.TaskKindDaily, utils.Yesterday(s.now(), s.location), nil)
}

// RunManual processa a data informada de forma síncrona
func (s *SnapshotSyncService) RunManual(ctx context.Context, targetDate time.Time) (*domain.TaskExecution, error) {
	return s.run(ctx, domain.TaskKindManual, domain.DateOnly(targetDate), nil)
}

// RunBackfill processa o intervalo em ordem crescente, com pausa entre os dias.
// A falha de um dia não interrompe os demais.
func (s *SnapshotSyncService) RunBackfill(ctx context.Context, start, end time.Time) ([]*domain.TaskExecution, error) {
	start, end = domain.DateOnly(start), domain.DateOnly(end)
	if err := s.CheckBackfillRange(start, end); err != nil {
		return nil, err
	}

	dates := utils.DateRange(start, end)
	tasks := make([]*domain.TaskExecution, 0, len(dates))
	var failed int

	logrus.WithFields(logrus.Fields{
		"start_date": start.Format(time.DateOnly),
		"end_date":   end.Format(time.DateOnly),
		"days":       len(dates),
	}).Info("Iniciando backfill de snapshots")

	for i, date := range dates {
		if i > 0 {
			if err := s.sleep(ctx, s.config.BackfillDelay); err != nil {
				return tasks, errors.Wrap(err, "backfill interrompido")
			}
		}

		task, err := s.run(ctx, domain.TaskKindBackfill, date, nil)
		if task == nil && err != nil {
			task = s.rejectedTask(domain.TaskKindBackfill, date, err)
		}
		tasks = append(tasks, task)
		if err != nil {
			failed++
			logrus.WithError(err).WithField("target_date", date.Format(time.DateOnly)).Warn("Dia do backfill falhou, seguindo para o próximo")
		}
	}

	logrus.WithFields(logrus.Fields{
		"start_date": start.Format(time.DateOnly),
		"end_date":   end.Format(time.DateOnly),
		"days":       len(dates),
		"failed":     failed,
	}).Info("Backfill de snapshots concluído")

	return tasks, nil
}

// CheckBackfillRange valida o intervalo antes de um disparo assíncrono
func (s *SnapshotSyncService) CheckBackfillRange(start, end time.Time) error {
	start, end = domain.DateOnly(start), domain.DateOnly(end)

	if end.Before(start) {
		return fmt.Errorf("%w: início %s depois do fim %s", ErrInvalidDateRange,
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	if days := utils.DaysBetween(start, end); s.config.BackfillMaxDays > 0 && days > s.config.BackfillMaxDays {
		return fmt.Errorf("%w: %d dias excede o limite de %d", ErrInvalidDateRange, days, s.config.BackfillMaxDays)
	}

	return nil
}

// RetryFailedTasks reprocessa as execuções com falha dentro da janela de retenção
// cujo intervalo de espera já passou
func (s *SnapshotSyncService) RetryFailedTasks(ctx context.Context) ([]*domain.TaskExecution, error) {
	now := s.now()
	candidates, err := s.taskRepo.ListRetryable(ctx, s.config.MaxRetries, now.Add(-s.config.RetryRetention))
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar execuções para retry")
	}

	retried := make([]*domain.TaskExecution, 0, len(candidates))
	for _, task := range candidates {
		if task.EndedAt != nil && task.EndedAt.Add(s.config.RetryDelay).After(now) {
			continue
		}

		if err := s.retry(ctx, task); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"task_id":     task.ID,
				"target_date": task.TargetDate.Format(time.DateOnly),
				"retry_count": task.RetryCount,
			}).Warn("Retry de snapshot falhou")
		}
		retried = append(retried, task)
	}

	if len(retried) > 0 {
		logrus.WithFields(logrus.Fields{
			"candidates": len(candidates),
			"retried":    len(retried),
		}).Info("Rodada de retry de snapshots concluída")
	}

	return retried, nil
}

// RetryTask reprocessa manualmente uma execução com falha. Se as tentativas
// automáticas se esgotaram, cria uma nova execução ligada à original.
func (s *SnapshotSyncService) RetryTask(ctx context.Context, id string) (*domain.TaskExecution, error) {
	task, err := s.GetTaskStatus(ctx, id)
	if err != nil {
		return nil, err
	}

	if task.Status != domain.TaskStatusFailed {
		return nil, fmt.Errorf("%w: status atual %s", ErrTaskNotRetryable, task.Status)
	}

	if task.RetryCount < s.config.MaxRetries {
		return task, s.retry(ctx, task)
	}

	parentID := task.ID
	return s.run(ctx, domain.TaskKindRetry, task.TargetDate, &parentID)
}

// GetTaskStatus busca uma execução pelo id
func (s *SnapshotSyncService) GetTaskStatus(ctx context.Context, id string) (*domain.TaskExecution, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar execução")
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// ListTasks lista as execuções mais recentes
func (s *SnapshotSyncService) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]*domain.TaskExecution, error) {
	tasks, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar execuções")
	}
	return tasks, nil
}

// GetStatus retorna o estado atual do agendador
func (s *SnapshotSyncService) GetStatus() SchedulerStatus {
	status := SchedulerStatus{
		SyncEnabled: s.config.SyncEnabled,
		SyncCron:    s.config.CronSchedule,
		RetryCron:   s.config.RetryCronSchedule,
		Timezone:    s.location.String(),
		Running:     s.scheduler.IsRunning(),
		ActiveDates: []string{},
	}

	s.datesMutex.Lock()
	for date := range s.activeDates {
		status.ActiveDates = append(status.ActiveDates, date)
	}
	s.datesMutex.Unlock()

	s.statusMutex.Lock()
	status.LastTaskID = s.lastTaskID
	if !s.lastRunStartedAt.IsZero() {
		started := s.lastRunStartedAt
		status.LastRunStartedAt = &started
	}
	if !s.lastRunEndedAt.IsZero() {
		ended := s.lastRunEndedAt
		status.LastRunEndedAt = &ended
	}
	s.statusMutex.Unlock()

	return status
}

// run cria uma execução nova para a data e a executa
func (s *SnapshotSyncService) run(ctx context.Context, kind domain.TaskKind, targetDate time.Time, parentID *string) (*domain.TaskExecution, error) {
	release, ok := s.lockDate(targetDate)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTaskInProgress, targetDate.Format(time.DateOnly))
	}
	defer release()

	now := s.now()
	task := &domain.TaskExecution{
		ID:           uuid.New().String(),
		Kind:         kind,
		TargetDate:   targetDate,
		Status:       domain.TaskStatusPending,
		ParentTaskID: parentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, errors.Wrap(err, "erro ao registrar execução")
	}

	return task, s.execute(ctx, task)
}

// rejectedTask representa um dia que não chegou a rodar (data ocupada ou falha ao registrar).
// Não é gravada; serve para o resultado do backfill ter uma entrada por dia.
func (s *SnapshotSyncService) rejectedTask(kind domain.TaskKind, targetDate time.Time, err error) *domain.TaskExecution {
	now := s.now()
	return &domain.TaskExecution{
		ID:           uuid.New().String(),
		Kind:         kind,
		TargetDate:   targetDate,
		Status:       domain.TaskStatusFailed,
		EndedAt:      &now,
		ErrorMessage: err.Error(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// retry leva uma execução com falha de volta ao pipeline: failed -> retrying -> running
func (s *SnapshotSyncService) retry(ctx context.Context, task *domain.TaskExecution) error {
	release, ok := s.lockDate(task.TargetDate)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskInProgress, task.TargetDate.Format(time.DateOnly))
	}
	defer release()

	if err := task.Transition(domain.TaskStatusRetrying, s.now()); err != nil {
		return err
	}
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return errors.Wrap(err, "erro ao atualizar execução")
	}

	return s.execute(ctx, task)
}

// execute roda o pipeline e registra o estado final da execução
func (s *SnapshotSyncService) execute(ctx context.Context, task *domain.TaskExecution) error {
	ctx = log.WithTaskID(ctx, task.ID)
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"kind":        task.Kind,
		"target_date": task.TargetDate.Format(time.DateOnly),
		"retry_count": task.RetryCount,
	})

	if err := task.Transition(domain.TaskStatusRunning, s.now()); err != nil {
		return err
	}
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return errors.Wrap(err, "erro ao atualizar execução")
	}

	s.statusMutex.Lock()
	s.lastTaskID = task.ID
	s.lastRunStartedAt = *task.StartedAt
	s.statusMutex.Unlock()

	logger.Info("Iniciando pipeline de snapshots")

	done := s.metrics.Track(metrics.OpPipeline)
	pipelineErr := s.runPipeline(ctx, task)
	done(pipelineErr)

	finalStatus := domain.TaskStatusCompleted
	if pipelineErr != nil {
		finalStatus = domain.TaskStatusFailed
		task.ErrorMessage = pipelineErr.Error()
	}
	if err := task.Transition(finalStatus, s.now()); err != nil {
		return err
	}

	s.statusMutex.Lock()
	s.lastRunEndedAt = *task.EndedAt
	s.statusMutex.Unlock()

	// O contexto da requisição pode ter expirado; o estado final ainda precisa ser gravado
	if err := s.taskRepo.Update(context.WithoutCancel(ctx), task); err != nil {
		logger.WithError(err).Error("Erro ao gravar estado final da execução")
	}

	s.metrics.TaskFinished(string(task.Kind), string(task.Status))
	s.notify(ctx, task)

	fields := log.Fields{
		"status":            task.Status,
		"records_processed": task.RecordsProcessed,
		"quality_score":     task.QualityScore,
		"duration_ms":       task.EndedAt.Sub(*task.StartedAt).Milliseconds(),
	}
	if pipelineErr != nil {
		logger.WithFields(fields).WithError(pipelineErr).Error("Pipeline de snapshots falhou")
		return pipelineErr
	}
	logger.WithFields(fields).Info("Pipeline de snapshots concluído")

	return nil
}

// runPipeline agrega, valida, aplica o controle de qualidade e persiste
func (s *SnapshotSyncService) runPipeline(ctx context.Context, task *domain.TaskExecution) error {
	done := s.metrics.Track(metrics.OpAggregate)
	snapshots, err := s.generator.GenerateSnapshots(ctx, task.TargetDate)
	done(err)
	if err != nil {
		return errors.Wrap(err, "falha na agregação")
	}

	done = s.metrics.Track(metrics.OpValidate)
	report, fixed, err := s.validator.ValidateAndFix(ctx, snapshots, task.TargetDate)
	done(err)
	if err != nil {
		return errors.Wrap(err, "falha na validação")
	}

	task.Report = report
	task.QualityScore = report.Score
	s.metrics.SetQualityScore(report.Score)

	if report.Status == domain.ValidationStatusFailed || report.Score < s.config.QualityThreshold {
		return &QualityGateError{
			Status:    report.Status,
			Score:     report.Score,
			Threshold: s.config.QualityThreshold,
		}
	}

	done = s.metrics.Track(metrics.OpPersist)
	written, err := s.snapshotRepo.UpsertBatch(ctx, fixed)
	done(err)
	if err != nil {
		return errors.Wrap(err, "falha na persistência")
	}

	task.RecordsProcessed = written
	s.metrics.AddRecordsPersisted(written)

	return nil
}

// notify envia o resumo da execução; falhas de entrega não alteram o resultado
func (s *SnapshotSyncService) notify(ctx context.Context, task *domain.TaskExecution) {
	done := s.metrics.Track(metrics.OpNotify)
	err := s.notifier.Notify(context.WithoutCancel(ctx), domain.NewTaskNotification(task, s.now()))
	done(err)
	if err != nil {
		log.ForContext(ctx).WithError(err).Warn("Erro ao notificar resultado da execução")
	}
}

// lockDate garante uma única execução por data alvo
func (s *SnapshotSyncService) lockDate(date time.Time) (func(), bool) {
	key := date.Format(time.DateOnly)

	s.datesMutex.Lock()
	defer s.datesMutex.Unlock()

	if s.activeDates[key] {
		return nil, false
	}
	s.activeDates[key] = true

	return func() {
		s.datesMutex.Lock()
		delete(s.activeDates, key)
		s.datesMutex.Unlock()
	}, true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
