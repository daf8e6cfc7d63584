// Package bootstrap monta as dependências compartilhadas pela API e pelo snapshotctl.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/infrastructure/database/postgres"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/infrastructure/notifier"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/infrastructure/repository"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/config"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/scheduler"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/usecases/aggregating"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/usecases/validating"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/pkg/metrics"
)

// App reúne as dependências de uma instância do serviço
type App struct {
	Config       *config.Config
	DB           *postgres.Connection
	Metrics      *metrics.Collector
	Orchestrator *scheduler.SnapshotSyncService

	closers []func() error
}

// New conecta ao banco e monta o pipeline completo
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("erro ao conectar ao PostgreSQL: %w", err)
	}

	app := &App{
		Config:  cfg,
		DB:      conn,
		closers: []func() error{conn.Close},
	}

	app.Metrics = metrics.NewCollector(
		metrics.WithNamespace(cfg.Metrics.Namespace),
		metrics.WithBufferSize(cfg.Metrics.BufferSize),
	)

	taskNotifier, err := app.buildNotifier()
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	sourceRepo := repository.NewSourceRecordRepository(conn)
	snapshotRepo := repository.NewSnapshotRepository(conn, cfg.SnapshotSync.UpsertBatchSize)
	taskRepo := repository.NewTaskExecutionRepository(conn)

	opts := validating.OptionsFromConfig(cfg)
	generator := aggregating.NewService(sourceRepo, opts.Policy, cfg.SnapshotSync.MaxConcurrentJobs)
	validator := validating.NewService(sourceRepo, opts)

	app.Orchestrator, err = scheduler.NewSnapshotSyncService(
		generator,
		validator,
		snapshotRepo,
		taskRepo,
		taskNotifier,
		app.Metrics,
		cfg,
	)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	return app, nil
}

// buildNotifier combina os canais configurados; o log está sempre presente
func (a *App) buildNotifier() (notifier.Notifier, error) {
	cfg := a.Config.Notification
	sinks := []notifier.Notifier{notifier.NewLogNotifier()}

	if cfg.WebhookURL != "" {
		sinks = append(sinks, notifier.NewWebhookNotifier(cfg.WebhookURL, cfg.WebhookTimeout))
		logrus.WithField("url", cfg.WebhookURL).Info("Notificação por webhook habilitada")
	}

	if len(cfg.KafkaBrokers) > 0 {
		kafkaNotifier, err := notifier.NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return nil, fmt.Errorf("erro ao configurar notificação via Kafka: %w", err)
		}
		a.closers = append(a.closers, kafkaNotifier.Close)
		sinks = append(sinks, kafkaNotifier)
		logrus.WithFields(logrus.Fields{
			"brokers": cfg.KafkaBrokers,
			"topic":   cfg.KafkaTopic,
		}).Info("Notificação via Kafka habilitada")
	}

	return notifier.NewMultiNotifier(sinks...), nil
}

// Close libera conexões na ordem inversa de criação
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
