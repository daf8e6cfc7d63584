package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/bootstrap"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/config"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/domain"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/pkg/log"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/pkg/utils"
)

// version é definida no build via -ldflags
var version = "dev"

// orchestrator é a parte do SnapshotSyncService usada pelos comandos
type orchestrator interface {
	RunDaily(ctx context.Context) (*domain.TaskExecution, error)
	RunManual(ctx context.Context, targetDate time.Time) (*domain.TaskExecution, error)
	RunBackfill(ctx context.Context, start, end time.Time) ([]*domain.TaskExecution, error)
	RetryFailedTasks(ctx context.Context) ([]*domain.TaskExecution, error)
	RetryTask(ctx context.Context, id string) (*domain.TaskExecution, error)
	GetTaskStatus(ctx context.Context, id string) (*domain.TaskExecution, error)
	ListTasks(ctx context.Context, filter domain.TaskFilter) ([]*domain.TaskExecution, error)
}

// newOrchestrator monta o pipeline real; os testes substituem por um fake
var newOrchestrator = func(ctx context.Context) (orchestrator, func() error, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, err
	}
	log.Setup(cfg.App.LogLevel)

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return app.Orchestrator, app.Close, nil
}

var rootCmd = &cobra.Command{
	Use:   "snapshotctl",
	Short: "Dispara e acompanha o pipeline de snapshots de produtos",
	Long: "snapshotctl executa o pipeline de snapshots (agregação, validação e persistência)\n" +
		"fora do agendador e consulta o histórico de execuções.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(backfillCmd)
	rootCmd.AddCommand(retryFailedCmd)
	rootCmd.AddCommand(retryCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.Version = version
}

// withOrchestrator abre as dependências, executa fn e libera tudo ao final
func withOrchestrator(cmd *cobra.Command, fn func(ctx context.Context, o orchestrator) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, _ = log.WithCorrelationID(ctx)

	o, closeFn, err := newOrchestrator(ctx)
	if err != nil {
		return fmt.Errorf("inicializar: %w", err)
	}
	defer func() {
		if closeFn == nil {
			return
		}
		if err := closeFn(); err != nil {
			logrus.WithError(err).Warn("Erro ao liberar recursos")
		}
	}()

	return fn(ctx, o)
}

func printJSON(out io.Writer, v any) {
	fmt.Fprintln(out, utils.PrettyJson(v))
}

// printTaskResult imprime a execução e devolve o erro do pipeline, se houver
func printTaskResult(out io.Writer, task *domain.TaskExecution, err error) error {
	if task != nil {
		printJSON(out, task)
	}
	return err
}
