package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/domain"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/pkg/utils"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Processa T-1 no fuso configurado",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withOrchestrator(cmd, func(ctx context.Context, o orchestrator) error {
			task, err := o.RunDaily(ctx)
			return printTaskResult(cmd.OutOrStdout(), task, err)
		})
	},
}

var runFlags struct {
	date string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Processa uma data específica",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		targetDate, err := utils.ParseRequiredDate(runFlags.date)
		if err != nil {
			return err
		}

		return withOrchestrator(cmd, func(ctx context.Context, o orchestrator) error {
			task, err := o.RunManual(ctx, targetDate)
			return printTaskResult(cmd.OutOrStdout(), task, err)
		})
	},
}

var backfillFlags struct {
	start string
	end   string
}

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Processa um intervalo de datas, um dia por vez",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		start, err := utils.ParseRequiredDate(backfillFlags.start)
		if err != nil {
			return fmt.Errorf("--start: %w", err)
		}
		end, err := utils.ParseRequiredDate(backfillFlags.end)
		if err != nil {
			return fmt.Errorf("--end: %w", err)
		}

		return withOrchestrator(cmd, func(ctx context.Context, o orchestrator) error {
			tasks, err := o.RunBackfill(ctx, start, end)
			if err != nil && len(tasks) == 0 {
				return err
			}

			out := cmd.OutOrStdout()
			var failed int
			for _, task := range tasks {
				status := string(task.Status)
				if task.Status == domain.TaskStatusFailed {
					failed++
					status += " (" + task.ErrorMessage + ")"
				}
				fmt.Fprintf(out, "%s  %-9s  registros=%d  nota=%.3f  %s\n",
					task.TargetDate.Format(utils.DateLayout), task.Kind, task.RecordsProcessed, task.QualityScore, status)
			}
			fmt.Fprintf(out, "%d dias processados, %d com falha\n", len(tasks), failed)

			if err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d dias do backfill falharam", failed)
			}
			return nil
		})
	},
}

var retryFailedCmd = &cobra.Command{
	Use:   "retry-failed",
	Short: "Reprocessa as execuções com falha elegíveis para retry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withOrchestrator(cmd, func(ctx context.Context, o orchestrator) error {
			tasks, err := o.RetryFailedTasks(ctx)
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), tasks)
			return nil
		})
	},
}

var retryCmd = &cobra.Command{
	Use:   "retry <task-id>",
	Short: "Reprocessa manualmente uma execução com falha",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOrchestrator(cmd, func(ctx context.Context, o orchestrator) error {
			task, err := o.RetryTask(ctx, args[0])
			return printTaskResult(cmd.OutOrStdout(), task, err)
		})
	},
}

var statusFlags struct {
	status string
	kind   string
	limit  uint64
}

var statusCmd = &cobra.Command{
	Use:   "status [task-id]",
	Short: "Mostra uma execução ou lista as mais recentes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOrchestrator(cmd, func(ctx context.Context, o orchestrator) error {
			if len(args) == 1 {
				task, err := o.GetTaskStatus(ctx, args[0])
				if err != nil {
					return err
				}
				printJSON(cmd.OutOrStdout(), task)
				return nil
			}

			tasks, err := o.ListTasks(ctx, taskFilter())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, task := range tasks {
				fmt.Fprintf(out, "%s  %s  %-9s  %-9s  tentativas=%d  nota=%.3f\n",
					task.ID, task.TargetDate.Format(utils.DateLayout), task.Kind, task.Status, task.RetryCount, task.QualityScore)
			}
			if len(tasks) == 0 {
				fmt.Fprintln(out, "Nenhuma execução encontrada")
			}
			return nil
		})
	},
}

func init() {
	runCmd.Flags().StringVar(&runFlags.date, "date", "", "Data alvo no formato YYYY-MM-DD (obrigatório)")
	_ = runCmd.MarkFlagRequired("date")

	f := backfillCmd.Flags()
	f.StringVar(&backfillFlags.start, "start", "", "Primeira data do intervalo (YYYY-MM-DD)")
	f.StringVar(&backfillFlags.end, "end", "", "Última data do intervalo (YYYY-MM-DD)")
	_ = backfillCmd.MarkFlagRequired("start")
	_ = backfillCmd.MarkFlagRequired("end")

	s := statusCmd.Flags()
	s.StringVar(&statusFlags.status, "status", "", "Filtra por status (pending, running, completed, failed, retrying)")
	s.StringVar(&statusFlags.kind, "kind", "", "Filtra por tipo (daily, manual, backfill, retry)")
	s.Uint64Var(&statusFlags.limit, "limit", 20, "Quantidade máxima de execuções")
}

func taskFilter() domain.TaskFilter {
	filter := domain.TaskFilter{Limit: statusFlags.limit}
	if statusFlags.status != "" {
		status := domain.TaskStatus(statusFlags.status)
		filter.Status = &status
	}
	if statusFlags.kind != "" {
		kind := domain.TaskKind(statusFlags.kind)
		filter.Kind = &kind
	}
	return filter
}
