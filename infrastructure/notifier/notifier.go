// Package notifier entrega o resumo de cada execução do pipeline aos canais configurados.
package notifier

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/domain"
)

// Notifier recebe o resumo final de uma execução
type Notifier interface {
	Notify(ctx context.Context, notification domain.TaskNotification) error
}

// LogNotifier registra o resumo no log da aplicação
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(_ context.Context, notification domain.TaskNotification) error {
	entry := logrus.WithFields(logrus.Fields{
		"task_id":           notification.TaskID,
		"kind":              notification.Kind,
		"target_date":       notification.TargetDate,
		"status":            notification.Status,
		"records_processed": notification.RecordsProcessed,
		"quality_score":     notification.QualityScore,
		"retry_count":       notification.RetryCount,
	})

	if notification.Success {
		entry.Info("Snapshots gerados com sucesso")
		return nil
	}

	entry.WithField("error", notification.ErrorMessage).Warn("Falha na geração de snapshots")
	return nil
}

// MultiNotifier repassa o resumo a todos os canais, mesmo quando algum falha
type MultiNotifier struct {
	notifiers []Notifier
}

func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	active := make([]Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			active = append(active, n)
		}
	}
	return &MultiNotifier{notifiers: active}
}

func (m *MultiNotifier) Notify(ctx context.Context, notification domain.TaskNotification) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, notification); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
