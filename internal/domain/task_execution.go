package domain

import (
	"fmt"
	"time"
)

type TaskKind string

const (
	TaskKindDaily    TaskKind = "daily"
	TaskKindManual   TaskKind = "manual"
	TaskKindBackfill TaskKind = "backfill"
	TaskKindRetry    TaskKind = "retry"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
	TaskStatusRetrying  TaskStatus = "retrying"
)

var allowedTransitions = map[TaskStatus][]TaskStatus{
	TaskStatusPending:  {TaskStatusRunning, TaskStatusFailed},
	TaskStatusRunning:  {TaskStatusCompleted, TaskStatusFailed},
	TaskStatusFailed:   {TaskStatusRetrying},
	TaskStatusRetrying: {TaskStatusRunning, TaskStatusFailed},
}

// TaskExecution representa uma execução do pipeline para uma data alvo
type TaskExecution struct {
	ID               string             `json:"id"`
	Kind             TaskKind           `json:"kind"`
	TargetDate       time.Time          `json:"target_date"`
	Status           TaskStatus         `json:"status"`
	StartedAt        *time.Time         `json:"started_at,omitempty"`
	EndedAt          *time.Time         `json:"ended_at,omitempty"`
	RecordsProcessed int                `json:"records_processed"`
	ErrorMessage     string             `json:"error_message,omitempty"`
	RetryCount       int                `json:"retry_count"`
	QualityScore     float64            `json:"quality_score"`
	ParentTaskID     *string            `json:"parent_task_id,omitempty"`
	Report           *ConsistencyReport `json:"report,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// Transition aplica uma mudança de status respeitando a máquina de estados
func (t *TaskExecution) Transition(to TaskStatus, at time.Time) error {
	allowed := false
	for _, s := range allowedTransitions[t.Status] {
		if s == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("transição de status inválida: %s -> %s", t.Status, to)
	}

	switch to {
	case TaskStatusRunning:
		started := at
		t.StartedAt = &started
		t.EndedAt = nil
		t.ErrorMessage = ""
		t.RecordsProcessed = 0
		t.QualityScore = 0
		t.Report = nil
	case TaskStatusCompleted, TaskStatusFailed:
		ended := at
		t.EndedAt = &ended
	case TaskStatusRetrying:
		t.RetryCount++
	}

	t.Status = to
	t.UpdatedAt = at
	return nil
}

// IsFinished indica se a tarefa está em um estado terminal
func (t *TaskExecution) IsFinished() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusFailed
}

// TaskFilter restringe a listagem de execuções
type TaskFilter struct {
	Status     *TaskStatus
	Kind       *TaskKind
	TargetDate *time.Time
	Limit      uint64
}

// TaskNotification é o resumo enviado ao canal de notificação ao fim de uma tarefa
type TaskNotification struct {
	TaskID           string           `json:"task_id"`
	Kind             TaskKind         `json:"kind"`
	TargetDate       string           `json:"target_date"`
	Status           TaskStatus       `json:"status"`
	Success          bool             `json:"success"`
	RecordsProcessed int              `json:"records_processed"`
	QualityScore     float64          `json:"quality_score"`
	ValidationStatus ValidationStatus `json:"validation_status,omitempty"`
	RetryCount       int              `json:"retry_count"`
	ErrorMessage     string           `json:"error_message,omitempty"`
	OccurredAt       time.Time        `json:"occurred_at"`
}

// NewTaskNotification monta o resumo a partir do estado final da tarefa
func NewTaskNotification(task *TaskExecution, at time.Time) TaskNotification {
	n := TaskNotification{
		TaskID:           task.ID,
		Kind:             task.Kind,
		TargetDate:       task.TargetDate.Format(time.DateOnly),
		Status:           task.Status,
		Success:          task.Status == TaskStatusCompleted,
		RecordsProcessed: task.RecordsProcessed,
		QualityScore:     task.QualityScore,
		RetryCount:       task.RetryCount,
		ErrorMessage:     task.ErrorMessage,
		OccurredAt:       at,
	}
	if task.Report != nil {
		n.ValidationStatus = task.Report.Status
	}
	return n
}
