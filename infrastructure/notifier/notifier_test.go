package notifier

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/infrastructure/notifier/mocks"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/domain"
)

func sampleNotification() domain.TaskNotification {
	return domain.TaskNotification{
		TaskID:           "task-1",
		Kind:             domain.TaskKindDaily,
		TargetDate:       "2025-01-15",
		Status:           domain.TaskStatusCompleted,
		Success:          true,
		RecordsProcessed: 8,
		QualityScore:     0.97,
		OccurredAt:       time.Date(2025, 1, 16, 2, 0, 0, 0, time.UTC),
	}
}

func TestWebhookNotifier_Notify(t *testing.T) {
	var received domain.TaskNotification
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, jsoniter.Unmarshal(body, &received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, time.Second)
	err := n.Notify(context.Background(), sampleNotification())

	require.NoError(t, err)
	assert.Equal(t, "task-1", received.TaskID)
	assert.Equal(t, 8, received.RecordsProcessed)
	assert.True(t, received.Success)
}

func TestWebhookNotifier_StatusDeErro(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, time.Second)
	err := n.Notify(context.Background(), sampleNotification())

	assert.ErrorContains(t, err, "500")
}

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaNotifier_Notify(t *testing.T) {
	writer := &fakeWriter{}
	n := newKafkaNotifierWithWriter(writer, "snapshot-task-events")

	require.NoError(t, n.Notify(context.Background(), sampleNotification()))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, "2025-01-15", string(msg.Key))
	assert.Equal(t, "task_id", msg.Headers[0].Key)
	assert.Equal(t, "task-1", string(msg.Headers[0].Value))

	var decoded domain.TaskNotification
	require.NoError(t, jsoniter.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, domain.TaskStatusCompleted, decoded.Status)

	require.NoError(t, n.Close())
	assert.True(t, writer.closed)
}

func TestKafkaNotifier_ErroDoBroker(t *testing.T) {
	writer := &fakeWriter{err: errors.New("broker indisponível")}
	n := newKafkaNotifierWithWriter(writer, "topico")

	err := n.Notify(context.Background(), sampleNotification())
	assert.ErrorContains(t, err, "broker indisponível")
}

func TestNewKafkaNotifier_ConfiguracaoInvalida(t *testing.T) {
	_, err := NewKafkaNotifier(nil, "topico")
	assert.Error(t, err)

	_, err = NewKafkaNotifier([]string{"localhost:9092"}, "")
	assert.Error(t, err)
}

func TestMultiNotifier_ContinuaAposFalha(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := mocks.NewMockNotifier(ctrl)
	second := mocks.NewMockNotifier(ctrl)

	notification := sampleNotification()
	first.EXPECT().Notify(gomock.Any(), notification).Return(errors.New("falhou"))
	second.EXPECT().Notify(gomock.Any(), notification).Return(nil)

	multi := NewMultiNotifier(first, nil, second)
	err := multi.Notify(context.Background(), notification)

	assert.ErrorContains(t, err, "falhou")
}

func TestLogNotifier_NuncaFalha(t *testing.T) {
	n := NewLogNotifier()
	failed := sampleNotification()
	failed.Success = false
	failed.Status = domain.TaskStatusFailed
	failed.ErrorMessage = "reprovado"

	assert.NoError(t, n.Notify(context.Background(), sampleNotification()))
	assert.NoError(t, n.Notify(context.Background(), failed))
}
