package notifier

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/segmentio/kafka-go"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publica o resumo em um tópico, com a data alvo como chave
// para manter as execuções do mesmo dia na mesma partição
type KafkaNotifier struct {
	writer messageWriter
	topic  string
}

func NewKafkaNotifier(brokers []string, topic string) (*KafkaNotifier, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("ao menos um broker é obrigatório")
	}
	if topic == "" {
		return nil, fmt.Errorf("tópico de notificação não pode ser vazio")
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}

	return newKafkaNotifierWithWriter(writer, topic), nil
}

func newKafkaNotifierWithWriter(writer messageWriter, topic string) *KafkaNotifier {
	return &KafkaNotifier{writer: writer, topic: topic}
}

func (n *KafkaNotifier) Notify(ctx context.Context, notification domain.TaskNotification) error {
	value, err := jsoniter.Marshal(notification)
	if err != nil {
		return fmt.Errorf("erro ao serializar notificação: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(notification.TargetDate),
		Value: value,
		Time:  notification.OccurredAt,
		Headers: []kafka.Header{
			{Key: "task_id", Value: []byte(notification.TaskID)},
			{Key: "status", Value: []byte(notification.Status)},
		},
	}

	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("erro ao publicar no tópico %s: %w", n.topic, err)
	}

	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
