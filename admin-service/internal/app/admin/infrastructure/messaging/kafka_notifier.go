package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalogadmin/admin-service/internal/app/admin/entity"
	"catalogadmin/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

const serviceName = "admin-service"

// MessageWriter часть kafka.Writer, нужная для отправки (подменяется в тестах)
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier публикует уведомления в топик admin_notifications
// Ключ сообщения - ID уведомления
type KafkaNotifier struct {
	writer MessageWriter
	topic  string
}

// NewKafkaNotifier создает notifier поверх kafka.Writer
func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    1,
		BatchTimeout: 50 * time.Millisecond, // уведомления короткоживущие, батчи не копим
	}

	return &KafkaNotifier{writer: writer, topic: topic}
}

// NewKafkaNotifierWithWriter используется в тестах
func NewKafkaNotifierWithWriter(writer MessageWriter, topic string) *KafkaNotifier {
	return &KafkaNotifier{writer: writer, topic: topic}
}

func (n *KafkaNotifier) Notify(ctx context.Context, notification entity.Notification) error {
	timer := metrics.NewKafkaProduceTimer(serviceName, n.topic)

	value, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(notification.ID.String()),
		Value: value,
		Time:  notification.CreatedAt,
	}

	if err := n.writer.WriteMessages(ctx, message); err != nil {
		timer.Error()
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	timer.Success()
	metrics.NotificationsEmitted.WithLabelValues(string(notification.Status), "kafka").Inc()
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
