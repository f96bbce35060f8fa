package messaging

import (
	"context"

	"catalogadmin/admin-service/internal/app/admin/entity"
	"catalogadmin/pkg/logger"
	"catalogadmin/pkg/metrics"
)

// LogNotifier пишет уведомления в лог, используется когда Kafka не настроена
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(_ context.Context, notification entity.Notification) error {
	event := logger.Info()
	if notification.Status == entity.NotificationError {
		event = logger.Warn()
	}
	event.
		Str("notification_id", notification.ID.String()).
		Str("status", string(notification.Status)).
		Msg(notification.Message)

	metrics.NotificationsEmitted.WithLabelValues(string(notification.Status), "log").Inc()
	return nil
}

func (n *LogNotifier) Close() error {
	return nil
}
