package messaging

import (
	"context"
	"errors"

	"catalogadmin/admin-service/internal/app/admin/entity"
	"catalogadmin/admin-service/internal/app/admin/infrastructure"
)

// MultiNotifier рассылает уведомление всем получателям
// Ошибка одного получателя не мешает остальным
type MultiNotifier struct {
	notifiers []infrastructure.Notifier
}

func NewMultiNotifier(notifiers ...infrastructure.Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

func (m *MultiNotifier) Notify(ctx context.Context, n entity.Notification) error {
	var errs []error
	for _, notifier := range m.notifiers {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiNotifier) Close() error {
	var errs []error
	for _, notifier := range m.notifiers {
		if err := notifier.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
