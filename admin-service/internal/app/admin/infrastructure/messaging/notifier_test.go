package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"catalogadmin/admin-service/internal/app/admin/entity"
	"catalogadmin/admin-service/internal/app/admin/mocks"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeWriter запоминает отправленные сообщения
type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaNotifier_Notify(t *testing.T) {
	// Arrange
	writer := &fakeWriter{}
	notifier := NewKafkaNotifierWithWriter(writer, "admin_notifications")
	n := entity.NewNotification("Success add new Item", entity.NotificationSuccess)

	// Act
	err := notifier.Notify(context.Background(), n)

	// Assert
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, n.ID.String(), string(msg.Key))

	var decoded entity.Notification
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, n.ID, decoded.ID)
	assert.Equal(t, "Success add new Item", decoded.Message)
	assert.Equal(t, entity.NotificationSuccess, decoded.Status)
}

func TestKafkaNotifier_WriteError(t *testing.T) {
	writer := &fakeWriter{err: errors.New("broker unavailable")}
	notifier := NewKafkaNotifierWithWriter(writer, "admin_notifications")

	err := notifier.Notify(context.Background(), entity.NewNotification("boom", entity.NotificationError))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unavailable")
}

func TestKafkaNotifier_Close(t *testing.T) {
	writer := &fakeWriter{}

	require.NoError(t, NewKafkaNotifierWithWriter(writer, "t").Close())
	assert.True(t, writer.closed)
}

func TestLogNotifier(t *testing.T) {
	notifier := NewLogNotifier()

	assert.NoError(t, notifier.Notify(context.Background(), entity.NewNotification("ok", entity.NotificationSuccess)))
	assert.NoError(t, notifier.Notify(context.Background(), entity.NewNotification("fail", entity.NotificationError)))
	assert.NoError(t, notifier.Close())
}

func TestMultiNotifier_DeliversToAll(t *testing.T) {
	// Arrange
	failing := new(mocks.MockNotifier)
	healthy := new(mocks.MockNotifier)
	n := entity.NewNotification("Success delete Item", entity.NotificationSuccess)

	failing.On("Notify", mock.Anything, n).Return(errors.New("kafka down"))
	healthy.On("Notify", mock.Anything, n).Return(nil)

	// Act
	err := NewMultiNotifier(failing, healthy).Notify(context.Background(), n)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kafka down")
	failing.AssertExpectations(t)
	healthy.AssertExpectations(t)
}

func TestMultiNotifier_Close(t *testing.T) {
	first := new(mocks.MockNotifier)
	second := new(mocks.MockNotifier)
	closeErr := errors.New("close failed")
	first.On("Close").Return(closeErr)
	second.On("Close").Return(nil)

	err := NewMultiNotifier(first, second).Close()

	assert.ErrorIs(t, err, closeErr)
	second.AssertExpectations(t)
}
