package notification

import (
	"context"
	"errors"
	"testing"

	"go-jobboard-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishJSON(ctx context.Context, v any) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

type MockDeliverer struct {
	mock.Mock
}

func (m *MockDeliverer) Deliver(msg domain.MailMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

func TestQueueMailer_Dispatch(t *testing.T) {
	msg := domain.MailMessage{To: "a@example.com", Kind: domain.MailActivation, Data: map[string]string{"name": "A"}}

	t.Run("publishes the message as is", func(t *testing.T) {
		pub := new(MockPublisher)
		pub.On("PublishJSON", mock.Anything, msg).Return(nil)

		err := NewQueueMailer(pub).Dispatch(context.Background(), msg)

		assert.NoError(t, err)
		pub.AssertExpectations(t)
	})

	t.Run("returns broker errors", func(t *testing.T) {
		pub := new(MockPublisher)
		pub.On("PublishJSON", mock.Anything, msg).Return(errors.New("channel closed"))

		err := NewQueueMailer(pub).Dispatch(context.Background(), msg)

		assert.EqualError(t, err, "channel closed")
	})
}

func TestSMTPMailer_Dispatch(t *testing.T) {
	msg := domain.MailMessage{To: "a@example.com", Kind: domain.MailStatusChange}

	t.Run("delivers", func(t *testing.T) {
		svc := new(MockDeliverer)
		svc.On("Deliver", msg).Return(nil)

		assert.NoError(t, NewSMTPMailer(svc).Dispatch(context.Background(), msg))
		svc.AssertExpectations(t)
	})

	t.Run("skips delivery when the context is done", func(t *testing.T) {
		svc := new(MockDeliverer)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := NewSMTPMailer(svc).Dispatch(ctx, msg)

		assert.ErrorIs(t, err, context.Canceled)
		svc.AssertNotCalled(t, "Deliver", mock.Anything)
	})
}
