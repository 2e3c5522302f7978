package notification

import (
	"context"

	"go-jobboard-backend/internal/domain"
)

// Publisher is the queue side of pkg/messaging.
type Publisher interface {
	PublishJSON(ctx context.Context, v any) error
}

// Deliverer renders and sends a message synchronously.
type Deliverer interface {
	Deliver(msg domain.MailMessage) error
}

// QueueMailer hands messages to cmd/mailer through the broker.
type QueueMailer struct {
	pub Publisher
}

func NewQueueMailer(pub Publisher) *QueueMailer {
	return &QueueMailer{pub: pub}
}

func (m *QueueMailer) Dispatch(ctx context.Context, msg domain.MailMessage) error {
	return m.pub.PublishJSON(ctx, msg)
}

// SMTPMailer delivers in-process. Callers already run it off the request path.
type SMTPMailer struct {
	svc Deliverer
}

func NewSMTPMailer(svc Deliverer) *SMTPMailer {
	return &SMTPMailer{svc: svc}
}

func (m *SMTPMailer) Dispatch(ctx context.Context, msg domain.MailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.svc.Deliver(msg)
}
