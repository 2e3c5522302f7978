package domain

import "context"

type MailKind string

const (
	MailActivation   MailKind = "activation"
	MailStatusChange MailKind = "status_change"
)

// MailMessage is a template-addressed email; rendering happens at delivery time.
type MailMessage struct {
	To   string            `json:"to"`
	Kind MailKind          `json:"kind"`
	Data map[string]string `json:"data"`
}

type Mailer interface {
	Dispatch(ctx context.Context, msg MailMessage) error
}

// TaskRunner runs best-effort work detached from the caller. Failures are logged, never returned.
type TaskRunner interface {
	Go(name string, fn func(ctx context.Context) error)
}
