package email

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"

	"go-jobboard-backend/config"
	"go-jobboard-backend/internal/domain"
)

// ErrUnknownTemplate is returned for a mail kind with no template; retrying will not help.
var ErrUnknownTemplate = errors.New("email: unknown template")

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService renders the transactional templates and sends them via SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	send      sendFunc
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPFromEmail,
		send:      smtp.SendMail,
	}
}

type mailTemplate struct {
	subject string
	body    *template.Template
}

const layoutStart = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .button { display: inline-block; padding: 10px 20px; background: #0066cc; color: white; text-decoration: none; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">`

const layoutEnd = `
        <div class="footer">
            <p>You are receiving this email because you have an account on the job board.</p>
        </div>
    </div>
</body>
</html>`

var templates = map[domain.MailKind]mailTemplate{
	domain.MailActivation: {
		subject: "Activate your account",
		body: template.Must(template.New("activation").Parse(layoutStart + `
        <div class="header"><h1>Welcome, {{.name}}</h1></div>
        <div class="content">
            <p>Please confirm your email address to activate your account.</p>
            <p><a class="button" href="{{.link}}">Activate account</a></p>
            <p>The link expires in 24 hours.</p>
        </div>` + layoutEnd)),
	},
	domain.MailStatusChange: {
		subject: "Your application status changed",
		body: template.Must(template.New("status_change").Parse(layoutStart + `
        <div class="header"><h1>Application update</h1></div>
        <div class="content">
            <p>Hi {{.name}},</p>
            <p>Your application for <strong>{{.job_title}}</strong> is now <strong>{{.status}}</strong>.</p>
        </div>` + layoutEnd)),
	},
}

// Render returns the subject and html body for msg.
func Render(msg domain.MailMessage) (string, string, error) {
	tmpl, ok := templates[msg.Kind]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownTemplate, msg.Kind)
	}

	var body bytes.Buffer
	if err := tmpl.body.Execute(&body, msg.Data); err != nil {
		return "", "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return tmpl.subject, body.String(), nil
}

// Deliver renders msg and sends it synchronously.
func (s *EmailService) Deliver(msg domain.MailMessage) error {
	subject, body, err := Render(msg)
	if err != nil {
		return err
	}
	return s.Send(msg.To, subject, body)
}

// Send sends one html email.
func (s *EmailService) Send(to, subject, html string) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		to,
		subject,
		html,
	))

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.send(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// IsConfigured checks if the email service has an SMTP host to talk to
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.fromEmail != ""
}
