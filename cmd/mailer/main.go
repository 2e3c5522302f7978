package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-jobboard-backend/config"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/email"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/messaging"
	"go-jobboard-backend/pkg/security"
)

const workers = 4

// mailer drains the mail queue and delivers each message over SMTP.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)

	if cfg.AMQPURL == "" {
		logger.Log.Error("AMQP_URL is required for the mail worker")
		os.Exit(1)
	}

	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - deliveries will fail and be requeued")
	}

	conn, err := messaging.Dial(cfg.AMQPURL)
	if err != nil {
		logger.Log.Error("Failed to connect to message broker", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Log.Info("Mail worker started", "queue", cfg.MailQueue, "workers", workers)
	consumer := messaging.NewConsumer(conn, cfg.MailQueue, workers, logger.Log)
	err = consumer.Run(ctx, func(ctx context.Context, body []byte) error {
		return deliver(emailService, body)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Log.Error("Mail worker stopped", "error", err)
		os.Exit(1)
	}
	logger.Log.Info("Mail worker exiting")
}

func deliver(svc *email.EmailService, body []byte) error {
	var msg domain.MailMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return messaging.Permanent(err)
	}
	if msg.To == "" {
		return messaging.Permanent(errors.New("mail message has no recipient"))
	}

	if err := svc.Deliver(msg); err != nil {
		if errors.Is(err, email.ErrUnknownTemplate) {
			return messaging.Permanent(err)
		}
		return err
	}
	logger.Log.Info("Mail delivered", "kind", msg.Kind, "to", security.MaskEmail(msg.To))
	return nil
}
