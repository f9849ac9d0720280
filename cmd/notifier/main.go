package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tazhibayda/task-manager/internal/config"
	applog "github.com/tazhibayda/task-manager/internal/log"
	"github.com/tazhibayda/task-manager/internal/mail"
	"github.com/tazhibayda/task-manager/internal/notify"
	"github.com/tazhibayda/task-manager/internal/queue"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadNotifier()

	logger, err := applog.Init(cfg.LogProduction)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cons, err := queue.NewConsumer(cfg.RabbitURL, cfg.Exchange, cfg.Queue, cfg.BindKey, logger.Named("consumer"))
	if err != nil {
		logger.Fatal("rabbit consumer init failed", zap.Error(err))
	}
	defer cons.Close()

	var sender mail.Sender = mail.LogSender{Log: logger.Named("mail")}
	if cfg.SMTPAddr != "" {
		smtp, err := mail.NewSMTPSender(cfg.SMTPAddr, cfg.SMTPUser, cfg.SMTPPassword)
		if err != nil {
			logger.Fatal("smtp init failed", zap.Error(err))
		}
		sender = smtp
	}
	mailer := &notify.Mailer{Sender: sender, From: cfg.MailFrom, Log: logger}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("notifier up",
		zap.String("exchange", cfg.Exchange),
		zap.String("queue", cfg.Queue),
		zap.String("key", cfg.BindKey),
		zap.Int("workers", cfg.Concurrency),
		zap.Bool("smtp", cfg.SMTPAddr != ""),
	)

	if err := cons.Consume(ctx, cfg.Concurrency, mailer.Handle); err != nil {
		logger.Fatal("consumer stopped", zap.Error(err))
	}
}
