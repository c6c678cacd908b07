package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vishalbagda/MidWiseAi/internal/config"
	"github.com/vishalbagda/MidWiseAi/internal/log"
	"github.com/vishalbagda/MidWiseAi/internal/mail"
	"github.com/vishalbagda/MidWiseAi/internal/queue"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadNotifier()

	if _, err := log.Init(cfg.LogProd); err != nil {
		panic(err)
	}
	defer log.Sync()

	cons, err := queue.NewConsumer(cfg.RabbitURL, cfg.Exchange, cfg.Queue, cfg.BindKey)
	if err != nil {
		log.L().Fatal("rabbit consumer init failed", zap.Error(err)) // <- не даём программе идти дальше
	}
	defer cons.Close()

	sender := &mail.Sender{From: cfg.MailFrom}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.L().Info("notifier up",
		zap.String("exchange", cfg.Exchange), zap.String("queue", cfg.Queue),
		zap.String("key", cfg.BindKey), zap.Int("workers", cfg.Concurrency))

	if err := cons.Consume(ctx, cfg.Concurrency, sender.HandleDonation); err != nil {
		log.L().Error("consumer stopped", zap.Error(err))
	}
}
