package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/suPer8Hu/car-advisor/internal/bootstrap"
	"github.com/suPer8Hu/car-advisor/internal/config"
	"github.com/suPer8Hu/car-advisor/internal/db"
	"github.com/suPer8Hu/car-advisor/internal/logging"
	"github.com/suPer8Hu/car-advisor/internal/store/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		logging.Fatal().Err(err).Msg("connect db")
	}

	engine, err := bootstrap.Catalog(cfg.DatasetPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("load dataset")
	}
	generator, err := bootstrap.Generator(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("text generator")
	}
	svc, err := bootstrap.ChatService(cfg, gdb, engine, generator)
	if err != nil {
		logging.Fatal().Err(err).Msg("chat service")
	}

	consumer, err := rabbitmq.NewConsumer(cfg.RabbitURL, cfg.RabbitQueue, cfg.WorkerConcurrency)
	if err != nil {
		logging.Fatal().Err(err).Msg("rabbitmq consumer")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = consumer.Run(ctx, svc.ProcessJob)
	stop()
	_ = consumer.Close()
	if c, ok := generator.(io.Closer); ok {
		_ = c.Close()
	}
	if err != nil {
		logging.Error().Err(err).Msg("worker stopped")
		os.Exit(1)
	}
	logging.Info().Msg("worker stopped")
}
