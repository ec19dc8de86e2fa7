package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/suPer8Hu/car-advisor/internal/auth"
	"github.com/suPer8Hu/car-advisor/internal/bootstrap"
	"github.com/suPer8Hu/car-advisor/internal/config"
	"github.com/suPer8Hu/car-advisor/internal/db"
	"github.com/suPer8Hu/car-advisor/internal/httpapi"
	"github.com/suPer8Hu/car-advisor/internal/httpapi/handlers"
	"github.com/suPer8Hu/car-advisor/internal/logging"
	"github.com/suPer8Hu/car-advisor/internal/metrics"
	"github.com/suPer8Hu/car-advisor/internal/model"
	"github.com/suPer8Hu/car-advisor/internal/store/rabbitmq"
	"github.com/suPer8Hu/car-advisor/internal/store/redisstore"
	"github.com/suPer8Hu/car-advisor/internal/valuation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// regression model and dataset must load, or there is nothing to serve
	regressor, err := model.Load(ctx, model.Options{
		Kind:    cfg.ModelKind,
		Path:    cfg.ModelPath,
		URL:     cfg.ModelURL,
		Timeout: cfg.ModelTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Str("kind", cfg.ModelKind).Msg("load regression model")
	}
	valSvc, err := valuation.NewService(regressor)
	if err != nil {
		logging.Fatal().Err(err).Msg("regression model is incompatible with the valuation form")
	}

	engine, err := bootstrap.Catalog(cfg.DatasetPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("load dataset")
	}

	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		logging.Fatal().Err(err).Msg("connect db")
	}

	generator, err := bootstrap.Generator(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("text generator")
	}
	if c, ok := generator.(io.Closer); ok {
		defer c.Close()
	}
	chatSvc, err := bootstrap.ChatService(cfg, gdb, engine, generator)
	if err != nil {
		logging.Fatal().Err(err).Msg("chat service")
	}

	rds := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL)
	defer rds.Close()
	if err := rds.Ping(ctx); err != nil {
		logging.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping")
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		logging.Fatal().Err(err).Msg("session tokens")
	}

	h := &handlers.Handler{
		Valuation:   valSvc,
		Recommender: engine,
		ChatSvc:     chatSvc,
		Panel:       rds,
		Tokens:      tokens,
	}

	// async chat is optional
	if pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue); err != nil {
		logging.Warn().Err(err).Msg("rabbitmq unavailable, async chat disabled")
	} else {
		defer pub.Close()
		h.Jobs = pub
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(reg)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(h, tokens, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("http shutdown")
	}
}
