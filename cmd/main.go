package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AgentTarik/payments-dashboard/internal/api"
	"github.com/AgentTarik/payments-dashboard/internal/auth"
	"github.com/AgentTarik/payments-dashboard/internal/checkout"
	"github.com/AgentTarik/payments-dashboard/internal/client"
	"github.com/AgentTarik/payments-dashboard/internal/config"
	"github.com/AgentTarik/payments-dashboard/internal/kafka"
	"github.com/AgentTarik/payments-dashboard/telemetry"
)

func main() {
	cfg, err := config.LoadDashboard()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := telemetry.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	telemetry.InitMetrics()

	// transaction API client
	var opts []client.Option
	if cfg.JWT.Enabled() {
		issuer, err := auth.NewJWTIssuer(cfg.JWT)
		if err != nil {
			log.Fatal("jwt issuer", zap.Error(err))
		}
		opts = append(opts, client.WithTokenSource(issuer))
	}
	if cfg.Upstream.BreakerEnabled {
		opts = append(opts, client.WithCircuitBreaker())
	}
	apiClient := client.New(cfg.Upstream.URL, cfg.Upstream.Timeout, log, opts...)

	pages, err := api.NewRenderer()
	if err != nil {
		log.Fatal("templates", zap.Error(err))
	}

	h := &api.Handlers{
		Log:      log,
		API:      apiClient,
		Checkout: checkout.NewValidator(),
		Pages:    pages,
	}

	// submission events
	if cfg.Kafka.Enabled() {
		schemas, err := kafka.NewValidator()
		if err != nil {
			log.Fatal("event schema", zap.Error(err))
		}
		producer := kafka.NewProducer(cfg.Kafka.BrokerList(), cfg.Kafka.Topic)
		defer producer.Close()
		h.Events = kafka.NewEmitter(producer, schemas, log)
		log.Info("kafka events enabled", zap.String("topic", cfg.Kafka.Topic))
	}

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(telemetry.AccessLog(log))
	r.Use(telemetry.PrometheusMiddleware())

	api.SetupRoutes(r, h)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()
	log.Info("dashboard started",
		zap.String("addr", cfg.Addr),
		zap.String("api_url", cfg.Upstream.URL),
		zap.Bool("breaker", cfg.Upstream.BreakerEnabled),
	)

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("server stopped")
}
