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

	"github.com/AgentTarik/payments-dashboard/internal/config"
	"github.com/AgentTarik/payments-dashboard/internal/sandbox"
	"github.com/AgentTarik/payments-dashboard/internal/storage"
	"github.com/AgentTarik/payments-dashboard/telemetry"
)

func main() {
	cfg, err := config.LoadSandbox()
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

	// storage: Postgres when configured, memory otherwise
	var (
		repo   storage.TxRepo
		dbPing func(ctx context.Context) error
	)
	if cfg.DatabaseURL != "" {
		pg, err := storage.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("postgres", zap.Error(err))
		}
		defer pg.Close()
		if err := pg.EnsureSchema(context.Background()); err != nil {
			log.Fatal("postgres schema", zap.Error(err))
		}
		repo, dbPing = pg, pg.Ping
		log.Info("using postgres store")
	} else {
		repo = storage.NewMemoryStore()
		log.Info("using in-memory store")
	}

	async := cfg.SettleDelay > 0
	worker := sandbox.NewWorker(log, repo, cfg.QueueSize, cfg.SettleDelay)

	h := sandbox.NewHandlers(log, repo, worker, async)
	h.DBPing = dbPing
	h.Kafka = cfg.Kafka

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(telemetry.AccessLog(log))
	r.Use(telemetry.PrometheusMiddleware())

	sandbox.SetupRoutes(r, h, cfg.JWT)

	ctx, cancel := context.WithCancel(context.Background())
	if async {
		go worker.Run(ctx)
	}

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
	log.Info("sandbox started",
		zap.String("addr", cfg.Addr),
		zap.Duration("settle_delay", cfg.SettleDelay),
		zap.Bool("jwt", cfg.JWT.Enabled()),
	)

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	cancel()
	ctxTimeout, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctxTimeout)
	log.Info("server stopped")
}
