package main

import (
	"context"
	"log"
	"time"

	"hepflow/internal/activities"
	"hepflow/internal/config"
	"hepflow/internal/storage"
	"hepflow/internal/workflows"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()

	zcfg := zap.NewProductionConfig()
	if cfg.Debug {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()
	sugar := logger.Sugar()

	c, err := client.Dial(client.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		sugar.Fatalw("dial temporal", "err", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.TemporalTaskQueue, worker.Options{})
	workflows.Register(w)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		sugar.Fatalw("connect postgres", "err", err)
	}
	defer db.Close()
	if err := db.EnsureSchema(ctx); err != nil {
		sugar.Fatalw("ensure database schema", "err", err)
	}

	a, err := activities.New(cfg, db, sugar)
	if err != nil {
		sugar.Fatalw("build activities", "err", err)
	}
	activities.Register(w, a)

	sugar.Infow("hepflow worker listening",
		"temporal", cfg.TemporalAddress,
		"task_queue", cfg.TemporalTaskQueue,
		"production_mode", cfg.ProductionMode,
	)
	if err := w.Run(worker.InterruptCh()); err != nil {
		sugar.Fatalw("run worker", "err", err)
	}
}
