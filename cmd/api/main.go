package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"hepflow/internal/api"
	"hepflow/internal/config"
	"hepflow/internal/files"
	"hepflow/internal/storage"

	"github.com/joho/godotenv"
	tclient "go.temporal.io/sdk/client"
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

	store, err := files.NewStore(cfg.FilesRoot)
	if err != nil {
		sugar.Fatalw("open file store", "err", err)
	}

	tc, err := tclient.Dial(tclient.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		sugar.Fatalw("dial temporal", "err", err)
	}
	defer tc.Close()

	srv := api.NewServer(cfg, db, store, tc, sugar)
	sugar.Infow("hepflow api listening", "addr", cfg.APIAddr, "task_queue", cfg.TemporalTaskQueue)
	if err := http.ListenAndServe(cfg.APIAddr, srv.Routes()); err != nil {
		sugar.Fatalw("serve api", "err", err)
	}
}
