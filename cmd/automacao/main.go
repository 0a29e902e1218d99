package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"estoque-backend/internal/automacao"
	"estoque-backend/internal/config"
	"estoque-backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(getEnv("LOG_LEVEL", "info"), os.Getenv("APP_ENV") == "development"); err != nil {
		log.Fatal("falha ao inicializar o logger:", err)
	}
	defer logger.Sync()
	zlog := logger.Get()

	driver, err := automacao.NewDriver(cfg, zlog)
	if err != nil {
		zlog.Fatal("falha ao inicializar o driver de automação", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zlog.Info("driver de automação iniciado",
		zap.String("imap_server", cfg.IMAPServer),
		zap.Duration("poll_interval", cfg.PollInterval))

	driver.Run(ctx)

	zlog.Info("driver de automação encerrado")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
