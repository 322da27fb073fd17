package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"cityexchange-go/internal/common"
	"cityexchange-go/internal/config"
	"cityexchange-go/internal/sweeper"

	"go.uber.org/zap"
)

func main() {
	once := flag.Bool("once", false, "Run a single sweep and exit (for cron)")
	flag.Parse()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbService, err := common.InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	s, err := sweeper.NewSweeper(dbService, cfg.Sweeper)
	if err != nil {
		zap.L().Fatal("Failed to create sweeper", zap.Error(err))
	}

	if *once {
		count, err := s.RunOnce(ctx)
		if err != nil {
			zap.L().Error("Sweep failed", zap.Error(err))
			return
		}
		zap.L().Info("Sweep completed", zap.Int64("cancelled", count))
		return
	}

	s.Start(ctx)
	zap.L().Info("Sweeper running, press Ctrl+C to stop")
	<-ctx.Done()

	zap.L().Info("Shutdown signal received")
	s.Stop()
}
