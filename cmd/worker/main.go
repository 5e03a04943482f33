package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/khoahotran/talent-identity/adapters/event"
	"github.com/khoahotran/talent-identity/adapters/media_storage"
	assetUC "github.com/khoahotran/talent-identity/internal/application/usecase/asset"
	"github.com/khoahotran/talent-identity/internal/config"
	"github.com/khoahotran/talent-identity/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig(".")
	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	if err != nil {
		appLogger.Fatal("cannot load config", err)
	}
	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("cannot start worker", errors.New("kafka.brokers is empty"))
	}
	appLogger.Info("Starting asset janitor worker...")

	uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize uploader", err)
	}
	cleanupUC := assetUC.NewCleanupUseCase(uploader, appLogger)

	reader := event.NewIdentityEventsReader(cfg, "asset-janitor-group")
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicIdentityEvents))
	consumer := event.NewKafkaConsumer(reader, cleanupUC.Execute, appLogger)
	if err := consumer.Run(ctx); err != nil {
		appLogger.Error("Worker stopped with error", err)
		return
	}
	appLogger.Info("Worker stopped")
}
