package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	httpadapter "github.com/wxdash/weather-dashboard/internal/adapter/http"
	kafkaadapter "github.com/wxdash/weather-dashboard/internal/adapter/kafka"
	"github.com/wxdash/weather-dashboard/internal/adapter/openweather"
	s3adapter "github.com/wxdash/weather-dashboard/internal/adapter/s3"
	"github.com/wxdash/weather-dashboard/internal/config"
	"github.com/wxdash/weather-dashboard/internal/dashboard"
	"github.com/wxdash/weather-dashboard/internal/observability"
	"github.com/wxdash/weather-dashboard/internal/render"
	"github.com/wxdash/weather-dashboard/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Missing secrets are not fatal here; they surface as auth failures from
	// the provider or from S3, where the pipeline contains them.
	if cfg.OpenWeatherAPIKey == "" {
		logger.Warn("OPENWEATHER_API_KEY is not set, fetches will be rejected by the provider")
	}
	if cfg.BucketName == "" {
		logger.Warn("AWS_BUCKET_NAME is not set, archive writes will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	gateway := s3adapter.NewGateway(awss3.NewFromConfig(awsCfg), cfg.BucketName, logger)
	client := openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.FetchTimeout, logger, metrics)
	recorder := dashboard.NewRecorder(gateway, logger, metrics)
	gallery := render.NewGallery(cfg.ChartDir)
	renderer := render.NewRenderer(gallery, cfg.ChartFont, logger, metrics)

	// Observation event publishing (feature-flagged via KAFKA_BROKERS / KAFKA_ENABLED).
	var publisher dashboard.Publisher
	var closePublisher func() error
	if cfg.KafkaEnabled {
		kp := kafkaadapter.NewPublisher(cfg, logger)
		publisher = kp
		closePublisher = kp.Close
		logger.Info("kafka event publishing enabled", "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka event publishing disabled")
	}

	orch := dashboard.New(client, gateway, recorder, renderer, publisher, cfg.Locations, logger, metrics)

	if cfg.FetchInterval <= 0 {
		// One-shot run: failures were logged per location, exit zero regardless.
		if err := orch.Run(ctx); err != nil {
			logger.Error("dashboard run error", "error", err)
		}
		closeKafka(closePublisher, logger)
		return
	}

	// Watch mode: serve health, metrics, and charts while the scheduler
	// repeats runs on the configured interval.
	srv := httpadapter.NewServer(cfg.HTTPAddr, orch, gallery, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	sched := scheduler.New(orch, cfg.FetchInterval, logger)
	if err := sched.Start(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	closeKafka(closePublisher, logger)

	logger.Info("shutdown complete")
}

func closeKafka(closeFn func() error, logger *slog.Logger) {
	if closeFn == nil {
		return
	}
	if err := closeFn(); err != nil {
		logger.Error("kafka publisher close error", "error", err)
	}
}
