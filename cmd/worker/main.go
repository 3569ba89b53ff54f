package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neudestifanoes/Ghostify/internal/domain/entity"
	"github.com/neudestifanoes/Ghostify/internal/infra/config"
	"github.com/neudestifanoes/Ghostify/internal/infra/email"
	"github.com/neudestifanoes/Ghostify/internal/infra/ffmpeg"
	"github.com/neudestifanoes/Ghostify/internal/infra/metrics"
	miniostorage "github.com/neudestifanoes/Ghostify/internal/infra/minio"
	"github.com/neudestifanoes/Ghostify/internal/infra/postgres"
	"github.com/neudestifanoes/Ghostify/internal/infra/rabbitmq"
	"github.com/neudestifanoes/Ghostify/internal/infra/report"
	"github.com/neudestifanoes/Ghostify/internal/infra/tracing"
	"github.com/neudestifanoes/Ghostify/internal/usecase"
	"github.com/neudestifanoes/Ghostify/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	fatalOnErr(err, "load config")

	log, err := logger.New(cfg.LogLevel)
	fatalOnErr(err, "init logger")
	defer log.Sync()

	log.Info("starting ghostify-processing-service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing (non-fatal if Jaeger unavailable)
	tp, err := tracing.InitTracer(ctx, cfg.JaegerEndpoint)
	if err != nil {
		log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
	} else {
		defer tp.Shutdown(ctx)
	}

	// Database
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	fatalOnErr(err, "connect to postgres")
	defer pool.Close()

	// Migrations
	err = postgres.RunMigrations(cfg.DatabaseURL, "migrations")
	if err != nil {
		log.Warn("migration warning", zap.Error(err))
	}

	// MinIO
	storage, err := miniostorage.NewStorage(miniostorage.StorageConfig{
		Endpoint:       cfg.MinIOEndpoint,
		AccessKey:      cfg.MinIOAccessKey,
		SecretKey:      cfg.MinIOSecretKey,
		UseSSL:         cfg.MinIOUseSSL,
		UploadBucket:   cfg.MinIOUploadBucket,
		ArtifactBucket: cfg.MinIOArtifactBucket,
	})
	fatalOnErr(err, "create minio storage")
	fatalOnErr(storage.EnsureBuckets(ctx), "ensure minio buckets")

	// RabbitMQ publisher connection
	rmqConn, err := amqp.Dial(cfg.RabbitMQURL)
	fatalOnErr(err, "connect to rabbitmq for publisher")
	defer rmqConn.Close()

	pub, err := rabbitmq.NewPublisher(rmqConn, cfg.RabbitMQExchange)
	fatalOnErr(err, "create rabbitmq publisher")

	statusPub := rabbitmq.NewStatusPublisher(pub)
	dlqPub := rabbitmq.NewDLQPublisher(pub, cfg.RabbitMQDLQ)

	// Infra adapters
	repo := postgres.NewJobRepository(pool)
	runner := ffmpeg.NewExecRunner(log)
	analyzer := ffmpeg.NewAnalyzer(runner, log)
	segmenter := ffmpeg.NewSegmenter(runner, log)
	renderer := ffmpeg.NewRenderer(runner, log)
	reporter := report.NewCSVWriter()
	notifier := email.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, log)

	defaults := entity.RenderSpec{
		SegmentCount:       cfg.SegmentCount,
		GrayscaleMode:      entity.GrayscaleMode(cfg.GrayscaleMode),
		BlendMode:          entity.BlendMode(cfg.BlendMode),
		Opacity:            cfg.Opacity,
		AllowSingleSegment: cfg.AllowSingleSegment,
	}
	fatalOnErr(defaults.Validate(), "validate render defaults")

	// Use case
	uc := usecase.NewRenderGhostUseCase(
		repo, storage, analyzer, segmenter, renderer, reporter,
		statusPub, dlqPub, notifier,
		log,
		usecase.RenderGhostConfig{
			TempDir:       cfg.TempDir,
			MaxRetries:    cfg.MaxRetries,
			Defaults:      defaults,
			FallbackEmail: cfg.NotificationTo,
		},
	)

	// Metrics server, drained when ctx is cancelled
	metrics.StartMetricsServer(ctx, cfg.MetricsPort, log)

	// Consumer (worker pool)
	consumer, err := rabbitmq.NewConsumer(rabbitmq.ConsumerConfig{
		URL:         cfg.RabbitMQURL,
		Queue:       cfg.RabbitMQProcessingQueue,
		Exchange:    cfg.RabbitMQExchange,
		DLQ:         cfg.RabbitMQDLQ,
		StatusQueue: cfg.RabbitMQStatusQueue,
		Prefetch:    cfg.RabbitMQPrefetch,
		WorkerCount: cfg.WorkerCount,
		BaseDelayMs: cfg.RetryBaseDelayMs,
	}, uc.Execute, log)
	fatalOnErr(err, "create consumer")

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	log.Info("ghostify-processing-service started, consuming messages")

	if err := consumer.Start(ctx); err != nil {
		log.Error("consumer error", zap.Error(err))
	}

	consumer.Close()
	log.Info("ghostify-processing-service stopped")
}

func fatalOnErr(err error, msg string) {
	if err != nil {
		panic(msg + ": " + err.Error())
	}
}
