package di

import (
	"context"
	"fmt"
	"time"

	"IrisServe/internal/domain/repository"
	"IrisServe/internal/handler/api"
	internalrepo "IrisServe/internal/repository"
	"IrisServe/internal/service/endpoint"
	"IrisServe/internal/usecase"
	"IrisServe/pkg/cache"
	pkgch "IrisServe/pkg/clickhouse"
	"IrisServe/pkg/config"
	pkgkafka "IrisServe/pkg/kafka"
	"IrisServe/pkg/logger"
	"IrisServe/pkg/metrics"
	pkgs3 "IrisServe/pkg/s3"
	"IrisServe/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideS3Client creates the feature storage client.
func ProvideS3Client(cfg *config.Config) (*pkgs3.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := pkgs3.NewClient(ctx,
		pkgs3.WithBucket(cfg.Storage.Bucket),
		pkgs3.WithRegion(cfg.Storage.Region),
		pkgs3.WithEndpoint(cfg.Storage.Endpoint),
		pkgs3.WithCredentials(cfg.Storage.AccessKeyID, cfg.Storage.SecretAccessKey),
	)
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}
	return client, nil
}

// ProvideFeatureSource creates the date-range resolver.
func ProvideFeatureSource(client *pkgs3.Client, cfg *config.Config) repository.FeatureSource {
	return internalrepo.NewS3FeatureSource(client, cfg.Storage.Prefix, cfg.Storage.SortKeys)
}

// ProvideInvoker creates the configured endpoint invoker.
func ProvideInvoker(cfg *config.Config) (repository.EndpointInvoker, error) {
	switch cfg.Endpoint.Type {
	case "sagemaker":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return endpoint.NewSageMakerInvoker(ctx, cfg.Endpoint.Name, cfg.Endpoint.Region)
	case "http":
		return endpoint.NewHTTPInvoker(cfg.Endpoint.URL, cfg.Endpoint.Timeout)
	default:
		return nil, fmt.Errorf("unknown endpoint type: %s", cfg.Endpoint.Type)
	}
}

// ProvideAuditSink creates the configured audit backend.
func ProvideAuditSink(cfg *config.Config) (repository.AuditSink, error) {
	switch cfg.Audit.Backend {
	case "none":
		return internalrepo.NoopAuditSink{}, nil
	case "kafka":
		producer, err := pkgkafka.NewProducer(
			pkgkafka.WithBrokers(cfg.Audit.Kafka.Brokers),
			pkgkafka.WithCompression(cfg.Audit.Kafka.Compression),
			pkgkafka.WithRequiredAcks(cfg.Audit.Kafka.RequiredAcks),
			pkgkafka.WithMaxAttempts(cfg.Audit.Kafka.MaxAttempts),
			pkgkafka.WithTimeouts(cfg.Audit.Kafka.WriteTimeout, cfg.Audit.Kafka.ReadTimeout),
		)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		topic := cfg.Audit.Topic
		if topic == "" {
			topic = "iris-predictions-audit"
		}
		return internalrepo.NewKafkaAuditPublisher(producer, topic), nil
	case "clickhouse":
		client, err := pkgch.NewClient(
			pkgch.WithHost(cfg.Audit.ClickHouse.Host),
			pkgch.WithPort(cfg.Audit.ClickHouse.Port),
			pkgch.WithDatabase(cfg.Audit.ClickHouse.Database),
			pkgch.WithCredentials(cfg.Audit.ClickHouse.User, cfg.Audit.ClickHouse.Password),
			pkgch.WithTimeouts(cfg.Audit.ClickHouse.DialTimeout, cfg.Audit.ClickHouse.ReadTimeout, cfg.Audit.ClickHouse.WriteTimeout),
		)
		if err != nil {
			return nil, fmt.Errorf("clickhouse client: %w", err)
		}

		table := cfg.Audit.Table
		if table == "" {
			table = "prediction_audit"
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.InitSchema(ctx, []string{
			fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (scored_at DateTime, start_date String, end_date String, row_count UInt32, batch_count UInt32, predictions UInt32, duration_ms UInt64) ENGINE=MergeTree ORDER BY scored_at", table),
		}); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("clickhouse schema: %w", err)
		}
		return internalrepo.NewClickHouseAuditStore(client, table), nil
	default:
		return nil, fmt.Errorf("unknown audit backend: %s", cfg.Audit.Backend)
	}
}

// ProvideCache creates the optional response cache. Returns nil when
// caching is disabled.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	switch cfg.Cache.Backend {
	case "memory", "":
		return cache.NewMemoryCache(), nil
	case "redis":
		return cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Cache.Redis.Addr),
			cache.WithRedisAuth(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
		)
	case "layered":
		redisCache, err := cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Cache.Redis.Addr),
			cache.WithRedisAuth(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, err
		}
		return cache.NewLayeredCache(redisCache), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Cache.Backend)
	}
}

// ProvidePredictor creates the prediction use case.
func ProvidePredictor(
	source repository.FeatureSource,
	invoker repository.EndpointInvoker,
	audit repository.AuditSink,
	m repository.Metrics,
	respCache cache.Service,
	l *logger.Logger,
	cfg *config.Config,
) *usecase.Predictor {
	return usecase.NewPredictor(source, invoker, audit, m, respCache, cfg.Cache.TTL, l, cfg.Batch.MaxSize)
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(l *logger.Logger, p *usecase.Predictor) *api.PredictEchoHandler {
	return api.NewPredictEchoHandler(l, p)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	handler *api.PredictEchoHandler,
	audit repository.AuditSink,
	respCache cache.Service,
	l *logger.Logger,
) *server.App {
	return server.New(cfg, handler, audit, respCache, l)
}
