package repository

import (
	"context"
	"fmt"

	"IrisServe/internal/domain/models"
	"IrisServe/internal/domain/repository"
	pkgch "IrisServe/pkg/clickhouse"
	pkgkafka "IrisServe/pkg/kafka"
)

// ClickHouseAuditStore persists scored-request records to ClickHouse.
type ClickHouseAuditStore struct {
	client *pkgch.Client
	table  string
}

// NewClickHouseAuditStore creates a ClickHouse audit store. The store owns
// the client and closes it.
func NewClickHouseAuditStore(client *pkgch.Client, table string) repository.AuditSink {
	return &ClickHouseAuditStore{client: client, table: table}
}

func (s *ClickHouseAuditStore) Record(ctx context.Context, rec *models.AuditRecord) error {
	q := fmt.Sprintf(
		"INSERT INTO %s (scored_at, start_date, end_date, row_count, batch_count, predictions, duration_ms) VALUES (?, ?, ?, ?, ?, ?, ?)",
		s.table,
	)
	_, err := s.client.DB().ExecContext(ctx, q,
		rec.ScoredAt,
		rec.StartDate,
		rec.EndDate,
		rec.RowCount,
		rec.BatchCount,
		rec.Predictions,
		rec.DurationMs,
	)
	return err
}

func (s *ClickHouseAuditStore) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

func (s *ClickHouseAuditStore) Close() error {
	return s.client.Close()
}

// KafkaAuditPublisher publishes scored-request records to a Kafka topic.
type KafkaAuditPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaAuditPublisher creates a Kafka audit publisher.
func NewKafkaAuditPublisher(producer *pkgkafka.Producer, topic string) repository.AuditSink {
	return &KafkaAuditPublisher{producer: producer, topic: topic}
}

func (p *KafkaAuditPublisher) Record(ctx context.Context, rec *models.AuditRecord) error {
	key := []byte(rec.StartDate + "|" + rec.EndDate)
	return p.producer.Publish(ctx, p.topic, key, rec)
}

func (p *KafkaAuditPublisher) Health(ctx context.Context) error {
	return nil // writer connects lazily
}

func (p *KafkaAuditPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NoopAuditSink disables auditing.
type NoopAuditSink struct{}

func (NoopAuditSink) Record(context.Context, *models.AuditRecord) error { return nil }
func (NoopAuditSink) Health(context.Context) error                      { return nil }
func (NoopAuditSink) Close() error                                      { return nil }
