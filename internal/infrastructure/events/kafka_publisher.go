// Package events publishes ledger events to kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domainRepo "github.com/sangkips/tradebook-api/internal/domain/repository"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageWriter is the part of *kafka.Writer the publisher uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes payment events keyed by tenant so one tenant's events stay ordered
type KafkaPublisher struct {
	writer messageWriter
	log    *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 5 * time.Second,
		},
		log: log,
	}
}

var _ domainRepo.PaymentEventPublisher = (*KafkaPublisher)(nil)

func (p *KafkaPublisher) PublishPaymentRecorded(ctx context.Context, event domainRepo.PaymentRecordedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode payment event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.TenantID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("ledger.payment_recorded")},
		},
	})
	if err != nil {
		return fmt.Errorf("publish payment event: %w", err)
	}

	p.log.Debug("payment event published",
		zap.String("event_id", event.EventID),
		zap.String("entry_id", event.EntryID),
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Noop drops events when no brokers are configured
type Noop struct{}

func (Noop) PublishPaymentRecorded(context.Context, domainRepo.PaymentRecordedEvent) error {
	return nil
}

func (Noop) Close() error {
	return nil
}
