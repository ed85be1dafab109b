package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avjabalpur/cian-erp-sub002/internal/dto"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
)

const (
	EventUserRegistered      = "user_registered"
	EventSalesOrderSubmitted = "sales_order_submitted"
	EventSalesOrderApproved  = "sales_order_approved"
	EventSalesOrderRejected  = "sales_order_rejected"
	EventSalesOrderStageSet  = "sales_order_stage_updated"
)

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaEventPublisher struct {
	writer     MessageWriter
	cb         *gobreaker.CircuitBreaker[[]byte]
	maxRetries int
	backoff    time.Duration
}

func CreateKafkaEventPublisher(writer MessageWriter, cb *gobreaker.CircuitBreaker[[]byte]) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		writer:     writer,
		cb:         cb,
		maxRetries: 3,
		backoff:    time.Second,
	}
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, eventType string, key string, data interface{}) error {
	jsonMsg, err := json.Marshal(dto.KafkaMessage{
		ID:         ulid.Make().String(),
		EventType:  eventType,
		OccurredAt: time.Now().UnixMilli(),
		Data:       data,
	})
	if err != nil {
		return err
	}

	_, err = p.cb.Execute(func() ([]byte, error) {
		return jsonMsg, p.writeWithRetry(ctx, key, jsonMsg)
	})

	return err
}

func (p *KafkaEventPublisher) writeWithRetry(ctx context.Context, key string, msg []byte) (err error) {
	for i := 0; i < p.maxRetries; i++ {
		err = p.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(key),
			Value: msg,
		})
		if err == nil {
			return nil
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "KafkaEventPublisher").Int("attempt", i+1).Msg("")

		if i == p.maxRetries-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.backoff * time.Duration(i+1)):
		}
	}

	return fmt.Errorf("failed to write Kafka message after %d attempts: %w", p.maxRetries, err)
}

// NoopEventPublisher is used when no broker is configured.
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(ctx context.Context, eventType string, key string, data interface{}) error {
	log.Ctx(ctx).Debug().Str("component", "NoopEventPublisher").Str("event_type", eventType).Msg("event dropped, no broker configured")
	return nil
}

// publishEvent is best effort: the caller's outcome is decided by the database
// write, so a failed publish is only logged.
func publishEvent(ctx context.Context, publisher EventPublisher, eventType string, key string, data interface{}) {
	err := publisher.Publish(ctx, eventType, key, data)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "publishEvent").Str("event_type", eventType).Msg("")
	}
}
