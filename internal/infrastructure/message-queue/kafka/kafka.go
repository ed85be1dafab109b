package kafka

import (
	"time"

	"github.com/avjabalpur/cian-erp-sub002/config"
	"github.com/segmentio/kafka-go"
)

// CreateKafkaWriter returns nil when no broker address is configured.
func CreateKafkaWriter(config *config.Config) *kafka.Writer {
	if config.KafkaConfig.BrokerAddress == "" {
		return nil
	}

	return &kafka.Writer{
		Addr:         kafka.TCP(config.KafkaConfig.BrokerAddress),
		Topic:        config.KafkaConfig.BrokerTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
	}
}
