package kafka

import (
	"Resonance/internal/api/config"
	"Resonance/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	ingestConsumer sarama.ConsumerGroup
	ingestHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(cfg *config.Config, ingestRepo repository.IngestRepo) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	ingestConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaIngestConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	ingestHandler := NewIngestHandler(ingestRepo, cfg.Ingest.BatchSize)

	return &ConsumerManager{
		ingestConsumer: ingestConsumer,
		ingestHandler:  ingestHandler,
	}, nil
}

// Start 启动所有消费者
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	go func() {
		topic := cfg.KafkaIngestConsumer.Topic
		log.Info("Ingest consumer started", "topic", topic)
		for {
			if err := m.ingestConsumer.Consume(ctx, []string{topic}, m.ingestHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.ingestConsumer.Close(); err != nil {
		log.Error("Failed to close ingest consumer", "err", err)
	}

	return nil
}
