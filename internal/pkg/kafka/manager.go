package kafka

import (
	"Dreamscape/internal/api/config"
	"context"
	log "log/slog"
	"sync"

	"github.com/IBM/sarama"
)

type consumer struct {
	name    string
	group   sarama.ConsumerGroup
	handler sarama.ConsumerGroupHandler
}

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	topic     string
	consumers []*consumer
}

func NewConsumerManager(cfg config.KafkaConfig) *ConsumerManager {
	return &ConsumerManager{topic: cfg.Topic}
}

// Register 为 handler 创建独立的消费组
func (m *ConsumerManager) Register(cfg config.KafkaConfig, name, groupID string, handler sarama.ConsumerGroupHandler) error {
	group, err := sarama.NewConsumerGroup(cfg.Brokers, groupID, newSaramaConfig(cfg))
	if err != nil {
		return err
	}
	m.consumers = append(m.consumers, &consumer{
		name:    name,
		group:   group,
		handler: handler,
	})
	return nil
}

// Start 启动所有消费者，阻塞至 ctx 取消后关闭消费组
func (m *ConsumerManager) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, c := range m.consumers {
		wg.Add(1)
		go func(c *consumer) {
			defer wg.Done()
			log.Info("consumer started", "name", c.name, "topic", m.topic)
			for {
				if err := c.group.Consume(ctx, []string{m.topic}, c.handler); err != nil {
					log.Error("Error from consumer", "name", c.name, "err", err)
				}
				if ctx.Err() != nil {
					return
				}
			}
		}(c)
	}

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")
	wg.Wait()

	for _, c := range m.consumers {
		if err := c.group.Close(); err != nil {
			log.Error("Failed to close consumer", "name", c.name, "err", err)
		}
	}
	return nil
}
