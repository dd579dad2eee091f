package kafka

import (
	"Dreamscape/internal/api/config"
	"Dreamscape/internal/pkg/metrics"
	"context"
	log "log/slog"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(cfg config.KafkaConfig) (*Producer, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, newSaramaConfig(cfg))
	if err != nil {
		return nil, err
	}
	return &Producer{
		producer: producer,
		topic:    cfg.Topic,
	}, nil
}

// Publish 同步发送事件，失败只记录日志
func (s *Producer) Publish(ctx context.Context, event *Event) {
	value, err := json.Marshal(event)
	if err != nil {
		log.ErrorContext(ctx, "marshal event error", "type", event.Type, "err", err)
		metrics.RecordEventPublished(event.Type, err)
		return
	}

	_, _, err = s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(event.DreamID, 10)),
		Value: sarama.ByteEncoder(value),
	})
	metrics.RecordEventPublished(event.Type, err)
	if err != nil {
		log.WarnContext(ctx, "publish event failed", "type", event.Type, "dreamID", event.DreamID, "err", err)
	}
}

func (s *Producer) Close() error {
	return s.producer.Close()
}
