package kafka

import (
	"context"
	"time"
)

// Event 梦境领域事件，以梦境ID为分区键保证单个梦境的事件有序
type Event struct {
	Type       string         `json:"type"`
	DreamID    uint64         `json:"dream_id"`
	ActorID    uint64         `json:"actor_id"`
	OwnerID    uint64         `json:"owner_id"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

func NewEvent(eventType string, dreamID, actorID, ownerID uint64, payload map[string]any) *Event {
	return &Event{
		Type:       eventType,
		DreamID:    dreamID,
		ActorID:    actorID,
		OwnerID:    ownerID,
		Payload:    payload,
		OccurredAt: time.Now(),
	}
}

// Publisher 事件投递，失败不影响主流程
type Publisher interface {
	Publish(ctx context.Context, event *Event)
	Close() error
}

// NopPublisher 未启用 Kafka 时使用
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *Event) {}

func (NopPublisher) Close() error { return nil }

// Payload 字段
const (
	PayloadTitle   = "title"
	PayloadActive  = "active"
	PayloadContent = "content"
	PayloadRating  = "rating"
)

// Active 点赞/收藏事件是否为新增
func (e *Event) Active() bool {
	v, ok := e.Payload[PayloadActive].(bool)
	return ok && v
}

func (e *Event) PayloadString(key string) string {
	v, _ := e.Payload[key].(string)
	return v
}
