package kafka

import (
	"Dreamscape/internal/pkg/consts"
	"Dreamscape/internal/pkg/logger"
	"Dreamscape/internal/pkg/mongo"
	"context"
	"fmt"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

// NotifyHandler 将互动事件写入梦境作者的系统通知箱
type NotifyHandler struct {
	sysBoxRepo mongo.SysBoxRepo
}

func NewNotifyHandler(sysBox mongo.SysBoxRepo) *NotifyHandler {
	return &NotifyHandler{
		sysBoxRepo: sysBox,
	}
}

func (s *NotifyHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("notify consumer setup")
	return nil
}

func (s *NotifyHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("notify consumer cleanup")
	return nil
}

func (s *NotifyHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("notify process batch error", "err", err)
		return err
	}
	return nil
}

func (s *NotifyHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	event, err := ToEvent(msg)
	if err != nil {
		return err
	}
	ctx = logger.NewTraceContext(ctx, "notify")

	notification := BuildNotification(event)
	if notification == nil {
		return nil
	}
	if err = s.sysBoxRepo.CreateNotification(ctx, notification); err != nil {
		return errors.Wrapf(err, "create notification for dream %d", event.DreamID)
	}
	log.InfoContext(ctx, "notification created", "type", event.Type, "dreamID", event.DreamID, "receiver", event.OwnerID)
	return nil
}

// BuildNotification 事件转通知，自己对自己的操作与取消类操作不产生通知
func BuildNotification(event *Event) *mongo.SysBoxModel {
	if event.OwnerID == 0 || event.ActorID == event.OwnerID {
		return nil
	}

	var notifyType int8
	var content string
	switch event.Type {
	case consts.EventDreamLiked:
		if !event.Active() {
			return nil
		}
		notifyType, content = consts.NotifyTypeLike, "点赞了你的梦境"
	case consts.EventDreamFavorited:
		if !event.Active() {
			return nil
		}
		notifyType, content = consts.NotifyTypeFavorite, "收藏了你的梦境"
	case consts.EventDreamCommented:
		notifyType, content = consts.NotifyTypeComment, event.PayloadString(PayloadContent)
	case consts.EventDreamRated:
		rating, _ := event.Payload[PayloadRating].(float64)
		notifyType, content = consts.NotifyTypeRating, fmt.Sprintf("给你的梦境打了 %d 分", int(rating))
	case consts.EventDreamAnalyzed:
		notifyType, content = consts.NotifyTypeAnalysis, "你的梦境解析已生成"
	default:
		return nil
	}

	return &mongo.SysBoxModel{
		ReceiverID: event.OwnerID,
		SenderID:   event.ActorID,
		Type:       notifyType,
		TargetID:   event.DreamID,
		Content:    content,
		Payload: map[string]any{
			"dream_title": event.PayloadString(PayloadTitle),
		},
		IsRead:    false,
		CreatedAt: event.OccurredAt,
	}
}
