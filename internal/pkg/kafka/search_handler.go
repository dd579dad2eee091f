package kafka

import (
	"Dreamscape/internal/pkg/consts"
	"Dreamscape/internal/pkg/es"
	"Dreamscape/internal/pkg/logger"
	"Dreamscape/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

// SearchSyncHandler 按事件回表，保持 ES 中的梦境文档与数据库一致
type SearchSyncHandler struct {
	dreamDBRepo repository.DreamRepo
	dreamESRepo es.DreamRepo
}

func NewSearchSyncHandler(dreamDBRepo repository.DreamRepo, dreamESRepo es.DreamRepo) *SearchSyncHandler {
	return &SearchSyncHandler{
		dreamDBRepo: dreamDBRepo,
		dreamESRepo: dreamESRepo,
	}
}

func (s *SearchSyncHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("search sync consumer setup")
	return nil
}

func (s *SearchSyncHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("search sync consumer cleanup")
	return nil
}

func (s *SearchSyncHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("search sync process batch error", "err", err)
		return err
	}
	return nil
}

func (s *SearchSyncHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	event, err := ToEvent(msg)
	if err != nil {
		return err
	}

	switch event.Type {
	case consts.EventDreamCreated, consts.EventDreamUpdated, consts.EventDreamDeleted:
	default:
		return nil
	}
	ctx = logger.NewTraceContext(ctx, "search-sync")

	// 以数据库当前状态为准，乱序到达的事件也能收敛
	dream, err := s.dreamDBRepo.GetDream(ctx, event.DreamID)
	if err != nil {
		return errors.Wrapf(err, "load dream %d", event.DreamID)
	}
	if dream == nil {
		if err = s.dreamESRepo.DeleteDream(ctx, event.DreamID); err != nil {
			return errors.Wrapf(err, "delete dream %d from index", event.DreamID)
		}
		log.InfoContext(ctx, "dream removed from index", "dreamID", event.DreamID)
		return nil
	}

	if err = s.dreamESRepo.IndexDream(ctx, dream); err != nil {
		return errors.Wrapf(err, "index dream %d", event.DreamID)
	}
	log.InfoContext(ctx, "dream indexed", "dreamID", event.DreamID)
	return nil
}
