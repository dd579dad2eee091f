package service

import (
	"Dreamscape/internal/api/dto"
	"Dreamscape/internal/pkg/consts"
	"Dreamscape/internal/pkg/mongo"
	"Dreamscape/internal/pkg/util"
	"Dreamscape/internal/repository"
	"context"
	"errors"
	log "log/slog"
)

type SysBoxService interface {
	GetNotifications(ctx context.Context, userID uint64, page *dto.PageDTO) ([]*dto.SysBoxDTO, error)
	GetUnreadCount(ctx context.Context, userID uint64) (*dto.SysBoxUnreadDTO, error)
	MarkAsRead(ctx context.Context, userID uint64, msgID string) error
	MarkAllAsRead(ctx context.Context, userID uint64) error
}

type sysBoxServiceImpl struct {
	sysBoxRepo mongo.SysBoxRepo
	userRepo   repository.UserRepo
}

// NewSysBoxService 未启用 MongoDB 时 sysBoxRepo 传 nil
func NewSysBoxService(sysBoxRepo mongo.SysBoxRepo, userRepo repository.UserRepo) SysBoxService {
	return &sysBoxServiceImpl{
		sysBoxRepo: sysBoxRepo,
		userRepo:   userRepo,
	}
}

func (s *sysBoxServiceImpl) GetNotifications(ctx context.Context, userID uint64, page *dto.PageDTO) ([]*dto.SysBoxDTO, error) {
	limit, offset, err := normalizePage(page.Limit, page.Offset, consts.DefaultNotifyPageSize, consts.MaxDreamPageSize)
	if err != nil {
		return nil, err
	}
	if s.sysBoxRepo == nil {
		return []*dto.SysBoxDTO{}, nil
	}

	msgs, err := s.sysBoxRepo.GetNotificationList(ctx, userID, int64(limit), int64(offset))
	if err != nil {
		log.WarnContext(ctx, "get notifications error", "userID", userID, "err", err)
		return []*dto.SysBoxDTO{}, nil
	}

	senderIDs := make([]uint64, 0, len(msgs))
	for _, msg := range msgs {
		if msg.SenderID != 0 {
			senderIDs = append(senderIDs, msg.SenderID)
		}
	}
	names := make(map[uint64]string)
	if len(senderIDs) > 0 {
		users, err := s.userRepo.GetUserByIds(ctx, senderIDs)
		if err != nil {
			log.WarnContext(ctx, "get notification senders error", "err", err)
		}
		for _, user := range users {
			if user.Name != nil {
				names[user.ID] = *user.Name
			}
		}
	}

	list := make([]*dto.SysBoxDTO, 0, len(msgs))
	for _, msg := range msgs {
		list = append(list, &dto.SysBoxDTO{
			ID:         msg.ID.Hex(),
			SenderID:   msg.SenderID,
			SenderName: names[msg.SenderID],
			Type:       msg.Type,
			TargetID:   msg.TargetID,
			Content:    msg.Content,
			Payload:    msg.Payload,
			IsRead:     msg.IsRead,
			CreatedAt:  util.FormatTime(msg.CreatedAt),
		})
	}
	return list, nil
}

func (s *sysBoxServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (*dto.SysBoxUnreadDTO, error) {
	if s.sysBoxRepo == nil {
		return &dto.SysBoxUnreadDTO{}, nil
	}
	count, err := s.sysBoxRepo.GetUnreadCount(ctx, userID)
	if err != nil {
		log.WarnContext(ctx, "get unread count error", "userID", userID, "err", err)
		return &dto.SysBoxUnreadDTO{}, nil
	}
	return &dto.SysBoxUnreadDTO{UnreadCount: count}, nil
}

func (s *sysBoxServiceImpl) MarkAsRead(ctx context.Context, userID uint64, msgID string) error {
	if s.sysBoxRepo == nil {
		return ErrFeatureDisabled
	}
	if err := s.sysBoxRepo.MarkAsRead(ctx, userID, msgID); err != nil {
		if errors.Is(err, mongo.ErrNotificationNotFound) {
			return ErrSysBoxNotFound
		}
		return ErrStoreUnavailable
	}
	return nil
}

func (s *sysBoxServiceImpl) MarkAllAsRead(ctx context.Context, userID uint64) error {
	if s.sysBoxRepo == nil {
		return ErrFeatureDisabled
	}
	if err := s.sysBoxRepo.MarkAllAsRead(ctx, userID); err != nil {
		log.WarnContext(ctx, "mark all notifications read error", "userID", userID, "err", err)
		return ErrStoreUnavailable
	}
	return nil
}
