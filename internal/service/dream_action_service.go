package service

import (
	"Dreamscape/internal/api/dto"
	"Dreamscape/internal/model"
	"Dreamscape/internal/pkg/consts"
	"Dreamscape/internal/pkg/kafka"
	"Dreamscape/internal/pkg/metrics"
	"Dreamscape/internal/pkg/util"
	"Dreamscape/internal/repository"
	"context"
	"fmt"
	"strings"
)

type DreamActionService interface {
	ToggleLike(ctx context.Context, userID, dreamID uint64) (*dto.ToggleResultDTO, error)
	IsLiked(ctx context.Context, userID, dreamID uint64) (bool, error)
	ToggleFavorite(ctx context.Context, userID, dreamID uint64) (*dto.ToggleResultDTO, error)
	IsFavorited(ctx context.Context, userID, dreamID uint64) (bool, error)
	GetFavoriteDreams(ctx context.Context, userID uint64, page *dto.PageDTO) ([]*dto.DreamDTO, error)

	CreateComment(ctx context.Context, userID uint64, req *dto.CommentCreateDTO) (*dto.CommentCreatedDTO, error)
	DeleteComment(ctx context.Context, userID, commentID uint64) (*dto.CommentDeletedDTO, error)
	GetComments(ctx context.Context, dreamID uint64, page *dto.PageDTO) ([]*dto.CommentDTO, error)
}

type dreamActionServiceImpl struct {
	actionRepo repository.DreamActionRepo
	dreamRepo  repository.DreamRepo
	publisher  kafka.Publisher
}

func NewDreamActionService(
	actionRepo repository.DreamActionRepo,
	dreamRepo repository.DreamRepo,
	publisher kafka.Publisher,
) DreamActionService {
	return &dreamActionServiceImpl{
		actionRepo: actionRepo,
		dreamRepo:  dreamRepo,
		publisher:  publisher,
	}
}

// ToggleLike 切换点赞状态，返回切换后的状态与最新点赞数
func (s *dreamActionServiceImpl) ToggleLike(ctx context.Context, userID, dreamID uint64) (*dto.ToggleResultDTO, error) {
	return s.toggle(ctx, userID, dreamID, consts.EventDreamLiked, s.actionRepo.ToggleLike)
}

func (s *dreamActionServiceImpl) IsLiked(ctx context.Context, userID, dreamID uint64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	liked, err := s.actionRepo.CheckLikeExists(ctx, userID, dreamID)
	if err != nil {
		if degradeRead(ctx, "IsLiked", err) {
			return false, nil
		}
		return false, err
	}
	return liked, nil
}

func (s *dreamActionServiceImpl) ToggleFavorite(ctx context.Context, userID, dreamID uint64) (*dto.ToggleResultDTO, error) {
	return s.toggle(ctx, userID, dreamID, consts.EventDreamFavorited, s.actionRepo.ToggleFavorite)
}

func (s *dreamActionServiceImpl) IsFavorited(ctx context.Context, userID, dreamID uint64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	favorited, err := s.actionRepo.CheckFavoriteExists(ctx, userID, dreamID)
	if err != nil {
		if degradeRead(ctx, "IsFavorited", err) {
			return false, nil
		}
		return false, err
	}
	return favorited, nil
}

// GetFavoriteDreams 我的收藏，按收藏时间倒序
func (s *dreamActionServiceImpl) GetFavoriteDreams(ctx context.Context, userID uint64, page *dto.PageDTO) ([]*dto.DreamDTO, error) {
	limit, offset, err := normalizePage(page.Limit, page.Offset, consts.DefaultDreamPageSize, consts.MaxDreamPageSize)
	if err != nil {
		return nil, err
	}

	ids, err := s.actionRepo.GetFavoriteDreamIDs(ctx, userID, limit, offset)
	if err != nil {
		if degradeRead(ctx, "GetFavoriteDreams", err) {
			return []*dto.DreamDTO{}, nil
		}
		return nil, err
	}
	dreams, err := s.dreamRepo.GetDreamsByIDs(ctx, ids)
	if err != nil {
		if degradeRead(ctx, "GetFavoriteDreams", err) {
			return []*dto.DreamDTO{}, nil
		}
		return nil, err
	}

	list, err := toDreamDTOs(orderByIDs(dreams, ids))
	if err != nil {
		return nil, err
	}
	decorateViewerState(ctx, s.actionRepo, userID, list)
	return list, nil
}

func (s *dreamActionServiceImpl) CreateComment(ctx context.Context, userID uint64, req *dto.CommentCreateDTO) (*dto.CommentCreatedDTO, error) {
	if err := validateDTO(req); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: 评论内容不能为空", ErrParamInvalid)
	}

	dream, err := s.dreamRepo.GetDream(ctx, req.DreamID)
	if err != nil {
		return nil, wrapWriteErr(err)
	}
	if dream == nil {
		return nil, ErrDreamNotFound
	}

	comment := &model.Comment{
		DreamID: req.DreamID,
		UserID:  userID,
		Content: content,
	}
	count, err := s.actionRepo.CreateComment(ctx, comment)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrDreamNotFound
		}
		return nil, wrapWriteErr(err)
	}

	metrics.RecordInteraction(consts.EventDreamCommented)
	s.publisher.Publish(ctx, kafka.NewEvent(consts.EventDreamCommented, dream.ID, userID, dream.UserID, map[string]any{
		kafka.PayloadTitle:   dream.Title,
		kafka.PayloadContent: util.TruncateRunes(content, 100),
	}))
	return &dto.CommentCreatedDTO{CommentID: comment.ID, CommentsCount: count}, nil
}

// DeleteComment 只有评论作者可以删除
func (s *dreamActionServiceImpl) DeleteComment(ctx context.Context, userID, commentID uint64) (*dto.CommentDeletedDTO, error) {
	comment, err := s.actionRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, wrapWriteErr(err)
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	if comment.UserID != userID {
		return nil, ErrForbidden
	}

	count, err := s.actionRepo.DeleteComment(ctx, comment)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrCommentNotFound
		}
		return nil, wrapWriteErr(err)
	}
	return &dto.CommentDeletedDTO{CommentsCount: count}, nil
}

func (s *dreamActionServiceImpl) GetComments(ctx context.Context, dreamID uint64, page *dto.PageDTO) ([]*dto.CommentDTO, error) {
	limit, offset, err := normalizePage(page.Limit, page.Offset, consts.DefaultCommentPageSize, consts.MaxCommentPageSize)
	if err != nil {
		return nil, err
	}

	comments, err := s.actionRepo.GetCommentsByDreamID(ctx, dreamID, limit, offset)
	if err != nil {
		if degradeRead(ctx, "GetComments", err) {
			return []*dto.CommentDTO{}, nil
		}
		return nil, err
	}

	list := make([]*dto.CommentDTO, 0, len(comments))
	for _, comment := range comments {
		item := &dto.CommentDTO{}
		if err = copyTo(item, comment); err != nil {
			return nil, err
		}
		item.Author = toAuthorDTO(&comment.User)
		list = append(list, item)
	}
	return list, nil
}

type toggleFunc func(ctx context.Context, userID, dreamID uint64) (bool, int, error)

func (s *dreamActionServiceImpl) toggle(ctx context.Context, userID, dreamID uint64, eventType string, fn toggleFunc) (*dto.ToggleResultDTO, error) {
	active, count, err := fn(ctx, userID, dreamID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrDreamNotFound
		}
		return nil, wrapWriteErr(err)
	}

	metrics.RecordInteraction(eventType)
	if active {
		s.publishInteraction(ctx, eventType, userID, dreamID, active)
	}
	return &dto.ToggleResultDTO{Active: active, Count: count}, nil
}

// publishInteraction 取消操作不需要通知作者，只在新增时回表取作者
func (s *dreamActionServiceImpl) publishInteraction(ctx context.Context, eventType string, userID, dreamID uint64, active bool) {
	dream, err := s.dreamRepo.GetDream(ctx, dreamID)
	if err != nil || dream == nil {
		return
	}
	s.publisher.Publish(ctx, kafka.NewEvent(eventType, dreamID, userID, dream.UserID, map[string]any{
		kafka.PayloadTitle:  dream.Title,
		kafka.PayloadActive: active,
	}))
}
