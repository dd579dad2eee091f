package service

import (
	"Dreamscape/internal/api/dto"
	"Dreamscape/internal/model"
	"Dreamscape/internal/pkg/consts"
	"Dreamscape/internal/pkg/es"
	"Dreamscape/internal/pkg/kafka"
	"Dreamscape/internal/pkg/util"
	"Dreamscape/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

type DreamService interface {
	CreateDream(ctx context.Context, userID uint64, req *dto.DreamCreateDTO) (*dto.DreamCreatedDTO, error)
	GetDream(ctx context.Context, viewerID, dreamID uint64) (*dto.DreamDetailDTO, error)
	ListDreams(ctx context.Context, viewerID uint64, page *dto.PageDTO) ([]*dto.DreamDTO, error)
	ListMyDreams(ctx context.Context, userID uint64, page *dto.PageDTO) ([]*dto.DreamDTO, error)
	UpdateDream(ctx context.Context, userID uint64, req *dto.DreamUpdateDTO) error
	DeleteDream(ctx context.Context, userID, dreamID uint64) error
	SearchDreams(ctx context.Context, viewerID uint64, req *dto.DreamSearchDTO) ([]*dto.DreamDTO, error)
	ReconcileDream(ctx context.Context, dreamID uint64) error
}

type dreamServiceImpl struct {
	dreamRepo  repository.DreamRepo
	actionRepo repository.DreamActionRepo
	ratingRepo repository.RatingRepo
	searchRepo es.DreamRepo
	mediaStore MediaStore
	publisher  kafka.Publisher
}

// NewDreamService searchRepo 与 mediaStore 未启用时传 nil
func NewDreamService(
	dreamRepo repository.DreamRepo,
	actionRepo repository.DreamActionRepo,
	ratingRepo repository.RatingRepo,
	searchRepo es.DreamRepo,
	mediaStore MediaStore,
	publisher kafka.Publisher,
) DreamService {
	return &dreamServiceImpl{
		dreamRepo:  dreamRepo,
		actionRepo: actionRepo,
		ratingRepo: ratingRepo,
		searchRepo: searchRepo,
		mediaStore: mediaStore,
		publisher:  publisher,
	}
}

func (s *dreamServiceImpl) CreateDream(ctx context.Context, userID uint64, req *dto.DreamCreateDTO) (*dto.DreamCreatedDTO, error) {
	if err := validateDTO(req); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" || util.IsBlank(req.Content) {
		return nil, fmt.Errorf("%w: 标题和内容不能为空", ErrParamInvalid)
	}

	dream := &model.Dream{
		UserID:    userID,
		Title:     title,
		Content:   req.Content,
		DreamDate: time.UnixMilli(*req.DreamDate),
		ImageURL:  req.ImageURL,
		ImageKey:  req.ImageKey,
	}
	if err := s.dreamRepo.CreateDream(ctx, dream); err != nil {
		return nil, wrapWriteErr(err)
	}

	s.syncIndex(ctx, dream)
	s.publisher.Publish(ctx, kafka.NewEvent(consts.EventDreamCreated, dream.ID, userID, userID, nil))
	return &dto.DreamCreatedDTO{DreamID: dream.ID}, nil
}

// GetDream 详情，登录用户额外并发加载点赞、收藏与评分状态
func (s *dreamServiceImpl) GetDream(ctx context.Context, viewerID, dreamID uint64) (*dto.DreamDetailDTO, error) {
	dream, err := s.dreamRepo.GetDream(ctx, dreamID)
	if err != nil {
		if degradeRead(ctx, "GetDream", err) {
			return nil, ErrDreamNotFound
		}
		return nil, err
	}
	if dream == nil {
		return nil, ErrDreamNotFound
	}

	dreamDTO, err := toDreamDTO(dream)
	if err != nil {
		return nil, err
	}
	detail := &dto.DreamDetailDTO{DreamDTO: *dreamDTO}
	if viewerID == 0 {
		return detail, nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		liked, err := s.actionRepo.CheckLikeExists(gCtx, viewerID, dreamID)
		detail.IsLiked = liked
		return err
	})
	g.Go(func() error {
		favorited, err := s.actionRepo.CheckFavoriteExists(gCtx, viewerID, dreamID)
		detail.IsFavorited = favorited
		return err
	})
	g.Go(func() error {
		rating, err := s.ratingRepo.GetRating(gCtx, viewerID, dreamID)
		if rating != nil {
			detail.MyRating = util.PtrInt(rating.Rating)
		}
		return err
	})
	if err = g.Wait(); err != nil {
		log.WarnContext(ctx, "load viewer state error", "dreamID", dreamID, "err", err)
	}
	return detail, nil
}

func (s *dreamServiceImpl) ListDreams(ctx context.Context, viewerID uint64, page *dto.PageDTO) ([]*dto.DreamDTO, error) {
	limit, offset, err := normalizePage(page.Limit, page.Offset, consts.DefaultDreamPageSize, consts.MaxDreamPageSize)
	if err != nil {
		return nil, err
	}

	dreams, err := s.dreamRepo.ListDreams(ctx, limit, offset)
	if err != nil {
		if degradeRead(ctx, "ListDreams", err) {
			return []*dto.DreamDTO{}, nil
		}
		return nil, err
	}
	return s.buildList(ctx, viewerID, dreams)
}

func (s *dreamServiceImpl) ListMyDreams(ctx context.Context, userID uint64, page *dto.PageDTO) ([]*dto.DreamDTO, error) {
	limit, offset, err := normalizePage(page.Limit, page.Offset, consts.DefaultDreamPageSize, consts.MaxDreamPageSize)
	if err != nil {
		return nil, err
	}

	dreams, err := s.dreamRepo.ListDreamsByUser(ctx, userID, limit, offset)
	if err != nil {
		if degradeRead(ctx, "ListMyDreams", err) {
			return []*dto.DreamDTO{}, nil
		}
		return nil, err
	}
	return s.buildList(ctx, userID, dreams)
}

// UpdateDream 只有作者可以修改，未传字段保持不变
func (s *dreamServiceImpl) UpdateDream(ctx context.Context, userID uint64, req *dto.DreamUpdateDTO) error {
	if err := validateDTO(req); err != nil {
		return err
	}

	updates := make(map[string]any)
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return fmt.Errorf("%w: 标题不能为空", ErrParamInvalid)
		}
		updates["title"] = title
	}
	if req.Content != nil {
		if util.IsBlank(*req.Content) {
			return fmt.Errorf("%w: 内容不能为空", ErrParamInvalid)
		}
		updates["content"] = *req.Content
	}
	if req.DreamDate != nil {
		updates["dream_date"] = time.UnixMilli(*req.DreamDate)
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.ImageKey != nil {
		updates["image_key"] = *req.ImageKey
	}

	dream, err := s.getOwnedDream(ctx, userID, req.DreamID)
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		return nil
	}

	if err = s.dreamRepo.UpdateDream(ctx, dream.ID, updates); err != nil {
		return wrapWriteErr(err)
	}

	if updated, err := s.dreamRepo.GetDream(ctx, dream.ID); err == nil && updated != nil {
		s.syncIndex(ctx, updated)
	}
	s.publisher.Publish(ctx, kafka.NewEvent(consts.EventDreamUpdated, dream.ID, userID, dream.UserID, nil))
	return nil
}

// DeleteDream 级联删除互动数据，插画对象尽力清理
func (s *dreamServiceImpl) DeleteDream(ctx context.Context, userID, dreamID uint64) error {
	dream, err := s.getOwnedDream(ctx, userID, dreamID)
	if err != nil {
		return err
	}

	if err = s.dreamRepo.DeleteDream(ctx, dreamID); err != nil {
		return wrapWriteErr(err)
	}

	if dream.ImageKey != nil && *dream.ImageKey != "" && s.mediaStore != nil {
		if err = s.mediaStore.Delete(ctx, *dream.ImageKey); err != nil {
			log.WarnContext(ctx, "delete dream image error", "dreamID", dreamID, "key", *dream.ImageKey, "err", err)
		}
	}
	if s.searchRepo != nil {
		if err = s.searchRepo.DeleteDream(ctx, dreamID); err != nil {
			log.WarnContext(ctx, "delete dream from index error", "dreamID", dreamID, "err", err)
		}
	}
	s.publisher.Publish(ctx, kafka.NewEvent(consts.EventDreamDeleted, dreamID, userID, dream.UserID, nil))
	return nil
}

// SearchDreams 全文检索命中后回表，保持相关度顺序
func (s *dreamServiceImpl) SearchDreams(ctx context.Context, viewerID uint64, req *dto.DreamSearchDTO) ([]*dto.DreamDTO, error) {
	if err := validateDTO(req); err != nil {
		return nil, err
	}
	limit, offset, err := normalizePage(req.Limit, req.Offset, consts.DefaultDreamPageSize, consts.MaxDreamPageSize)
	if err != nil {
		return nil, err
	}
	if s.searchRepo == nil {
		return nil, ErrFeatureDisabled
	}

	ids, err := s.searchRepo.SearchDreamIDs(ctx, strings.TrimSpace(req.Keyword), offset, limit)
	if err != nil {
		log.WarnContext(ctx, "search dreams error", "keyword", req.Keyword, "err", err)
		return []*dto.DreamDTO{}, nil
	}

	dreams, err := s.dreamRepo.GetDreamsByIDs(ctx, ids)
	if err != nil {
		if degradeRead(ctx, "SearchDreams", err) {
			return []*dto.DreamDTO{}, nil
		}
		return nil, err
	}
	return s.buildList(ctx, viewerID, orderByIDs(dreams, ids))
}

// ReconcileDream 管理员手动按子表重算单个梦境的计数
func (s *dreamServiceImpl) ReconcileDream(ctx context.Context, dreamID uint64) error {
	if err := s.dreamRepo.ReconcileCounters(ctx, dreamID); err != nil {
		if isRecordNotFound(err) {
			return ErrDreamNotFound
		}
		return wrapWriteErr(err)
	}
	log.InfoContext(ctx, "dream counters reconciled", "dreamID", dreamID)
	return nil
}

func (s *dreamServiceImpl) getOwnedDream(ctx context.Context, userID, dreamID uint64) (*model.Dream, error) {
	dream, err := s.dreamRepo.GetDream(ctx, dreamID)
	if err != nil {
		return nil, wrapWriteErr(err)
	}
	if dream == nil {
		return nil, ErrDreamNotFound
	}
	if dream.UserID != userID {
		return nil, ErrForbidden
	}
	return dream, nil
}

func (s *dreamServiceImpl) buildList(ctx context.Context, viewerID uint64, dreams []*model.Dream) ([]*dto.DreamDTO, error) {
	list, err := toDreamDTOs(dreams)
	if err != nil {
		return nil, err
	}
	decorateViewerState(ctx, s.actionRepo, viewerID, list)
	return list, nil
}

func (s *dreamServiceImpl) syncIndex(ctx context.Context, dream *model.Dream) {
	if s.searchRepo == nil {
		return
	}
	if err := s.searchRepo.IndexDream(ctx, dream); err != nil {
		log.WarnContext(ctx, "index dream error", "dreamID", dream.ID, "err", err)
	}
}

// decorateViewerState 为列表填充当前用户的点赞与收藏状态，失败时保持默认值
func decorateViewerState(ctx context.Context, actionRepo repository.DreamActionRepo, viewerID uint64, list []*dto.DreamDTO) {
	if viewerID == 0 || len(list) == 0 {
		return
	}
	ids := make([]uint64, 0, len(list))
	for _, item := range list {
		ids = append(ids, item.ID)
	}

	var liked, favorited []uint64
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		liked, err = actionRepo.GetLikedDreamIDs(gCtx, viewerID, ids)
		return err
	})
	g.Go(func() error {
		var err error
		favorited, err = actionRepo.GetFavoritedDreamIDs(gCtx, viewerID, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		log.WarnContext(ctx, "load viewer state error", "viewerID", viewerID, "err", err)
		return
	}

	likedSet, favoritedSet := util.Uint64Set(liked), util.Uint64Set(favorited)
	for _, item := range list {
		_, item.IsLiked = likedSet[item.ID]
		_, item.IsFavorited = favoritedSet[item.ID]
	}
}

// orderByIDs 按 ids 的顺序重排，丢弃已不存在的记录
func orderByIDs(dreams []*model.Dream, ids []uint64) []*model.Dream {
	byID := make(map[uint64]*model.Dream, len(dreams))
	for _, dream := range dreams {
		byID[dream.ID] = dream
	}
	ordered := make([]*model.Dream, 0, len(ids))
	for _, id := range ids {
		if dream, ok := byID[id]; ok {
			ordered = append(ordered, dream)
		}
	}
	return ordered
}
