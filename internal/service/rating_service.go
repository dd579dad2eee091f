package service

import (
	"Dreamscape/internal/api/dto"
	"Dreamscape/internal/pkg/consts"
	"Dreamscape/internal/pkg/kafka"
	"Dreamscape/internal/pkg/metrics"
	"Dreamscape/internal/repository"
	"context"
	"time"
)

type RatingService interface {
	RateDream(ctx context.Context, userID uint64, req *dto.RateDTO) (*dto.RatingStatsDTO, error)
	GetUserRating(ctx context.Context, userID, dreamID uint64) (*dto.UserRatingDTO, error)
	TopRated(ctx context.Context, viewerID uint64, req *dto.LeaderboardQueryDTO) ([]*dto.DreamDTO, error)
}

type ratingServiceImpl struct {
	ratingRepo repository.RatingRepo
	dreamRepo  repository.DreamRepo
	actionRepo repository.DreamActionRepo
	publisher  kafka.Publisher
	now        func() time.Time
}

func NewRatingService(
	ratingRepo repository.RatingRepo,
	dreamRepo repository.DreamRepo,
	actionRepo repository.DreamActionRepo,
	publisher kafka.Publisher,
) RatingService {
	return &ratingServiceImpl{
		ratingRepo: ratingRepo,
		dreamRepo:  dreamRepo,
		actionRepo: actionRepo,
		publisher:  publisher,
		now:        time.Now,
	}
}

// RateDream 重复评分覆盖旧值，返回重算后的均值(x10)与人数
func (s *ratingServiceImpl) RateDream(ctx context.Context, userID uint64, req *dto.RateDTO) (*dto.RatingStatsDTO, error) {
	if err := validateDTO(req); err != nil {
		return nil, err
	}

	average, count, err := s.ratingRepo.UpsertRating(ctx, userID, req.DreamID, req.Rating)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrDreamNotFound
		}
		return nil, wrapWriteErr(err)
	}

	metrics.RecordInteraction(consts.EventDreamRated)
	if dream, err := s.dreamRepo.GetDream(ctx, req.DreamID); err == nil && dream != nil {
		s.publisher.Publish(ctx, kafka.NewEvent(consts.EventDreamRated, dream.ID, userID, dream.UserID, map[string]any{
			kafka.PayloadTitle:  dream.Title,
			kafka.PayloadRating: req.Rating,
		}))
	}
	return &dto.RatingStatsDTO{AverageRating: average, RatingCount: count}, nil
}

func (s *ratingServiceImpl) GetUserRating(ctx context.Context, userID, dreamID uint64) (*dto.UserRatingDTO, error) {
	rating, err := s.ratingRepo.GetRating(ctx, userID, dreamID)
	if err != nil {
		if degradeRead(ctx, "GetUserRating", err) {
			return &dto.UserRatingDTO{}, nil
		}
		return nil, err
	}
	if rating == nil {
		return &dto.UserRatingDTO{}, nil
	}
	value := rating.Rating
	return &dto.UserRatingDTO{Rating: &value}, nil
}

// TopRated 时间窗口在每次调用时按当前时间计算
func (s *ratingServiceImpl) TopRated(ctx context.Context, viewerID uint64, req *dto.LeaderboardQueryDTO) ([]*dto.DreamDTO, error) {
	if req.Limit == 0 {
		req.Limit = consts.DefaultLeaderboardSize
	}
	if req.TimeRange == "" {
		req.TimeRange = consts.TimeRangeAll
	}
	if err := validateDTO(req); err != nil {
		return nil, err
	}

	var since *time.Time
	switch req.TimeRange {
	case consts.TimeRangeWeek:
		t := s.now().AddDate(0, 0, -7)
		since = &t
	case consts.TimeRangeMonth:
		t := s.now().AddDate(0, 0, -30)
		since = &t
	}

	dreams, err := s.dreamRepo.GetTopRated(ctx, req.Limit, since)
	if err != nil {
		if degradeRead(ctx, "TopRated", err) {
			return []*dto.DreamDTO{}, nil
		}
		return nil, err
	}

	list, err := toDreamDTOs(dreams)
	if err != nil {
		return nil, err
	}
	decorateViewerState(ctx, s.actionRepo, viewerID, list)
	return list, nil
}
