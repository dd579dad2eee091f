package handler

import (
	"Dreamscape/internal/api/dto"
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRatingService mocks service.RatingService
type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) RateDream(ctx context.Context, userID uint64, req *dto.RateDTO) (*dto.RatingStatsDTO, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RatingStatsDTO), args.Error(1)
}

func (m *MockRatingService) GetUserRating(ctx context.Context, userID, dreamID uint64) (*dto.UserRatingDTO, error) {
	args := m.Called(ctx, userID, dreamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserRatingDTO), args.Error(1)
}

func (m *MockRatingService) TopRated(ctx context.Context, viewerID uint64, req *dto.LeaderboardQueryDTO) ([]*dto.DreamDTO, error) {
	args := m.Called(ctx, viewerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dto.DreamDTO), args.Error(1)
}

func TestRateDream_Success(t *testing.T) {
	svc := new(MockRatingService)
	h := NewRatingHandler(svc)
	r := setupRouter()
	r.POST("/dreams/:dream_id/rating", withUser(2), h.RateDream)
	svc.On("RateDream", mock.Anything, uint64(2), &dto.RateDTO{DreamID: 5, Rating: 4}).
		Return(&dto.RatingStatsDTO{AverageRating: 40, RatingCount: 3}, nil)

	resp := doRequest(t, r, "POST", "/dreams/5/rating", map[string]any{"rating": 4})

	assert.Equal(t, 200, resp.Code)
	var data dto.RatingStatsDTO
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, 40, data.AverageRating)
	assert.Equal(t, 3, data.RatingCount)
}

func TestRateDream_BadBody(t *testing.T) {
	svc := new(MockRatingService)
	h := NewRatingHandler(svc)
	r := setupRouter()
	r.POST("/dreams/:dream_id/rating", withUser(2), h.RateDream)

	assert.Equal(t, 400, doRequest(t, r, "POST", "/dreams/5/rating", map[string]any{"rating": "five"}).Code)
	assert.Equal(t, 400, doRequest(t, r, "POST", "/dreams/5/rating", nil).Code)
	svc.AssertNotCalled(t, "RateDream", mock.Anything, mock.Anything, mock.Anything)
}

func TestLeaderboard_Query(t *testing.T) {
	svc := new(MockRatingService)
	h := NewRatingHandler(svc)
	r := setupRouter()
	r.GET("/dreams/leaderboard", withUser(0), h.Leaderboard)
	svc.On("TopRated", mock.Anything, uint64(0), &dto.LeaderboardQueryDTO{Limit: 3, TimeRange: "week"}).
		Return([]*dto.DreamDTO{{ID: 2}, {ID: 1}}, nil)

	resp := doRequest(t, r, "GET", "/dreams/leaderboard?limit=3&time_range=week", nil)

	assert.Equal(t, 200, resp.Code)
	var data []dto.DreamDTO
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.Len(t, data, 2)
	assert.Equal(t, uint64(2), data[0].ID)
}
