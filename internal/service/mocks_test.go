package service

import (
	"Dreamscape/internal/model"
	"Dreamscape/internal/pkg/kafka"
	"Dreamscape/internal/pkg/llm"
	"context"
	"io"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockDreamRepo mocks repository.DreamRepo
type MockDreamRepo struct {
	mock.Mock
}

func (m *MockDreamRepo) CreateDream(ctx context.Context, dream *model.Dream) error {
	args := m.Called(ctx, dream)
	return args.Error(0)
}

func (m *MockDreamRepo) GetDream(ctx context.Context, id uint64) (*model.Dream, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dream), args.Error(1)
}

func (m *MockDreamRepo) GetDreamsByIDs(ctx context.Context, ids []uint64) ([]*model.Dream, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Dream), args.Error(1)
}

func (m *MockDreamRepo) ListDreams(ctx context.Context, limit, offset int) ([]*model.Dream, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Dream), args.Error(1)
}

func (m *MockDreamRepo) ListDreamsByUser(ctx context.Context, userID uint64, limit, offset int) ([]*model.Dream, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Dream), args.Error(1)
}

func (m *MockDreamRepo) UpdateDream(ctx context.Context, id uint64, updates map[string]any) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockDreamRepo) DeleteDream(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDreamRepo) IncrLikes(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDreamRepo) DecrLikes(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDreamRepo) IncrComments(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDreamRepo) DecrComments(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDreamRepo) IncrFavorites(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDreamRepo) DecrFavorites(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDreamRepo) UpdateRatingStats(ctx context.Context, id uint64, average, count int) error {
	return m.Called(ctx, id, average, count).Error(0)
}

func (m *MockDreamRepo) GetTopRated(ctx context.Context, limit int, since *time.Time) ([]*model.Dream, error) {
	args := m.Called(ctx, limit, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Dream), args.Error(1)
}

func (m *MockDreamRepo) ListDreamIDs(ctx context.Context, afterID uint64, limit int) ([]uint64, error) {
	args := m.Called(ctx, afterID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint64), args.Error(1)
}

func (m *MockDreamRepo) ReconcileCounters(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

// MockDreamActionRepo mocks repository.DreamActionRepo
type MockDreamActionRepo struct {
	mock.Mock
}

func (m *MockDreamActionRepo) ToggleLike(ctx context.Context, userID, dreamID uint64) (bool, int, error) {
	args := m.Called(ctx, userID, dreamID)
	return args.Bool(0), args.Int(1), args.Error(2)
}

func (m *MockDreamActionRepo) CheckLikeExists(ctx context.Context, userID, dreamID uint64) (bool, error) {
	args := m.Called(ctx, userID, dreamID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDreamActionRepo) GetLikedDreamIDs(ctx context.Context, userID uint64, dreamIDs []uint64) ([]uint64, error) {
	args := m.Called(ctx, userID, dreamIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint64), args.Error(1)
}

func (m *MockDreamActionRepo) ToggleFavorite(ctx context.Context, userID, dreamID uint64) (bool, int, error) {
	args := m.Called(ctx, userID, dreamID)
	return args.Bool(0), args.Int(1), args.Error(2)
}

func (m *MockDreamActionRepo) CheckFavoriteExists(ctx context.Context, userID, dreamID uint64) (bool, error) {
	args := m.Called(ctx, userID, dreamID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDreamActionRepo) GetFavoritedDreamIDs(ctx context.Context, userID uint64, dreamIDs []uint64) ([]uint64, error) {
	args := m.Called(ctx, userID, dreamIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint64), args.Error(1)
}

func (m *MockDreamActionRepo) GetFavoriteDreamIDs(ctx context.Context, userID uint64, limit, offset int) ([]uint64, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint64), args.Error(1)
}

func (m *MockDreamActionRepo) CreateComment(ctx context.Context, comment *model.Comment) (int, error) {
	args := m.Called(ctx, comment)
	return args.Int(0), args.Error(1)
}

func (m *MockDreamActionRepo) DeleteComment(ctx context.Context, comment *model.Comment) (int, error) {
	args := m.Called(ctx, comment)
	return args.Int(0), args.Error(1)
}

func (m *MockDreamActionRepo) GetCommentByID(ctx context.Context, id uint64) (*model.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockDreamActionRepo) GetCommentsByDreamID(ctx context.Context, dreamID uint64, limit, offset int) ([]*model.Comment, error) {
	args := m.Called(ctx, dreamID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Comment), args.Error(1)
}

// MockRatingRepo mocks repository.RatingRepo
type MockRatingRepo struct {
	mock.Mock
}

func (m *MockRatingRepo) UpsertRating(ctx context.Context, userID, dreamID uint64, rating int) (int, int, error) {
	args := m.Called(ctx, userID, dreamID, rating)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockRatingRepo) GetRating(ctx context.Context, userID, dreamID uint64) (*model.Rating, error) {
	args := m.Called(ctx, userID, dreamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Rating), args.Error(1)
}

// MockAnalysisRepo mocks repository.AnalysisRepo
type MockAnalysisRepo struct {
	mock.Mock
}

func (m *MockAnalysisRepo) GetByDreamID(ctx context.Context, dreamID uint64) (*model.DreamAnalysis, error) {
	args := m.Called(ctx, dreamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DreamAnalysis), args.Error(1)
}

func (m *MockAnalysisRepo) CreateIfAbsent(ctx context.Context, analysis *model.DreamAnalysis) (*model.DreamAnalysis, bool, error) {
	args := m.Called(ctx, analysis)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.DreamAnalysis), args.Bool(1), args.Error(2)
}

// MockUserRepo mocks repository.UserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) UpsertUser(ctx context.Context, user *model.User, updateColumns []string) (*model.User, error) {
	args := m.Called(ctx, user, updateColumns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepo) GetUserById(ctx context.Context, id uint64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepo) GetUserByOpenID(ctx context.Context, openID string) (*model.User, error) {
	args := m.Called(ctx, openID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepo) GetUserByIds(ctx context.Context, ids []uint64) ([]*model.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

// MockSearchRepo mocks es.DreamRepo
type MockSearchRepo struct {
	mock.Mock
}

func (m *MockSearchRepo) IndexDream(ctx context.Context, dream *model.Dream) error {
	return m.Called(ctx, dream).Error(0)
}

func (m *MockSearchRepo) DeleteDream(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSearchRepo) SearchDreamIDs(ctx context.Context, keyword string, from, size int) ([]uint64, error) {
	args := m.Called(ctx, keyword, from, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint64), args.Error(1)
}

// MockMediaStore mocks MediaStore
type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, string, error) {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockMediaStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// MockLocker mocks Locker
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) TryLock(ctx context.Context, key string, value string, expiration time.Duration, retryTimes int) (bool, error) {
	args := m.Called(ctx, key, value, expiration, retryTimes)
	return args.Bool(0), args.Error(1)
}

func (m *MockLocker) UnLock(ctx context.Context, key string, value string) {
	m.Called(ctx, key, value)
}

// MockAnalyzer mocks DreamAnalyzer
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) AnalyzeDream(ctx context.Context, text string) (*llm.DreamAnalysisResult, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.DreamAnalysisResult), args.Error(1)
}

// MockImageGenerator mocks ImageGenerator
type MockImageGenerator struct {
	mock.Mock
}

func (m *MockImageGenerator) GenerateImage(ctx context.Context, prompt string) (*llm.ImageResult, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.ImageResult), args.Error(1)
}

// MockBlacklist mocks TokenBlacklist
type MockBlacklist struct {
	mock.Mock
}

func (m *MockBlacklist) Revoke(ctx context.Context, signature string, ttl time.Duration) error {
	return m.Called(ctx, signature, ttl).Error(0)
}

func (m *MockBlacklist) IsRevoked(ctx context.Context, signature string) (bool, error) {
	args := m.Called(ctx, signature)
	return args.Bool(0), args.Error(1)
}

// recordingPublisher 记录投递的事件
type recordingPublisher struct {
	mu     sync.Mutex
	events []*kafka.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event *kafka.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
