package service

import (
	"Dreamscape/internal/api/dto"
	"Dreamscape/internal/model"
	"Dreamscape/internal/pkg/consts"
	"Dreamscape/internal/pkg/llm"
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type analysisDeps struct {
	analysisRepo *MockAnalysisRepo
	dreamRepo    *MockDreamRepo
	analyzer     *MockAnalyzer
	imageGen     *MockImageGenerator
	mediaStore   *MockMediaStore
	locker       *MockLocker
	publisher    *recordingPublisher
}

func newAnalysisServiceForTest(timeout time.Duration) (AnalysisService, *analysisDeps) {
	deps := &analysisDeps{
		analysisRepo: new(MockAnalysisRepo),
		dreamRepo:    new(MockDreamRepo),
		analyzer:     new(MockAnalyzer),
		imageGen:     new(MockImageGenerator),
		mediaStore:   new(MockMediaStore),
		locker:       new(MockLocker),
		publisher:    &recordingPublisher{},
	}
	svc := NewAnalysisService(deps.analysisRepo, deps.dreamRepo, deps.analyzer, deps.imageGen,
		deps.mediaStore, deps.locker, deps.publisher, timeout, timeout)
	return svc, deps
}

func storedAnalysis(dreamID uint64) *model.DreamAnalysis {
	return &model.DreamAnalysis{
		ID:                   1,
		DreamID:              dreamID,
		Symbolism:            "water",
		EmotionalAnalysis:    "calm",
		PsychologicalInsight: "release",
		CreatedAt:            time.Now(),
	}
}

func TestGenerateAnalysis_ReturnsExisting(t *testing.T) {
	svc, deps := newAnalysisServiceForTest(time.Second)
	deps.dreamRepo.On("GetDream", mock.Anything, uint64(5)).Return(sampleDream(5, 1), nil)
	deps.analysisRepo.On("GetByDreamID", mock.Anything, uint64(5)).Return(storedAnalysis(5), nil)

	out, err := svc.GenerateAnalysis(context.Background(), 2, 5)

	require.NoError(t, err)
	assert.Equal(t, "water", out.Symbolism)
	deps.analyzer.AssertNotCalled(t, "AnalyzeDream", mock.Anything, mock.Anything)
	deps.locker.AssertNotCalled(t, "TryLock", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateAnalysis_CreatesOnce(t *testing.T) {
	svc, deps := newAnalysisServiceForTest(time.Second)
	dream := sampleDream(5, 1)
	deps.dreamRepo.On("GetDream", mock.Anything, uint64(5)).Return(dream, nil)
	deps.analysisRepo.On("GetByDreamID", mock.Anything, uint64(5)).Return(nil, nil)
	deps.locker.On("TryLock", mock.Anything, consts.DreamAnalysisLock+"5", mock.Anything, mock.Anything, 0).Return(true, nil)
	deps.locker.On("UnLock", mock.Anything, consts.DreamAnalysisLock+"5", mock.Anything).Return()
	deps.analyzer.On("AnalyzeDream", mock.Anything, dream.Title+"\n\n"+dream.Content).
		Return(&llm.DreamAnalysisResult{Symbolism: "water", EmotionalAnalysis: "calm", PsychologicalInsight: "release"}, nil)
	deps.analysisRepo.On("CreateIfAbsent", mock.Anything, mock.AnythingOfType("*model.DreamAnalysis")).
		Return(storedAnalysis(5), true, nil)

	out, err := svc.GenerateAnalysis(context.Background(), 2, 5)

	require.NoError(t, err)
	assert.Equal(t, uint64(5), out.DreamID)
	assert.Equal(t, "release", out.PsychologicalInsight)
	assert.NotEmpty(t, out.CreatedAt)
	assert.Equal(t, []string{consts.EventDreamAnalyzed}, deps.publisher.types())
	deps.locker.AssertExpectations(t)
}

func TestGenerateAnalysis_LostRaceReturnsStoredRow(t *testing.T) {
	svc, deps := newAnalysisServiceForTest(time.Second)
	deps.dreamRepo.On("GetDream", mock.Anything, uint64(5)).Return(sampleDream(5, 1), nil)
	deps.analysisRepo.On("GetByDreamID", mock.Anything, uint64(5)).Return(nil, nil)
	deps.locker.On("TryLock", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	deps.locker.On("UnLock", mock.Anything, mock.Anything, mock.Anything).Return()
	deps.analyzer.On("AnalyzeDream", mock.Anything, mock.Anything).
		Return(&llm.DreamAnalysisResult{Symbolism: "late", EmotionalAnalysis: "late", PsychologicalInsight: "late"}, nil)
	deps.analysisRepo.On("CreateIfAbsent", mock.Anything, mock.Anything).Return(storedAnalysis(5), false, nil)

	out, err := svc.GenerateAnalysis(context.Background(), 2, 5)

	require.NoError(t, err)
	assert.Equal(t, "water", out.Symbolism)
	assert.Empty(t, deps.publisher.types())
}

func TestGenerateAnalysis_BusyLock(t *testing.T) {
	svc, deps := newAnalysisServiceForTest(time.Second)
	deps.dreamRepo.On("GetDream", mock.Anything, uint64(5)).Return(sampleDream(5, 1), nil)
	deps.analysisRepo.On("GetByDreamID", mock.Anything, uint64(5)).Return(nil, nil)
	deps.locker.On("TryLock", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

	_, err := svc.GenerateAnalysis(context.Background(), 2, 5)

	assert.Equal(t, ErrAnalysisInProgress, err)
	deps.analyzer.AssertNotCalled(t, "AnalyzeDream", mock.Anything, mock.Anything)
}

func TestGenerateAnalysis_UpstreamTimeout(t *testing.T) {
	svc, deps := newAnalysisServiceForTest(20 * time.Millisecond)
	deps.dreamRepo.On("GetDream", mock.Anything, uint64(5)).Return(sampleDream(5, 1), nil)
	deps.analysisRepo.On("GetByDreamID", mock.Anything, uint64(5)).Return(nil, nil)
	deps.locker.On("TryLock", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	deps.locker.On("UnLock", mock.Anything, mock.Anything, mock.Anything).Return()
	deps.analyzer.On("AnalyzeDream", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.DeadlineExceeded)

	_, err := svc.GenerateAnalysis(context.Background(), 2, 5)

	assert.True(t, errors.Is(err, ErrAIUpstreamTimeout))
	deps.analysisRepo.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
}

func TestGenerateAnalysis_UpstreamFailure(t *testing.T) {
	svc, deps := newAnalysisServiceForTest(time.Second)
	deps.dreamRepo.On("GetDream", mock.Anything, uint64(5)).Return(sampleDream(5, 1), nil)
	deps.analysisRepo.On("GetByDreamID", mock.Anything, uint64(5)).Return(nil, nil)
	deps.locker.On("TryLock", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	deps.locker.On("UnLock", mock.Anything, mock.Anything, mock.Anything).Return()
	deps.analyzer.On("AnalyzeDream", mock.Anything, mock.Anything).Return(nil, llm.ErrMalformedOutput)

	_, err := svc.GenerateAnalysis(context.Background(), 2, 5)

	assert.True(t, errors.Is(err, ErrAIUpstreamFailure))
}

func TestGenerateAnalysis_DreamNotFound(t *testing.T) {
	svc, deps := newAnalysisServiceForTest(time.Second)
	deps.dreamRepo.On("GetDream", mock.Anything, uint64(5)).Return(nil, nil)

	_, err := svc.GenerateAnalysis(context.Background(), 2, 5)

	assert.Equal(t, ErrDreamNotFound, err)
}

func TestGetAnalysis_Absent(t *testing.T) {
	svc, deps := newAnalysisServiceForTest(time.Second)
	deps.analysisRepo.On("GetByDreamID", mock.Anything, uint64(5)).Return(nil, nil)

	out, err := svc.GetAnalysis(context.Background(), 5)

	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestBuildDreamImagePrompt(t *testing.T) {
	dream := &model.Dream{Title: "Moon", Content: strings.Repeat("夜", 250)}

	prompt := BuildDreamImagePrompt(dream)

	assert.True(t, strings.HasPrefix(prompt, "A dreamlike, surreal scene: Moon. "))
	assert.Contains(t, prompt, strings.Repeat("夜", 200)+". Artistic")
	assert.NotContains(t, prompt, strings.Repeat("夜", 201))
}

func TestGenerateImage_ReturnsURL(t *testing.T) {
	svc, deps := newAnalysisServiceForTest(time.Second)
	deps.imageGen.On("GenerateImage", mock.Anything, "a red door").Return(&llm.ImageResult{URL: "https://img/x.png"}, nil)

	out, err := svc.GenerateImage(context.Background(), &dto.ImageGenerateDTO{Prompt: "a red door"})

	require.NoError(t, err)
	assert.Equal(t, "https://img/x.png", out.URL)
	deps.mediaStore.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateImage_UploadsInlineData(t *testing.T) {
	svc, deps := newAnalysisServiceForTest(time.Second)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	deps.imageGen.On("GenerateImage", mock.Anything, mock.Anything).Return(&llm.ImageResult{Data: buf.Bytes()}, nil)
	deps.mediaStore.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "dreams/images/") && strings.HasSuffix(key, ".jpg")
	}), mock.Anything, mock.Anything, "image/jpeg").Return("dreams/images/k.jpg", "https://oss/k.jpg", nil)

	out, err := svc.GenerateImage(context.Background(), &dto.ImageGenerateDTO{Prompt: "p"})

	require.NoError(t, err)
	assert.Equal(t, &dto.ImageDTO{URL: "https://oss/k.jpg", Key: "dreams/images/k.jpg"}, out)
}

func TestGenerateImage_EmptyPrompt(t *testing.T) {
	svc, deps := newAnalysisServiceForTest(time.Second)

	_, err := svc.GenerateImage(context.Background(), &dto.ImageGenerateDTO{})

	assert.True(t, errors.Is(err, ErrParamInvalid))
	deps.imageGen.AssertNotCalled(t, "GenerateImage", mock.Anything, mock.Anything)
}

func TestGenerateDreamImage_WritesBack(t *testing.T) {
	svc, deps := newAnalysisServiceForTest(time.Second)
	dream := sampleDream(5, 1)
	deps.dreamRepo.On("GetDream", mock.Anything, uint64(5)).Return(dream, nil)
	deps.imageGen.On("GenerateImage", mock.Anything, BuildDreamImagePrompt(dream)).Return(&llm.ImageResult{URL: "https://img/d.png"}, nil)
	deps.dreamRepo.On("UpdateDream", mock.Anything, uint64(5), map[string]any{"image_url": "https://img/d.png", "image_key": nil}).Return(nil)

	out, err := svc.GenerateDreamImage(context.Background(), 1, 5)

	require.NoError(t, err)
	assert.Equal(t, "https://img/d.png", out.URL)
	deps.dreamRepo.AssertExpectations(t)
	assert.Equal(t, []string{consts.EventDreamUpdated}, deps.publisher.types())
}

func TestGenerateDreamImage_Forbidden(t *testing.T) {
	svc, deps := newAnalysisServiceForTest(time.Second)
	deps.dreamRepo.On("GetDream", mock.Anything, uint64(5)).Return(sampleDream(5, 1), nil)

	_, err := svc.GenerateDreamImage(context.Background(), 2, 5)

	assert.Equal(t, ErrForbidden, err)
	deps.imageGen.AssertNotCalled(t, "GenerateImage", mock.Anything, mock.Anything)
}
