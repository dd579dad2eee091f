package service

import (
	"Dreamscape/internal/api/dto"
	"Dreamscape/internal/model"
	"Dreamscape/internal/pkg/consts"
	"Dreamscape/internal/pkg/kafka"
	"Dreamscape/internal/pkg/llm"
	"Dreamscape/internal/pkg/util"
	"Dreamscape/internal/repository"
	"bytes"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	dreamImagePromptTpl = "A dreamlike, surreal scene: %s. %s. Artistic, ethereal, magazine quality photography."
	dreamImageKeyPrefix = "dreams/images/"
)

type DreamAnalyzer interface {
	AnalyzeDream(ctx context.Context, text string) (*llm.DreamAnalysisResult, error)
}

type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (*llm.ImageResult, error)
}

type AnalysisService interface {
	GetAnalysis(ctx context.Context, dreamID uint64) (*dto.AnalysisDTO, error)
	GenerateAnalysis(ctx context.Context, actorID, dreamID uint64) (*dto.AnalysisDTO, error)
	GenerateImage(ctx context.Context, req *dto.ImageGenerateDTO) (*dto.ImageDTO, error)
	GenerateDreamImage(ctx context.Context, userID, dreamID uint64) (*dto.ImageDTO, error)
}

type analysisServiceImpl struct {
	analysisRepo    repository.AnalysisRepo
	dreamRepo       repository.DreamRepo
	analyzer        DreamAnalyzer
	imageGenerator  ImageGenerator
	mediaStore      MediaStore
	locker          Locker
	publisher       kafka.Publisher
	analysisTimeout time.Duration
	imageTimeout    time.Duration
}

func NewAnalysisService(
	analysisRepo repository.AnalysisRepo,
	dreamRepo repository.DreamRepo,
	analyzer DreamAnalyzer,
	imageGenerator ImageGenerator,
	mediaStore MediaStore,
	locker Locker,
	publisher kafka.Publisher,
	analysisTimeout time.Duration,
	imageTimeout time.Duration,
) AnalysisService {
	return &analysisServiceImpl{
		analysisRepo:    analysisRepo,
		dreamRepo:       dreamRepo,
		analyzer:        analyzer,
		imageGenerator:  imageGenerator,
		mediaStore:      mediaStore,
		locker:          locker,
		publisher:       publisher,
		analysisTimeout: analysisTimeout,
		imageTimeout:    imageTimeout,
	}
}

// GetAnalysis 尚未生成时返回 nil
func (s *analysisServiceImpl) GetAnalysis(ctx context.Context, dreamID uint64) (*dto.AnalysisDTO, error) {
	analysis, err := s.analysisRepo.GetByDreamID(ctx, dreamID)
	if err != nil {
		if degradeRead(ctx, "GetAnalysis", err) {
			return nil, nil
		}
		return nil, err
	}
	if analysis == nil {
		return nil, nil
	}
	return toAnalysisDTO(analysis)
}

// GenerateAnalysis 每个梦境只生成一次，已有解析直接返回
func (s *analysisServiceImpl) GenerateAnalysis(ctx context.Context, actorID, dreamID uint64) (*dto.AnalysisDTO, error) {
	dream, err := s.dreamRepo.GetDream(ctx, dreamID)
	if err != nil {
		return nil, wrapWriteErr(err)
	}
	if dream == nil {
		return nil, ErrDreamNotFound
	}

	existing, err := s.analysisRepo.GetByDreamID(ctx, dreamID)
	if err != nil {
		return nil, wrapWriteErr(err)
	}
	if existing != nil {
		return toAnalysisDTO(existing)
	}

	lockKey := consts.DreamAnalysisLock + strconv.FormatUint(dreamID, 10)
	lockValue := uuid.NewString()
	ok, err := s.locker.TryLock(ctx, lockKey, lockValue, s.analysisTimeout+10*time.Second, 0)
	if err != nil {
		return nil, err
	}
	if !ok {
		// 其他请求正在生成，若已落库则直接返回
		if existing, err = s.analysisRepo.GetByDreamID(ctx, dreamID); err == nil && existing != nil {
			return toAnalysisDTO(existing)
		}
		return nil, ErrAnalysisInProgress
	}
	defer s.locker.UnLock(ctx, lockKey, lockValue)

	if existing, err = s.analysisRepo.GetByDreamID(ctx, dreamID); err != nil {
		return nil, wrapWriteErr(err)
	} else if existing != nil {
		return toAnalysisDTO(existing)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.analysisTimeout)
	defer cancel()
	result, err := s.analyzer.AnalyzeDream(callCtx, dream.Title+"\n\n"+dream.Content)
	if err != nil {
		return nil, upstreamError(callCtx, err)
	}

	stored, created, err := s.analysisRepo.CreateIfAbsent(ctx, &model.DreamAnalysis{
		DreamID:              dreamID,
		Symbolism:            result.Symbolism,
		EmotionalAnalysis:    result.EmotionalAnalysis,
		PsychologicalInsight: result.PsychologicalInsight,
	})
	if err != nil {
		return nil, wrapWriteErr(err)
	}
	if created {
		log.InfoContext(ctx, "dream analysis created", "dreamID", dreamID)
		s.publisher.Publish(ctx, kafka.NewEvent(consts.EventDreamAnalyzed, dreamID, actorID, dream.UserID, map[string]any{
			kafka.PayloadTitle: dream.Title,
		}))
	}
	return toAnalysisDTO(stored)
}

// GenerateImage 每次调用都会重新生成，不写数据库
func (s *analysisServiceImpl) GenerateImage(ctx context.Context, req *dto.ImageGenerateDTO) (*dto.ImageDTO, error) {
	if err := validateDTO(req); err != nil {
		return nil, err
	}
	return s.generateImage(ctx, req.Prompt)
}

// GenerateDreamImage 按梦境内容生成插画并回写到梦境
func (s *analysisServiceImpl) GenerateDreamImage(ctx context.Context, userID, dreamID uint64) (*dto.ImageDTO, error) {
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

	image, err := s.generateImage(ctx, BuildDreamImagePrompt(dream))
	if err != nil {
		return nil, err
	}

	updates := map[string]any{"image_url": image.URL, "image_key": nil}
	if image.Key != "" {
		updates["image_key"] = image.Key
	}
	if err = s.dreamRepo.UpdateDream(ctx, dreamID, updates); err != nil {
		return nil, wrapWriteErr(err)
	}

	if dream.ImageKey != nil && *dream.ImageKey != "" && *dream.ImageKey != image.Key && s.mediaStore != nil {
		if err = s.mediaStore.Delete(ctx, *dream.ImageKey); err != nil {
			log.WarnContext(ctx, "delete replaced dream image error", "dreamID", dreamID, "err", err)
		}
	}
	s.publisher.Publish(ctx, kafka.NewEvent(consts.EventDreamUpdated, dreamID, userID, dream.UserID, nil))
	return image, nil
}

// BuildDreamImagePrompt 正文最多取前 200 个字符
func BuildDreamImagePrompt(dream *model.Dream) string {
	return fmt.Sprintf(dreamImagePromptTpl, dream.Title, util.TruncateRunes(dream.Content, 200))
}

func (s *analysisServiceImpl) generateImage(ctx context.Context, prompt string) (*dto.ImageDTO, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.imageTimeout)
	defer cancel()

	result, err := s.imageGenerator.GenerateImage(callCtx, prompt)
	if err != nil {
		return nil, upstreamError(callCtx, err)
	}
	if result.URL != "" {
		return &dto.ImageDTO{URL: result.URL}, nil
	}

	if s.mediaStore == nil {
		return nil, ErrFeatureDisabled
	}
	normalized, err := util.NormalizeImage(bytes.NewReader(result.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIUpstreamFailure, err)
	}
	key, url, err := s.mediaStore.Upload(ctx, dreamImageKeyPrefix+uuid.NewString()+".jpg",
		normalized.Data, int64(normalized.Data.Len()), normalized.ContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &dto.ImageDTO{URL: url, Key: key}, nil
}

// upstreamError 区分超时与其他失败，超时可重试
func upstreamError(callCtx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrAIUpstreamTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrAIUpstreamFailure, err)
}

func toAnalysisDTO(analysis *model.DreamAnalysis) (*dto.AnalysisDTO, error) {
	out := &dto.AnalysisDTO{}
	if err := copyTo(out, analysis); err != nil {
		return nil, err
	}
	return out, nil
}
