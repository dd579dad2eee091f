package llm

import (
	"Dreamscape/internal/api/config"
	"Dreamscape/internal/pkg/metrics"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	log "log/slog"
	"time"
)

// ImageResult 上游返回 URL 时直接使用，返回 base64 时 Data 为解码后的图片
type ImageResult struct {
	URL  string
	Data []byte
}

type imageRequest struct {
	Model  string `json:"model,omitempty"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size,omitempty"`
}

type imageResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ImageGenerator 调用 OpenAI 兼容的 /images/generations 接口
type ImageGenerator struct{}

func NewImageGenerator() *ImageGenerator {
	return &ImageGenerator{}
}

func (s *ImageGenerator) GenerateImage(ctx context.Context, prompt string) (*ImageResult, error) {
	if imageClient == nil {
		return nil, errors.New("image client is not initialized")
	}
	if err := ImageSem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer ImageSem.Release(1)

	start := time.Now()
	result, err := s.generate(ctx, prompt)
	metrics.RecordAICall("image", err, time.Since(start))
	if err != nil {
		log.ErrorContext(ctx, "插画生成-请求失败", "err", err)
		return nil, err
	}
	return result, nil
}

func (s *ImageGenerator) generate(ctx context.Context, prompt string) (*ImageResult, error) {
	cfg := config.Cfg.Image

	var out imageResponse
	resp, err := imageClient.R().
		SetContext(ctx).
		SetBody(&imageRequest{
			Model:  cfg.Model,
			Prompt: prompt,
			N:      1,
			Size:   cfg.Size,
		}).
		SetResult(&out).
		SetError(&out).
		Post("/images/generations")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		if out.Error != nil && out.Error.Message != "" {
			return nil, fmt.Errorf("image api status %d: %s", resp.StatusCode(), out.Error.Message)
		}
		return nil, fmt.Errorf("image api status %d", resp.StatusCode())
	}
	if len(out.Data) == 0 {
		return nil, ErrMalformedOutput
	}

	item := out.Data[0]
	if item.URL != "" {
		return &ImageResult{URL: item.URL}, nil
	}
	if item.B64JSON == "" {
		return nil, ErrMalformedOutput
	}
	data, err := base64.StdEncoding.DecodeString(item.B64JSON)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return &ImageResult{Data: data}, nil
}
