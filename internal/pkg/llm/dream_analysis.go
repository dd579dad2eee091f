package llm

import (
	"Dreamscape/internal/pkg/metrics"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

var ErrMalformedOutput = errors.New("AI 返回格式不正确")

// DreamAnalysisResult 三个字段均为必填
type DreamAnalysisResult struct {
	Symbolism            string `json:"symbolism"`
	EmotionalAnalysis    string `json:"emotionalAnalysis"`
	PsychologicalInsight string `json:"psychologicalInsight"`
}

// DreamAnalyzer 调用文本模型解析梦境
type DreamAnalyzer struct{}

func NewDreamAnalyzer() *DreamAnalyzer {
	return &DreamAnalyzer{}
}

// AnalyzeDream text 为 标题 + 空行 + 正文
func (s *DreamAnalyzer) AnalyzeDream(ctx context.Context, text string) (*DreamAnalysisResult, error) {
	if llmClient == nil {
		return nil, errors.New("llm client is not initialized")
	}

	start := time.Now()
	resp, err := fetchModel(ctx, dreamAnalysisPrompt, text, 0.7)
	if err == nil && len(resp.Choices) == 0 {
		err = ErrMalformedOutput
	}
	var result *DreamAnalysisResult
	if err == nil {
		result, err = ParseDreamAnalysis(resp.Choices[0].Content)
	}
	metrics.RecordAICall("analysis", err, time.Since(start))

	if err != nil {
		log.ErrorContext(ctx, "梦境解析-AI大模型请求失败", "err", err)
		return nil, err
	}
	return result, nil
}

// ParseDreamAnalysis 解析模型输出，缺少任一字段视为格式错误
func ParseDreamAnalysis(content string) (*DreamAnalysisResult, error) {
	var result DreamAnalysisResult
	if err := json.Unmarshal([]byte(cleanJSON(content)), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	result.Symbolism = strings.TrimSpace(result.Symbolism)
	result.EmotionalAnalysis = strings.TrimSpace(result.EmotionalAnalysis)
	result.PsychologicalInsight = strings.TrimSpace(result.PsychologicalInsight)
	if result.Symbolism == "" || result.EmotionalAnalysis == "" || result.PsychologicalInsight == "" {
		return nil, fmt.Errorf("%w: missing field", ErrMalformedOutput)
	}
	return &result, nil
}
