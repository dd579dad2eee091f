package llm

import (
	"Dreamscape/internal/api/config"
	"errors"
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var (
	llmClient   llms.Model
	imageClient *resty.Client

	dreamAnalysisPrompt string
)

// InitLLM 初始化文本模型与插画生成客户端
func InitLLM() error {
	cfg := config.Cfg.LLM

	llm, err := openai.New(
		openai.WithModel(cfg.TextModel),
		openai.WithToken(cfg.ApiKey),
		openai.WithBaseURL(cfg.URL),
	)
	if err != nil {
		log.Error("AI大模型初始化失败", "err", err)
		return err
	}
	llmClient = llm

	dreamAnalysisPrompt = readPrompt(cfg.PromptsPath.DreamAnalysis)
	if dreamAnalysisPrompt == "" {
		return errors.New("dream analysis prompt is empty")
	}

	imageCfg := config.Cfg.Image
	imageClient = resty.New().
		SetBaseURL(imageCfg.URL).
		SetAuthToken(imageCfg.ApiKey).
		SetTimeout(time.Duration(imageCfg.Timeout) * time.Second).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	return nil
}
