package dto

type AnalysisDTO struct {
	ID                   uint64 `json:"id"`
	DreamID              uint64 `json:"dream_id"`
	Symbolism            string `json:"symbolism"`
	EmotionalAnalysis    string `json:"emotional_analysis"`
	PsychologicalInsight string `json:"psychological_insight"`
	CreatedAt            string `json:"created_at"`
}

type ImageGenerateDTO struct {
	Prompt string `json:"prompt" binding:"required" validate:"required,max=1000"`
}

// ImageDTO 生成的插画，Key 仅在转存到对象存储时返回
type ImageDTO struct {
	URL string `json:"url"`
	Key string `json:"key,omitempty"`
}
