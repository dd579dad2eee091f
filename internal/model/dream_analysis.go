package model

import (
	"time"
)

// DreamAnalysis 每个梦境至多一条，生成后不再修改
type DreamAnalysis struct {
	ID                   uint64    `gorm:"primaryKey" json:"id"`
	DreamID              uint64    `gorm:"not null;uniqueIndex:idx_dream_analyses_dream_id" json:"dreamId"`
	Symbolism            string    `gorm:"type:text;not null" json:"symbolism"`
	EmotionalAnalysis    string    `gorm:"type:text;not null" json:"emotionalAnalysis"`
	PsychologicalInsight string    `gorm:"type:text;not null" json:"psychologicalInsight"`
	CreatedAt            time.Time `json:"createdAt"`
}

func (DreamAnalysis) TableName() string {
	return "dream_analyses"
}
