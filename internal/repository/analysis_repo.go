package repository

import (
	"Dreamscape/internal/model"
	"Dreamscape/internal/pkg/database"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnalysisRepo interface {
	GetByDreamID(ctx context.Context, dreamID uint64) (*model.DreamAnalysis, error)
	CreateIfAbsent(ctx context.Context, analysis *model.DreamAnalysis) (*model.DreamAnalysis, bool, error)
}

type AnalysisRepoImpl struct {
	db *gorm.DB
}

func NewAnalysisRepo(db *gorm.DB) AnalysisRepo {
	return &AnalysisRepoImpl{db: db}
}

// GetByDreamID 不存在返回 nil
func (s *AnalysisRepoImpl) GetByDreamID(ctx context.Context, dreamID uint64) (*model.DreamAnalysis, error) {
	var analysis model.DreamAnalysis
	err := s.db.WithContext(ctx).Where("dream_id = ?", dreamID).Take(&analysis).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &analysis, nil
}

// CreateIfAbsent 依赖 dream_id 唯一索引写入解析，已存在时不覆盖，统一回读落库的那一条
func (s *AnalysisRepoImpl) CreateIfAbsent(ctx context.Context, analysis *model.DreamAnalysis) (*model.DreamAnalysis, bool, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dream_id"}},
			DoNothing: true,
		}).
		Create(analysis)
	created := res.RowsAffected > 0
	if res.Error != nil {
		// 不支持 ON CONFLICT 的方言上唯一索引冲突直接报错，同样按已存在回读
		if !database.IsDuplicateError(res.Error) {
			return nil, false, res.Error
		}
		created = false
	}

	stored, err := s.GetByDreamID(ctx, analysis.DreamID)
	if err != nil {
		return nil, false, err
	}
	if stored == nil {
		return nil, false, gorm.ErrRecordNotFound
	}
	return stored, created, nil
}
