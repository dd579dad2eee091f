package repository

import (
	"Dreamscape/internal/model"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 冗余计数字段
const (
	CounterLikes     = "likes_count"
	CounterComments  = "comments_count"
	CounterFavorites = "favorites_count"
)

type DreamRepo interface {
	CreateDream(ctx context.Context, dream *model.Dream) error
	GetDream(ctx context.Context, id uint64) (*model.Dream, error)
	GetDreamsByIDs(ctx context.Context, ids []uint64) ([]*model.Dream, error)
	ListDreams(ctx context.Context, limit, offset int) ([]*model.Dream, error)
	ListDreamsByUser(ctx context.Context, userID uint64, limit, offset int) ([]*model.Dream, error)
	UpdateDream(ctx context.Context, id uint64, updates map[string]any) error
	DeleteDream(ctx context.Context, id uint64) error
	IncrLikes(ctx context.Context, id uint64) error
	DecrLikes(ctx context.Context, id uint64) error
	IncrComments(ctx context.Context, id uint64) error
	DecrComments(ctx context.Context, id uint64) error
	IncrFavorites(ctx context.Context, id uint64) error
	DecrFavorites(ctx context.Context, id uint64) error
	UpdateRatingStats(ctx context.Context, id uint64, average, count int) error
	GetTopRated(ctx context.Context, limit int, since *time.Time) ([]*model.Dream, error)
	ListDreamIDs(ctx context.Context, afterID uint64, limit int) ([]uint64, error)
	ReconcileCounters(ctx context.Context, id uint64) error
}

type DreamRepoImpl struct {
	db *gorm.DB
}

func NewDreamRepo(db *gorm.DB) DreamRepo {
	return &DreamRepoImpl{db: db}
}

func (s *DreamRepoImpl) CreateDream(ctx context.Context, dream *model.Dream) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(dream).Error
}

// GetDream 获取梦境及作者，不存在返回 nil
func (s *DreamRepoImpl) GetDream(ctx context.Context, id uint64) (*model.Dream, error) {
	var dream model.Dream
	err := s.db.WithContext(ctx).Preload("User").First(&dream, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dream, nil
}

func (s *DreamRepoImpl) GetDreamsByIDs(ctx context.Context, ids []uint64) ([]*model.Dream, error) {
	dreams := make([]*model.Dream, 0, len(ids))
	if len(ids) == 0 {
		return dreams, nil
	}
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("id IN ?", ids).
		Find(&dreams).Error
	return dreams, err
}

// ListDreams 按创建时间倒序分页
func (s *DreamRepoImpl) ListDreams(ctx context.Context, limit, offset int) ([]*model.Dream, error) {
	var dreams []*model.Dream
	err := s.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&dreams).Error
	return dreams, err
}

func (s *DreamRepoImpl) ListDreamsByUser(ctx context.Context, userID uint64, limit, offset int) ([]*model.Dream, error) {
	var dreams []*model.Dream
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&dreams).Error
	return dreams, err
}

// UpdateDream 只更新传入的字段，不做权限校验
func (s *DreamRepoImpl) UpdateDream(ctx context.Context, id uint64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&model.Dream{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// DeleteDream 删除梦境及其点赞、收藏、评论、评分和解析
func (s *DreamRepoImpl) DeleteDream(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		children := []any{
			&model.Like{},
			&model.Favorite{},
			&model.Comment{},
			&model.Rating{},
			&model.DreamAnalysis{},
		}
		for _, child := range children {
			if err := tx.Where("dream_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Dream{}, id).Error
	})
}

func (s *DreamRepoImpl) IncrLikes(ctx context.Context, id uint64) error {
	return incrCounter(s.db.WithContext(ctx), id, CounterLikes)
}

func (s *DreamRepoImpl) DecrLikes(ctx context.Context, id uint64) error {
	return decrCounter(s.db.WithContext(ctx), id, CounterLikes)
}

func (s *DreamRepoImpl) IncrComments(ctx context.Context, id uint64) error {
	return incrCounter(s.db.WithContext(ctx), id, CounterComments)
}

func (s *DreamRepoImpl) DecrComments(ctx context.Context, id uint64) error {
	return decrCounter(s.db.WithContext(ctx), id, CounterComments)
}

func (s *DreamRepoImpl) IncrFavorites(ctx context.Context, id uint64) error {
	return incrCounter(s.db.WithContext(ctx), id, CounterFavorites)
}

func (s *DreamRepoImpl) DecrFavorites(ctx context.Context, id uint64) error {
	return decrCounter(s.db.WithContext(ctx), id, CounterFavorites)
}

func (s *DreamRepoImpl) UpdateRatingStats(ctx context.Context, id uint64, average, count int) error {
	return updateRatingStats(s.db.WithContext(ctx), id, average, count)
}

// GetTopRated 评分排行，since 不为空时只统计该时间之后创建的梦境
func (s *DreamRepoImpl) GetTopRated(ctx context.Context, limit int, since *time.Time) ([]*model.Dream, error) {
	query := s.db.WithContext(ctx).Preload("User")
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	var dreams []*model.Dream
	err := query.
		Order("average_rating DESC").
		Order("rating_count DESC").
		Order("id DESC").
		Limit(limit).
		Find(&dreams).Error
	return dreams, err
}

// ListDreamIDs 按主键游标批量获取 ID
func (s *DreamRepoImpl) ListDreamIDs(ctx context.Context, afterID uint64, limit int) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).
		Model(&model.Dream{}).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

// ReconcileCounters 按子表实际行数重算冗余计数与评分
func (s *DreamRepoImpl) ReconcileCounters(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockDream(tx, id); err != nil {
			return err
		}

		var likes, favorites, comments int64
		if err := tx.Model(&model.Like{}).Where("dream_id = ?", id).Count(&likes).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Favorite{}).Where("dream_id = ?", id).Count(&favorites).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Comment{}).Where("dream_id = ?", id).Count(&comments).Error; err != nil {
			return err
		}

		values, err := ratingValues(tx, id)
		if err != nil {
			return err
		}
		average, count := CalcRatingStats(values)

		return tx.Model(&model.Dream{}).Where("id = ?", id).UpdateColumns(map[string]any{
			CounterLikes:     likes,
			CounterFavorites: favorites,
			CounterComments:  comments,
			"average_rating": average,
			"rating_count":   count,
		}).Error
	})
}

// lockDream 锁定梦境行，同一梦境上的计数变更串行执行；不存在时返回 gorm.ErrRecordNotFound
func lockDream(tx *gorm.DB, dreamID uint64) error {
	query := tx
	// sqlite 没有行锁，写事务本身已串行
	if tx.Dialector.Name() != "sqlite" {
		query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var dream model.Dream
	return query.Select("id").First(&dream, dreamID).Error
}

func incrCounter(db *gorm.DB, dreamID uint64, column string) error {
	return db.Model(&model.Dream{}).
		Where("id = ?", dreamID).
		UpdateColumn(column, gorm.Expr(column+" + 1")).Error
}

// decrCounter 计数减一，最小为 0
func decrCounter(db *gorm.DB, dreamID uint64, column string) error {
	return db.Model(&model.Dream{}).
		Where("id = ?", dreamID).
		UpdateColumn(column, gorm.Expr(fmt.Sprintf("CASE WHEN %s > 0 THEN %s - 1 ELSE 0 END", column, column))).Error
}

func readCounter(db *gorm.DB, dreamID uint64, column string) (int, error) {
	var count int
	err := db.Model(&model.Dream{}).
		Select(column).
		Where("id = ?", dreamID).
		Scan(&count).Error
	return count, err
}

func updateRatingStats(db *gorm.DB, dreamID uint64, average, count int) error {
	return db.Model(&model.Dream{}).
		Where("id = ?", dreamID).
		UpdateColumns(map[string]any{
			"average_rating": average,
			"rating_count":   count,
		}).Error
}
