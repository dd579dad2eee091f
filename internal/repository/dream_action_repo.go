package repository

import (
	"Dreamscape/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DreamActionRepo interface {
	// 点赞
	ToggleLike(ctx context.Context, userID, dreamID uint64) (bool, int, error)
	CheckLikeExists(ctx context.Context, userID, dreamID uint64) (bool, error)
	GetLikedDreamIDs(ctx context.Context, userID uint64, dreamIDs []uint64) ([]uint64, error)

	// 收藏
	ToggleFavorite(ctx context.Context, userID, dreamID uint64) (bool, int, error)
	CheckFavoriteExists(ctx context.Context, userID, dreamID uint64) (bool, error)
	GetFavoritedDreamIDs(ctx context.Context, userID uint64, dreamIDs []uint64) ([]uint64, error)
	GetFavoriteDreamIDs(ctx context.Context, userID uint64, limit, offset int) ([]uint64, error)

	// 评论
	CreateComment(ctx context.Context, comment *model.Comment) (int, error)
	DeleteComment(ctx context.Context, comment *model.Comment) (int, error)
	GetCommentByID(ctx context.Context, id uint64) (*model.Comment, error)
	GetCommentsByDreamID(ctx context.Context, dreamID uint64, limit, offset int) ([]*model.Comment, error)
}

type DreamActionRepoImpl struct {
	db *gorm.DB
}

func NewDreamActionRepo(db *gorm.DB) DreamActionRepo {
	return &DreamActionRepoImpl{db: db}
}

// ToggleLike 切换点赞状态，返回切换后的状态与最新点赞数
func (s *DreamActionRepoImpl) ToggleLike(ctx context.Context, userID, dreamID uint64) (bool, int, error) {
	return s.toggle(ctx, userID, dreamID, &model.Like{UserID: userID, DreamID: dreamID}, CounterLikes)
}

func (s *DreamActionRepoImpl) CheckLikeExists(ctx context.Context, userID, dreamID uint64) (bool, error) {
	return s.exists(ctx, &model.Like{}, userID, dreamID)
}

func (s *DreamActionRepoImpl) GetLikedDreamIDs(ctx context.Context, userID uint64, dreamIDs []uint64) ([]uint64, error) {
	return s.pickDreamIDs(ctx, &model.Like{}, userID, dreamIDs)
}

// ToggleFavorite 切换收藏状态，返回切换后的状态与最新收藏数
func (s *DreamActionRepoImpl) ToggleFavorite(ctx context.Context, userID, dreamID uint64) (bool, int, error) {
	return s.toggle(ctx, userID, dreamID, &model.Favorite{UserID: userID, DreamID: dreamID}, CounterFavorites)
}

func (s *DreamActionRepoImpl) CheckFavoriteExists(ctx context.Context, userID, dreamID uint64) (bool, error) {
	return s.exists(ctx, &model.Favorite{}, userID, dreamID)
}

func (s *DreamActionRepoImpl) GetFavoritedDreamIDs(ctx context.Context, userID uint64, dreamIDs []uint64) ([]uint64, error) {
	return s.pickDreamIDs(ctx, &model.Favorite{}, userID, dreamIDs)
}

// GetFavoriteDreamIDs 按收藏时间倒序分页获取用户收藏的梦境ID
func (s *DreamActionRepoImpl) GetFavoriteDreamIDs(ctx context.Context, userID uint64, limit, offset int) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).
		Model(&model.Favorite{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("dream_id DESC").
		Limit(limit).
		Offset(offset).
		Pluck("dream_id", &ids).Error
	return ids, err
}

// CreateComment 写入评论并增加评论数，返回最新评论数
func (s *DreamActionRepoImpl) CreateComment(ctx context.Context, comment *model.Comment) (int, error) {
	var count int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockDream(tx, comment.DreamID); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(comment).Error; err != nil {
			return err
		}
		if err := incrCounter(tx, comment.DreamID, CounterComments); err != nil {
			return err
		}
		var err error
		count, err = readCounter(tx, comment.DreamID, CounterComments)
		return err
	})
	return count, err
}

// DeleteComment 删除评论并减少评论数，返回最新评论数
func (s *DreamActionRepoImpl) DeleteComment(ctx context.Context, comment *model.Comment) (int, error) {
	var count int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockDream(tx, comment.DreamID); err != nil {
			return err
		}
		res := tx.Delete(&model.Comment{}, comment.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := decrCounter(tx, comment.DreamID, CounterComments); err != nil {
			return err
		}
		var err error
		count, err = readCounter(tx, comment.DreamID, CounterComments)
		return err
	})
	return count, err
}

// GetCommentByID 不存在返回 nil
func (s *DreamActionRepoImpl) GetCommentByID(ctx context.Context, id uint64) (*model.Comment, error) {
	var comment model.Comment
	err := s.db.WithContext(ctx).First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByDreamID 分页获取梦境评论，最新的在前
func (s *DreamActionRepoImpl) GetCommentsByDreamID(ctx context.Context, dreamID uint64, limit, offset int) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("dream_id = ?", dreamID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	return comments, err
}

// toggle 锁定梦境行后，存在则删除并减计数，不存在则插入并加计数
func (s *DreamActionRepoImpl) toggle(ctx context.Context, userID, dreamID uint64, row any, column string) (bool, int, error) {
	var active bool
	var count int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockDream(tx, dreamID); err != nil {
			return err
		}

		res := tx.Where("user_id = ? AND dream_id = ?", userID, dreamID).Delete(row)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			if err := decrCounter(tx, dreamID, column); err != nil {
				return err
			}
		} else {
			if err := tx.Create(row).Error; err != nil {
				return err
			}
			if err := incrCounter(tx, dreamID, column); err != nil {
				return err
			}
			active = true
		}

		var err error
		count, err = readCounter(tx, dreamID, column)
		return err
	})
	return active, count, err
}

func (s *DreamActionRepoImpl) exists(ctx context.Context, table any, userID, dreamID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(table).
		Where("user_id = ? AND dream_id = ?", userID, dreamID).
		Count(&count).Error
	return count > 0, err
}

// pickDreamIDs 从 dreamIDs 中筛出用户已操作过的
func (s *DreamActionRepoImpl) pickDreamIDs(ctx context.Context, table any, userID uint64, dreamIDs []uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	if userID == 0 || len(dreamIDs) == 0 {
		return ids, nil
	}
	err := s.db.WithContext(ctx).
		Model(table).
		Where("user_id = ? AND dream_id IN ?", userID, dreamIDs).
		Pluck("dream_id", &ids).Error
	return ids, err
}
