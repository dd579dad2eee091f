package repository

import (
	"Dreamscape/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepo interface {
	UpsertRating(ctx context.Context, userID, dreamID uint64, rating int) (int, int, error)
	GetRating(ctx context.Context, userID, dreamID uint64) (*model.Rating, error)
}

type RatingRepoImpl struct {
	db *gorm.DB
}

func NewRatingRepo(db *gorm.DB) RatingRepo {
	return &RatingRepoImpl{db: db}
}

// UpsertRating 写入或覆盖用户评分，并在同一事务内重算梦境的平均分和评分人数
func (s *RatingRepoImpl) UpsertRating(ctx context.Context, userID, dreamID uint64, rating int) (int, int, error) {
	var average, count int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockDream(tx, dreamID); err != nil {
			return err
		}

		row := &model.Rating{UserID: userID, DreamID: dreamID, Rating: rating}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "dream_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"rating":     rating,
				"updated_at": time.Now(),
			}),
		}).Create(row).Error
		if err != nil {
			return err
		}

		values, err := ratingValues(tx, dreamID)
		if err != nil {
			return err
		}
		average, count = CalcRatingStats(values)
		return updateRatingStats(tx, dreamID, average, count)
	})
	return average, count, err
}

// GetRating 不存在返回 nil
func (s *RatingRepoImpl) GetRating(ctx context.Context, userID, dreamID uint64) (*model.Rating, error) {
	var rating model.Rating
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND dream_id = ?", userID, dreamID).
		Take(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rating, nil
}

func ratingValues(db *gorm.DB, dreamID uint64) ([]int, error) {
	values := make([]int, 0)
	err := db.Model(&model.Rating{}).
		Where("dream_id = ?", dreamID).
		Pluck("rating", &values).Error
	return values, err
}

// CalcRatingStats 返回平均分(x10，四舍五入)与评分人数，无评分时均为 0
func CalcRatingStats(values []int) (int, int) {
	n := len(values)
	if n == 0 {
		return 0, 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	// round(sum*10/n) 的整数写法
	return (sum*20 + n) / (2 * n), n
}
