package repository

import (
	"Dreamscape/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepo interface {
	UpsertUser(ctx context.Context, user *model.User, updateColumns []string) (*model.User, error)
	GetUserById(ctx context.Context, id uint64) (*model.User, error)
	GetUserByOpenID(ctx context.Context, openID string) (*model.User, error)
	GetUserByIds(ctx context.Context, ids []uint64) ([]*model.User, error)
}

type UserRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &UserRepoImpl{db: db}
}

// UpsertUser 以 open_id 为键写入用户，冲突时只更新 updateColumns 中的字段
func (s *UserRepoImpl) UpsertUser(ctx context.Context, user *model.User, updateColumns []string) (*model.User, error) {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "open_id"}},
			DoUpdates: clause.AssignmentColumns(updateColumns),
		}).
		Create(user).Error
	if err != nil {
		return nil, err
	}

	stored, err := s.GetUserByOpenID(ctx, user.OpenID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return stored, nil
}

func (s *UserRepoImpl) GetUserById(ctx context.Context, id uint64) (*model.User, error) {
	user := &model.User{}
	err := s.db.WithContext(ctx).First(user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (s *UserRepoImpl) GetUserByOpenID(ctx context.Context, openID string) (*model.User, error) {
	user := &model.User{}
	err := s.db.WithContext(ctx).Where("open_id = ?", openID).Take(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (s *UserRepoImpl) GetUserByIds(ctx context.Context, ids []uint64) ([]*model.User, error) {
	users := make([]*model.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}
