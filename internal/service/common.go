package service

import (
	"Dreamscape/internal/api/dto"
	"Dreamscape/internal/model"
	"Dreamscape/internal/pkg/database"
	"Dreamscape/internal/pkg/util"
	"context"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"time"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

// Locker 分布式锁，Redis 不可用时由实现决定是否放行
type Locker interface {
	TryLock(ctx context.Context, key string, value string, expiration time.Duration, retryTimes int) (bool, error)
	UnLock(ctx context.Context, key string, value string)
}

// MediaStore 对象存储，返回对象 key 与可访问的 URL
type MediaStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, string, error)
	Delete(ctx context.Context, key string) error
}

var copyOption = copier.Option{
	Converters: []copier.TypeConverter{
		{
			SrcType: time.Time{},
			DstType: "",
			Fn: func(src interface{}) (interface{}, error) {
				return util.FormatTime(src.(time.Time)), nil
			},
		},
		{
			SrcType: time.Time{},
			DstType: int64(0),
			Fn: func(src interface{}) (interface{}, error) {
				return src.(time.Time).UnixMilli(), nil
			},
		},
	},
}

func copyTo(to, from any) error {
	return copier.CopyWithOption(to, from, copyOption)
}

// validateDTO 校验失败统一归为参数错误
func validateDTO(req any) error {
	if err := util.ValidateDTO(req); err != nil {
		return fmt.Errorf("%w: %v", ErrParamInvalid, err)
	}
	return nil
}

// normalizePage limit 为 0 时取默认值，越界直接拒绝
func normalizePage(limit, offset, defaultLimit, maxLimit int) (int, int, error) {
	if limit == 0 {
		limit = defaultLimit
	}
	if limit < 1 || limit > maxLimit {
		return 0, 0, fmt.Errorf("%w: limit 需在 1-%d 之间", ErrParamInvalid, maxLimit)
	}
	if offset < 0 {
		return 0, 0, fmt.Errorf("%w: offset 不能为负数", ErrParamInvalid)
	}
	return limit, offset, nil
}

// wrapWriteErr 写路径存储不可达时返回可识别的错误
func wrapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if database.IsUnavailable(err) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}

// degradeRead 读路径存储不可达时降级为空结果
func degradeRead(ctx context.Context, op string, err error) bool {
	if database.IsUnavailable(err) {
		log.WarnContext(ctx, "store unavailable, degrade to empty result", "op", op, "err", err)
		return true
	}
	return false
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func toAuthorDTO(user *model.User) *dto.AuthorDTO {
	if user == nil || user.ID == 0 {
		return nil
	}
	return &dto.AuthorDTO{ID: user.ID, Name: user.Name}
}

func toDreamDTO(dream *model.Dream) (*dto.DreamDTO, error) {
	out := &dto.DreamDTO{}
	if err := copyTo(out, dream); err != nil {
		return nil, err
	}
	out.Author = toAuthorDTO(&dream.User)
	return out, nil
}

func toDreamDTOs(dreams []*model.Dream) ([]*dto.DreamDTO, error) {
	list := make([]*dto.DreamDTO, 0, len(dreams))
	for _, dream := range dreams {
		item, err := toDreamDTO(dream)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}
	return list, nil
}
