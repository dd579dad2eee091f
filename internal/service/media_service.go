package service

import (
	"Dreamscape/internal/api/dto"
	"Dreamscape/internal/pkg/util"
	"context"
	"fmt"
	"io"
	log "log/slog"
	"strconv"

	"github.com/google/uuid"
)

type MediaService interface {
	UploadImage(ctx context.Context, userID uint64, file io.ReadSeeker, size int64, filename string) (*dto.MediaUploadDTO, error)
}

type mediaServiceImpl struct {
	mediaStore MediaStore
}

func NewMediaService(mediaStore MediaStore) MediaService {
	return &mediaServiceImpl{mediaStore: mediaStore}
}

// UploadImage 按文件内容识别类型，统一转为 JPEG 后上传
func (s *mediaServiceImpl) UploadImage(ctx context.Context, userID uint64, file io.ReadSeeker, size int64, filename string) (*dto.MediaUploadDTO, error) {
	if s.mediaStore == nil {
		return nil, ErrFeatureDisabled
	}

	contentType, err := util.GetSafeContentType(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParamInvalid, err)
	}
	if !util.IsImage(contentType) {
		return nil, ErrFileNotSupported
	}

	normalized, err := util.NormalizeImage(file)
	if err != nil {
		log.WarnContext(ctx, "decode upload image error", "filename", filename, "err", err)
		return nil, ErrFileNotSupported
	}

	objectName := "uploads/" + strconv.FormatUint(userID, 10) + "/" + uuid.NewString() + ".jpg"
	dataSize := int64(normalized.Data.Len())
	key, url, err := s.mediaStore.Upload(ctx, objectName, normalized.Data, dataSize, normalized.ContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return &dto.MediaUploadDTO{
		URL:      url,
		Key:      key,
		MimeType: normalized.ContentType,
		Width:    normalized.Width,
		Height:   normalized.Height,
		Size:     dataSize,
		Original: filename,
	}, nil
}
