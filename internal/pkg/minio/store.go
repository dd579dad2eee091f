package minio

import (
	"context"
	"io"
)

// Store 以对象存储实现 service.MediaStore
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, string, error) {
	objectKey, err := UploadFile(ctx, key, reader, size, contentType)
	if err != nil {
		return "", "", err
	}
	return objectKey, GetPublicURL(objectKey), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return DeleteFile(ctx, key)
}
