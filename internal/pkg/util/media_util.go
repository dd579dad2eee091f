package util

import (
	"Dreamscape/internal/pkg/consts"
	"bytes"
	"io"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/liuzl/gocc"
)

var (
	t2sOnce sync.Once
	t2s     *gocc.OpenCC
)

// GetSafeContentType 根据文件头嗅探 MIME，读取后将 reader 复位
func GetSafeContentType(r io.ReadSeeker) (string, error) {
	mtype, err := mimetype.DetectReader(r)
	if err != nil {
		return "", err
	}
	if _, err = r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return mtype.String(), nil
}

// IsImage MIME 是否为图片
func IsImage(contentType string) bool {
	return strings.HasPrefix(contentType, consts.MimePrefixImage)
}

// NormalizedImage 统一处理后的图片
type NormalizedImage struct {
	Data        *bytes.Buffer
	ContentType string
	Width       int
	Height      int
}

// NormalizeImage 纠正 EXIF 方向、限制最长边并统一转为 JPEG
func NormalizeImage(r io.Reader) (*NormalizedImage, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() > consts.MaxImageEdge || bounds.Dy() > consts.MaxImageEdge {
		img = imaging.Fit(img, consts.MaxImageEdge, consts.MaxImageEdge, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err = imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(consts.ImageJPEGQuality)); err != nil {
		return nil, err
	}

	return &NormalizedImage{
		Data:        buf,
		ContentType: "image/jpeg",
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
	}, nil
}

// ToSimplified 繁体转简体，词典加载失败时原样返回
func ToSimplified(s string) string {
	t2sOnce.Do(func() {
		t2s, _ = gocc.New("t2s")
	})
	if t2s == nil || s == "" {
		return s
	}
	out, err := t2s.Convert(s)
	if err != nil {
		return s
	}
	return out
}
