package util

import (
	"strings"
	"time"
	"unicode/utf8"
)

const TimeLayout = "2006-01-02 15:04:05"

// FormatTime 统一的时间展示格式
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimeLayout)
}

// TruncateRunes 按字符截断，避免截断多字节字符
func TruncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// IsBlank 字符串去除空白后为空
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// PtrInt 用于将 int 转换为 *int
func PtrInt(i int) *int {
	return &i
}

// PtrStr 用于将 string 转换为 *string
func PtrStr(s string) *string {
	return &s
}

// Uint64Set 转换为集合，便于批量判断
func Uint64Set(ids []uint64) map[uint64]struct{} {
	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
