package source

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	// 网络错误、非2xx、超时、输出无法解析，调用方可以退避重试
	ErrMetadataUnavailable = errors.New("metadata unavailable")
	// 平台明确表示视频不存在或不可见，不要重试
	ErrMetadataNotFound = errors.New("metadata not found")
)

// Metadata 归一化后的视频元数据
type Metadata struct {
	Title        string
	Description  string
	ThumbnailURL *string
	PublishedAt  *time.Time // 只保留日期（UTC零点），解析不了就是nil
}

// Provider 外部元数据来源，每次调用只请求一次，不在内部重试
type Provider interface {
	Fetch(ctx context.Context, videoID string) (*Metadata, error)
}

// ParseCompactDate 把 "20240312" 这种8位日期转成日历日期，格式不对返回nil
func ParseCompactDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if len(s) != 8 {
		return nil
	}
	t, err := time.ParseInLocation("20060102", s, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

// parseRFC3339Date Data API返回的是完整时间戳，只取日期部分
func parseRFC3339Date(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// unavailable 统一包装成ErrMetadataUnavailable，保留原始原因方便排查
func unavailable(cause error, format string, args ...interface{}) error {
	if cause == nil {
		return errors.Wrapf(ErrMetadataUnavailable, format, args...)
	}
	return errors.Wrapf(ErrMetadataUnavailable, format+": %v", append(args, cause)...)
}
