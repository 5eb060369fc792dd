package source

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// PlatformYouTube 是目前唯一接入的平台，对应platforms表的slug
const PlatformYouTube = "youtube"

// MaxURLLength 和videos.original_url的列宽一致
const MaxURLLength = 512

var (
	ErrInvalidSourceURL = errors.New("invalid source url")

	videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

	watchHosts = map[string]bool{
		"youtube.com":       true,
		"www.youtube.com":   true,
		"m.youtube.com":     true,
		"music.youtube.com": true,
	}
)

// ResolveYouTubeID 从提交的URL中取出平台视频ID，纯函数，不访问网络
// 支持 watch?v=、youtu.be/<id>、/shorts/<id> 三种形式
func ResolveYouTubeID(rawURL string) (string, error) {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return "", ErrInvalidSourceURL
	}
	if len(raw) > MaxURLLength {
		return "", errors.Wrapf(ErrInvalidSourceURL, "url longer than %d bytes", MaxURLLength)
	}
	// 用户经常省略协议头，补上再解析
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrap(ErrInvalidSourceURL, err.Error())
	}
	host := strings.ToLower(u.Hostname())

	var id string
	switch {
	case host == "youtu.be":
		id = strings.Trim(u.Path, "/")
	case watchHosts[host] && strings.HasPrefix(u.Path, "/shorts/"):
		id = strings.Trim(strings.TrimPrefix(u.Path, "/shorts/"), "/")
	case watchHosts[host]:
		id = u.Query().Get("v")
	default:
		return "", errors.Wrapf(ErrInvalidSourceURL, "unsupported host %q", host)
	}

	if !videoIDPattern.MatchString(id) {
		return "", errors.Wrapf(ErrInvalidSourceURL, "missing or malformed video id %q", id)
	}
	return id, nil
}

// WatchURL 由视频ID拼出标准的观看地址
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(videoID)
}
