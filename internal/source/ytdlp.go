package source

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// yt-dlp 在stderr里表示“视频不存在/不可见”的几种说法
var ytdlpNotFoundMarkers = []string{
	"video unavailable",
	"private video",
	"does not exist",
	"this video has been removed",
}

type ytdlpInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	UploadDate  string `json:"upload_date"`
}

// YtDlpProvider 调用本地yt-dlp二进制获取元数据
type YtDlpProvider struct {
	binary string
}

func NewYtDlpProvider(binary string) *YtDlpProvider {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &YtDlpProvider{binary: binary}
}

func (p *YtDlpProvider) Fetch(ctx context.Context, videoID string) (*Metadata, error) {
	// CommandContext在ctx超时/取消时会杀掉子进程
	cmd := exec.CommandContext(ctx, p.binary,
		"--dump-json",
		"--skip-download",
		"--no-warnings",
		"--no-playlist",
		WatchURL(videoID),
	)
	// 子进程被杀后，如果它的子进程还占着输出管道，最多再等这么久
	cmd.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, unavailable(ctxErr, "yt-dlp %s", videoID)
		}
		msg := strings.ToLower(stderr.String())
		for _, marker := range ytdlpNotFoundMarkers {
			if strings.Contains(msg, marker) {
				return nil, errors.Wrapf(ErrMetadataNotFound, "yt-dlp %s: %s", videoID, strings.TrimSpace(stderr.String()))
			}
		}
		return nil, unavailable(err, "yt-dlp %s: %s", videoID, strings.TrimSpace(stderr.String()))
	}

	var info ytdlpInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return nil, unavailable(err, "decode yt-dlp output for %s", videoID)
	}
	if info.Title == "" && info.ID == "" {
		return nil, unavailable(nil, "yt-dlp returned empty metadata for %s", videoID)
	}

	return &Metadata{
		Title:        info.Title,
		Description:  info.Description,
		ThumbnailURL: optionalString(info.Thumbnail),
		PublishedAt:  ParseCompactDate(info.UploadDate),
	}, nil
}
