package source

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// YouTubeAPIProvider 通过YouTube Data API v3获取元数据
type YouTubeAPIProvider struct {
	client *youtube.Service
}

// NewYouTubeAPIProvider opts一般是option.WithAPIKey，测试里可以换成WithEndpoint
func NewYouTubeAPIProvider(ctx context.Context, opts ...option.ClientOption) (*YouTubeAPIProvider, error) {
	client, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create youtube service")
	}
	return &YouTubeAPIProvider{client: client}, nil
}

func (p *YouTubeAPIProvider) Fetch(ctx context.Context, videoID string) (*Metadata, error) {
	response, err := p.client.Videos.
		List([]string{"snippet"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return nil, errors.Wrapf(ErrMetadataNotFound, "youtube api %s", videoID)
		}
		return nil, unavailable(err, "youtube api %s", videoID)
	}

	for _, item := range response.Items {
		if item.Snippet == nil {
			continue
		}
		return &Metadata{
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ThumbnailURL: bestThumbnail(item.Snippet.Thumbnails),
			PublishedAt:  parseRFC3339Date(item.Snippet.PublishedAt),
		}, nil
	}
	// 请求成功但没有条目，说明视频不存在或者是私有的
	return nil, errors.Wrapf(ErrMetadataNotFound, "youtube api %s", videoID)
}

// bestThumbnail 按清晰度从高到低挑一张
func bestThumbnail(t *youtube.ThumbnailDetails) *string {
	if t == nil {
		return nil
	}
	for _, th := range []*youtube.Thumbnail{t.Maxres, t.Standard, t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return optionalString(th.Url)
		}
	}
	return nil
}
