package service

import (
	"Videoboxd/internal/data"
	"Videoboxd/internal/model"
	"Videoboxd/internal/repository"
	"Videoboxd/pkg/logger"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// UpdateVideoInput nil字段表示不修改；CategorySlugs不为nil时整体替换分类
type UpdateVideoInput struct {
	UserID        uint64
	VideoID       uint64
	Title         *string
	Description   *string
	ThumbnailURL  *string
	CategorySlugs *[]string
}

type VideoService interface {
	ListVideos(ctx context.Context, limit int) ([]model.Video, error)
	// GetVideo identifier可以是数字ID，也可以是平台视频ID
	GetVideo(ctx context.Context, identifier string) (*model.Video, error)
	SearchVideos(ctx context.Context, query string, limit int) ([]model.Video, error)
	UpdateVideo(ctx context.Context, in UpdateVideoInput) (*model.Video, error)
	DeleteVideo(ctx context.Context, userID, videoID uint64) error
	// WarmVideoCache 消费入库事件时预热缓存
	WarmVideoCache(ctx context.Context, videoID uint64) error
}

type videoService struct {
	sf singleflight.Group

	videoRepo    repository.VideoRepository
	categoryRepo repository.CategoryRepository
	uow          data.UnitOfWork
}

func NewVideoService(videoRepo repository.VideoRepository, categoryRepo repository.CategoryRepository, uow data.UnitOfWork) VideoService {
	return &videoService{
		videoRepo:    videoRepo,
		categoryRepo: categoryRepo,
		uow:          uow,
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > maxListLimit {
		return defaultListLimit
	}
	return limit
}

// 最新的视频列表，带平台和分类
func (s *videoService) ListVideos(ctx context.Context, limit int) ([]model.Video, error) {
	return s.videoRepo.FindLatest(ctx, normalizeLimit(limit))
}

// 根据identifier查找视频：1、数字ID先查Redis缓存 2、缓存未命中通过SingleFlight查数据库并回写缓存
func (s *videoService) GetVideo(ctx context.Context, identifier string) (*model.Video, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrVideoNotFound
	}
	if id, err := strconv.ParseUint(identifier, 10, 64); err == nil {
		video, err := s.videoRepo.GetVideoCache(ctx, id)
		if err != nil {
			// Redis出错不影响读，降级到数据库
			logger.Log.WithError(err).WithField("video_id", id).Warn("读取视频缓存失败")
		} else if video != nil {
			return video, nil
		}
	}

	// 同一时间对同一个identifier的请求只打一次数据库
	key := fmt.Sprintf("get_video_%s", identifier)
	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		dbVideo, dbErr := s.videoRepo.FindByIdentifier(ctx, identifier)
		if dbErr != nil {
			return nil, dbErr
		}
		if err := s.videoRepo.SetVideoCache(ctx, dbVideo); err != nil {
			logger.Log.WithError(err).WithField("video_id", dbVideo.ID).Warn("写入视频缓存失败")
		}
		return dbVideo, nil
	})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.Wrapf(ErrVideoNotFound, "identifier=%s", identifier)
		}
		return nil, err
	}
	return result.(*model.Video), nil
}

func (s *videoService) SearchVideos(ctx context.Context, query string, limit int) ([]model.Video, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.Video{}, nil
	}
	return s.videoRepo.Search(ctx, query, normalizeLimit(limit))
}

// 查找视频并校验owner
func (s *videoService) findOwned(ctx context.Context, userID, videoID uint64) (*model.Video, error) {
	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.Wrapf(ErrVideoNotFound, "id=%d", videoID)
		}
		return nil, err
	}
	if video.UserID != userID {
		return nil, errors.Wrapf(ErrForbidden, "video %d is owned by user %d", videoID, video.UserID)
	}
	return video, nil
}

func (s *videoService) UpdateVideo(ctx context.Context, in UpdateVideoInput) (*model.Video, error) {
	video, err := s.findOwned(ctx, in.UserID, in.VideoID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.ThumbnailURL != nil {
		fields["thumbnail_url"] = *in.ThumbnailURL
	}

	var categories []model.Category
	if in.CategorySlugs != nil {
		categories, err = s.categoryRepo.FindBySlugs(ctx, *in.CategorySlugs)
		if err != nil {
			return nil, err
		}
		if len(categories) != len(uniqueStrings(*in.CategorySlugs)) {
			return nil, errors.Wrapf(ErrCategoryNotFound, "slugs=%v", *in.CategorySlugs)
		}
	}

	err = s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
		if err := repos.VideoRepo.Update(ctx, video, fields); err != nil {
			return err
		}
		if in.CategorySlugs != nil {
			return repos.VideoRepo.ReplaceCategories(ctx, video, categories)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.videoRepo.DeleteVideoCache(ctx, video.ID); err != nil {
		logger.Log.WithError(err).WithField("video_id", video.ID).Warn("删除视频缓存失败")
	}
	return s.videoRepo.FindByID(ctx, video.ID)
}

// 删除视频，连带评测、评测的点赞和评论
func (s *videoService) DeleteVideo(ctx context.Context, userID, videoID uint64) error {
	video, err := s.findOwned(ctx, userID, videoID)
	if err != nil {
		return err
	}
	err = s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
		reviewIDs, err := repos.ReviewRepo.DeleteByVideoID(ctx, video.ID)
		if err != nil {
			return err
		}
		if err := repos.LikeRepo.DeleteByReviewIDs(ctx, reviewIDs); err != nil {
			return err
		}
		if err := repos.CommentRepo.DeleteByReviewIDs(ctx, reviewIDs); err != nil {
			return err
		}
		return repos.VideoRepo.Delete(ctx, video)
	})
	if err != nil {
		return err
	}
	if err := s.videoRepo.DeleteVideoCache(ctx, video.ID); err != nil {
		logger.Log.WithError(err).WithField("video_id", video.ID).Warn("删除视频缓存失败")
	}
	return nil
}

func (s *videoService) WarmVideoCache(ctx context.Context, videoID uint64) error {
	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		if repository.IsNotFound(err) {
			return errors.Wrapf(ErrVideoNotFound, "id=%d", videoID)
		}
		return err
	}
	return s.videoRepo.SetVideoCache(ctx, video)
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
