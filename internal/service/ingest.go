package service

import (
	"Videoboxd/internal/model"
	"Videoboxd/internal/repository"
	"Videoboxd/internal/source"
	"Videoboxd/pkg/logger"
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// 入库流程中的各个状态，只用于日志
const (
	stateReceived           = "received"
	stateIdentifierResolved = "identifier_resolved"
	stateDedupHit           = "dedup_hit"
	stateDedupMiss          = "dedup_miss"
	stateMetadataFetched    = "metadata_fetched"
	stateEntitiesResolved   = "entities_resolved"
	stateCommitted          = "committed"
	stateDuplicateConflict  = "duplicate_conflict"
	stateFailed             = "failed"
)

type IngestVideoInput struct {
	OwnerID      uint64
	OriginalURL  string
	CategorySlug string
	ReviewText   string
	Rating       int // 0且ReviewText为空表示不附带评测
	IsLiked      bool
}

type CreateVideoInput struct {
	OwnerID      uint64
	OriginalURL  string
	CategorySlug string
}

type IngestResult struct {
	Video  *model.Video
	Review *model.Review
	Like   *model.Like
	// 视频之前已经入库，视频行没有改动；带了评测时只补写评测和点赞
	Existing bool
}

type IngestService interface {
	// IngestVideo 视频+分类+评测+点赞一次提交
	IngestVideo(ctx context.Context, in IngestVideoInput) (*IngestResult, error)
	// CreateVideo 只创建视频和分类关联
	CreateVideo(ctx context.Context, in CreateVideoInput) (*IngestResult, error)
}

type ingestService struct {
	videoRepo       repository.VideoRepository
	resolver        *EntityResolver
	committer       *CommitCoordinator
	provider        source.Provider
	publisher       EventPublisher
	metadataTimeout time.Duration
}

func NewIngestService(
	videoRepo repository.VideoRepository,
	resolver *EntityResolver,
	committer *CommitCoordinator,
	provider source.Provider,
	publisher EventPublisher,
	metadataTimeout time.Duration,
) IngestService {
	if publisher == nil {
		publisher = NoopEventPublisher{}
	}
	return &ingestService{
		videoRepo:       videoRepo,
		resolver:        resolver,
		committer:       committer,
		provider:        provider,
		publisher:       publisher,
		metadataTimeout: metadataTimeout,
	}
}

func (in IngestVideoInput) review() *ReviewInput {
	if in.ReviewText == "" && in.Rating == 0 {
		return nil
	}
	return &ReviewInput{Text: in.ReviewText, Rating: in.Rating}
}

func (s *ingestService) IngestVideo(ctx context.Context, in IngestVideoInput) (*IngestResult, error) {
	review := in.review()
	if in.IsLiked && review == nil {
		return nil, ErrLikeRequiresReview
	}
	if review != nil {
		if err := validateRating(review.Rating); err != nil {
			return nil, err
		}
	}
	return s.ingest(ctx, in.OwnerID, in.OriginalURL, in.CategorySlug, review, in.IsLiked)
}

func (s *ingestService) CreateVideo(ctx context.Context, in CreateVideoInput) (*IngestResult, error) {
	return s.ingest(ctx, in.OwnerID, in.OriginalURL, in.CategorySlug, nil, false)
}

func (s *ingestService) ingest(ctx context.Context, ownerID uint64, rawURL, categorySlug string, review *ReviewInput, isLiked bool) (*IngestResult, error) {
	logCtx := logger.Log.WithFields(logrus.Fields{"user_id": ownerID, "url": rawURL})
	logCtx.WithField("state", stateReceived).Info("收到视频入库请求")

	videoID, err := source.ResolveYouTubeID(rawURL)
	if err != nil {
		logCtx.WithField("state", stateFailed).WithError(err).Warn("无法从URL中解析视频ID")
		return nil, err
	}
	logCtx = logCtx.WithField("platform_video_id", videoID)
	logCtx.WithField("state", stateIdentifierResolved).Debug("视频ID解析完成")

	// 去重：已经入库就不再调用元数据接口，也不改视频行
	existing, err := s.videoRepo.FindByPlatformVideoID(ctx, videoID)
	if err == nil {
		logCtx = logCtx.WithField("video_id", existing.ID)
		logCtx.WithField("state", stateDedupHit).Info("视频已存在，直接返回")
		if review == nil {
			return &IngestResult{Video: existing, Existing: true}, nil
		}
		result, err := s.committer.Attach(ctx, AttachInput{
			OwnerID: ownerID,
			Video:   existing,
			Review:  review,
			IsLiked: isLiked,
		})
		if err != nil {
			logCtx.WithField("state", stateFailed).WithError(err).Error("已存在视频补写评测失败")
			return nil, err
		}
		logCtx.WithField("state", stateCommitted).WithField("review_id", result.Review.ID).Info("已存在视频补写评测成功")
		return &IngestResult{Video: existing, Review: result.Review, Like: result.Like, Existing: true}, nil
	}
	if !repository.IsNotFound(err) {
		logCtx.WithField("state", stateFailed).WithError(err).Error("去重查询失败")
		return nil, &CommitError{Cause: err}
	}
	logCtx.WithField("state", stateDedupMiss).Debug("视频不存在，继续入库")

	metadata, err := s.fetchMetadata(ctx, videoID)
	if err != nil {
		logCtx.WithField("state", stateFailed).WithError(err).Warn("获取视频元数据失败")
		return nil, err
	}
	logCtx.WithField("state", stateMetadataFetched).Debug("视频元数据获取完成")

	platform, category, err := s.resolver.Resolve(ctx, source.PlatformYouTube, categorySlug)
	if err != nil {
		logCtx.WithField("state", stateFailed).WithError(err).Warn("平台或分类解析失败")
		return nil, err
	}
	logCtx.WithField("state", stateEntitiesResolved).Debug("平台和分类解析完成")

	result, err := s.committer.Commit(ctx, CommitInput{
		OwnerID:     ownerID,
		Platform:    platform,
		Category:    category,
		VideoID:     videoID,
		OriginalURL: strings.TrimSpace(rawURL),
		Metadata:    metadata,
		Review:      review,
		IsLiked:     isLiked,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateVideo) {
			logCtx.WithField("state", stateDuplicateConflict).Warn("并发提交冲突，视频已被其他请求创建")
		} else {
			logCtx.WithField("state", stateFailed).WithError(err).Error("视频入库事务失败")
		}
		return nil, err
	}
	logCtx.WithField("state", stateCommitted).WithField("video_id", result.Video.ID).Info("视频入库成功")

	// 事件投递失败不影响已经提交的数据
	event := NewVideoIngestedEvent(result.Video.ID, videoID, ownerID)
	if err := s.publisher.PublishVideoIngested(ctx, event); err != nil {
		logCtx.WithError(err).Warn("视频入库事件投递失败")
	}

	return &IngestResult{
		Video:  result.Video,
		Review: result.Review,
		Like:   result.Like,
	}, nil
}

// 元数据获取有单独的超时，超时或取消都算作ErrMetadataUnavailable
func (s *ingestService) fetchMetadata(ctx context.Context, videoID string) (*source.Metadata, error) {
	if s.metadataTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.metadataTimeout)
		defer cancel()
	}
	metadata, err := s.provider.Fetch(ctx, videoID)
	if err != nil {
		if errors.Is(err, source.ErrMetadataNotFound) || errors.Is(err, source.ErrMetadataUnavailable) {
			return nil, err
		}
		return nil, errors.Wrapf(source.ErrMetadataUnavailable, "%v", err)
	}
	if ctx.Err() != nil {
		return nil, errors.Wrapf(source.ErrMetadataUnavailable, "%v", ctx.Err())
	}
	return metadata, nil
}
