package service

import (
	"Videoboxd/internal/data"
	"Videoboxd/internal/model"
	"Videoboxd/internal/repository"
	"Videoboxd/internal/source"
	"context"
	"time"

	"github.com/pkg/errors"
)

type ReviewInput struct {
	Text   string
	Rating int
}

// CommitInput 一次提交需要的全部数据，平台和分类必须是已经解析好的行
type CommitInput struct {
	OwnerID     uint64
	Platform    *model.Platform
	Category    *model.Category // 可选
	VideoID     string          // 平台上的视频ID
	OriginalURL string
	Metadata    *source.Metadata
	Review      *ReviewInput // 可选
	IsLiked     bool
}

type CommitResult struct {
	Video  *model.Video
	Review *model.Review
	Like   *model.Like
}

// CommitCoordinator 视频、分类关联、评测、点赞在同一个事务里写入，要么全成功要么全回滚
type CommitCoordinator struct {
	uow     data.UnitOfWork
	timeout time.Duration
}

func NewCommitCoordinator(uow data.UnitOfWork, timeout time.Duration) *CommitCoordinator {
	return &CommitCoordinator{
		uow:     uow,
		timeout: timeout,
	}
}

func (c *CommitCoordinator) validate(in CommitInput) error {
	if in.Platform == nil {
		return ErrPlatformNotFound
	}
	if in.Metadata == nil {
		return errors.Wrap(source.ErrMetadataUnavailable, "no metadata to commit")
	}
	if in.IsLiked && in.Review == nil {
		return ErrLikeRequiresReview
	}
	if in.Review != nil {
		return validateRating(in.Review.Rating)
	}
	return nil
}

func (c *CommitCoordinator) Commit(ctx context.Context, in CommitInput) (*CommitResult, error) {
	if err := c.validate(in); err != nil {
		return nil, err
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	video := &model.Video{
		UserID:          in.OwnerID,
		PlatformID:      in.Platform.ID,
		PlatformVideoID: in.VideoID,
		OriginalURL:     in.OriginalURL,
		Title:           in.Metadata.Title,
		Description:     in.Metadata.Description,
		ThumbnailURL:    in.Metadata.ThumbnailURL,
		UploadedAt:      in.Metadata.PublishedAt,
	}
	result := &CommitResult{Video: video}

	err := c.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
		if err := repos.VideoRepo.Create(ctx, video); err != nil {
			if repository.IsDuplicateKey(err) {
				// 去重检查之后被并发请求抢先插入了
				return errors.Wrapf(ErrDuplicateVideo, "platform_video_id=%s", in.VideoID)
			}
			return err
		}
		if in.Category != nil {
			if err := repos.VideoRepo.AttachCategory(ctx, video, in.Category); err != nil {
				return err
			}
		}
		if in.Review != nil {
			review, err := repos.ReviewRepo.Upsert(ctx, &model.Review{
				VideoID: video.ID,
				UserID:  in.OwnerID,
				Rating:  in.Review.Rating,
				Text:    in.Review.Text,
			})
			if err != nil {
				return err
			}
			result.Review = review
		}
		if in.IsLiked {
			like := &model.Like{UserID: in.OwnerID, ReviewID: result.Review.ID}
			if err := repos.LikeRepo.Create(ctx, like); err != nil {
				return err
			}
			result.Like = like
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateVideo) {
			return nil, err
		}
		return nil, &CommitError{Cause: err}
	}

	// 事务已提交，把关联补到返回值上，省一次查询
	video.Platform = *in.Platform
	video.Categories = nil
	if in.Category != nil {
		video.Categories = []model.Category{*in.Category}
	}
	return result, nil
}

// AttachInput 视频已经入库时，只给它补写评测和点赞
type AttachInput struct {
	OwnerID uint64
	Video   *model.Video
	Review  *ReviewInput
	IsLiked bool
}

// Attach 评测upsert和点赞在同一个事务里，视频行本身不动
func (c *CommitCoordinator) Attach(ctx context.Context, in AttachInput) (*CommitResult, error) {
	if in.Video == nil {
		return nil, ErrVideoNotFound
	}
	if in.IsLiked && in.Review == nil {
		return nil, ErrLikeRequiresReview
	}
	result := &CommitResult{Video: in.Video}
	if in.Review == nil {
		return result, nil
	}
	if err := validateRating(in.Review.Rating); err != nil {
		return nil, err
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	err := c.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
		review, err := repos.ReviewRepo.Upsert(ctx, &model.Review{
			VideoID: in.Video.ID,
			UserID:  in.OwnerID,
			Rating:  in.Review.Rating,
			Text:    in.Review.Text,
		})
		if err != nil {
			return err
		}
		result.Review = review
		if in.IsLiked {
			// 同一个用户重复提交时评测ID不变，点赞已经存在就沿用
			like := &model.Like{UserID: in.OwnerID, ReviewID: review.ID}
			if err := repos.LikeRepo.FirstOrCreate(ctx, like); err != nil {
				return err
			}
			result.Like = like
		}
		return nil
	})
	if err != nil {
		return nil, &CommitError{Cause: err}
	}
	return result, nil
}
