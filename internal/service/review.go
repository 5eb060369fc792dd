package service

import (
	"Videoboxd/internal/data"
	"Videoboxd/internal/model"
	"Videoboxd/internal/repository"
	"context"

	"github.com/pkg/errors"
)

type UpsertReviewInput struct {
	UserID  uint64
	VideoID uint64
	Rating  int
	Text    string
}

// UpdateReviewInput nil字段表示不修改
type UpdateReviewInput struct {
	UserID   uint64
	ReviewID uint64
	Rating   *int
	Text     *string
}

type ReviewService interface {
	// ListReviews videoID为nil时返回全部评测，同时返回每条评测的点赞数
	ListReviews(ctx context.Context, videoID *uint64) ([]model.Review, map[uint64]int64, error)
	GetReview(ctx context.Context, reviewID uint64) (*model.Review, int64, error)
	// UpsertReview 同一用户对同一视频只有一条评测，再次提交会覆盖
	UpsertReview(ctx context.Context, in UpsertReviewInput) (*model.Review, error)
	UpdateReview(ctx context.Context, in UpdateReviewInput) (*model.Review, error)
	DeleteReview(ctx context.Context, userID, reviewID uint64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	videoRepo  repository.VideoRepository
	likeRepo   repository.LikeRepository
	uow        data.UnitOfWork
}

func NewReviewService(reviewRepo repository.ReviewRepository, videoRepo repository.VideoRepository, likeRepo repository.LikeRepository, uow data.UnitOfWork) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		videoRepo:  videoRepo,
		likeRepo:   likeRepo,
		uow:        uow,
	}
}

func (s *reviewService) ListReviews(ctx context.Context, videoID *uint64) ([]model.Review, map[uint64]int64, error) {
	reviews, err := s.reviewRepo.List(ctx, videoID)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]uint64, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.ID)
	}
	counts, err := s.likeRepo.CountByReviewIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return reviews, counts, nil
}

func (s *reviewService) findReview(ctx context.Context, reviewID uint64) (*model.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.Wrapf(ErrReviewNotFound, "id=%d", reviewID)
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) GetReview(ctx context.Context, reviewID uint64) (*model.Review, int64, error) {
	review, err := s.findReview(ctx, reviewID)
	if err != nil {
		return nil, 0, err
	}
	counts, err := s.likeRepo.CountByReviewIDs(ctx, []uint64{review.ID})
	if err != nil {
		return nil, 0, err
	}
	return review, counts[review.ID], nil
}

func (s *reviewService) UpsertReview(ctx context.Context, in UpsertReviewInput) (*model.Review, error) {
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}
	if _, err := s.videoRepo.FindByID(ctx, in.VideoID); err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.Wrapf(ErrVideoNotFound, "id=%d", in.VideoID)
		}
		return nil, err
	}
	return s.reviewRepo.Upsert(ctx, &model.Review{
		VideoID: in.VideoID,
		UserID:  in.UserID,
		Rating:  in.Rating,
		Text:    in.Text,
	})
}

func (s *reviewService) UpdateReview(ctx context.Context, in UpdateReviewInput) (*model.Review, error) {
	review, err := s.findReview(ctx, in.ReviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != in.UserID {
		return nil, errors.Wrapf(ErrForbidden, "review %d is written by user %d", review.ID, review.UserID)
	}

	fields := map[string]interface{}{}
	if in.Rating != nil {
		if err := validateRating(*in.Rating); err != nil {
			return nil, err
		}
		fields["rating"] = *in.Rating
	}
	if in.Text != nil {
		fields["text"] = *in.Text
	}
	if err := s.reviewRepo.Update(ctx, review, fields); err != nil {
		return nil, err
	}
	return s.reviewRepo.FindByID(ctx, review.ID)
}

// 只有作者能删，点赞和评论一起删掉
func (s *reviewService) DeleteReview(ctx context.Context, userID, reviewID uint64) error {
	review, err := s.findReview(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return errors.Wrapf(ErrForbidden, "review %d is written by user %d", review.ID, review.UserID)
	}
	return s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
		ids := []uint64{review.ID}
		if err := repos.LikeRepo.DeleteByReviewIDs(ctx, ids); err != nil {
			return err
		}
		if err := repos.CommentRepo.DeleteByReviewIDs(ctx, ids); err != nil {
			return err
		}
		return repos.ReviewRepo.Delete(ctx, review)
	})
}
