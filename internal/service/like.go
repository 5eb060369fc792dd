package service

import (
	"Videoboxd/internal/model"
	"Videoboxd/internal/repository"
	"context"

	"github.com/pkg/errors"
)

type LikeService interface {
	LikeReview(ctx context.Context, userID, reviewID uint64) (*model.Like, error)
	UnlikeReview(ctx context.Context, userID, reviewID uint64) error
}

type likeService struct {
	likeRepo   repository.LikeRepository
	reviewRepo repository.ReviewRepository
}

func NewLikeService(likeRepo repository.LikeRepository, reviewRepo repository.ReviewRepository) LikeService {
	return &likeService{
		likeRepo:   likeRepo,
		reviewRepo: reviewRepo,
	}
}

// 点赞评测：1、检查评测是否存在 2、插入点赞记录，唯一索引冲突说明已经点过
func (s *likeService) LikeReview(ctx context.Context, userID, reviewID uint64) (*model.Like, error) {
	if _, err := s.reviewRepo.FindByID(ctx, reviewID); err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.Wrapf(ErrReviewNotFound, "id=%d", reviewID)
		}
		return nil, err
	}
	like := &model.Like{UserID: userID, ReviewID: reviewID}
	if err := s.likeRepo.Create(ctx, like); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, errors.Wrapf(ErrAlreadyLiked, "user=%d review=%d", userID, reviewID)
		}
		return nil, err
	}
	return like, nil
}

// 取消点赞：没有删掉任何行说明本来就没点过
func (s *likeService) UnlikeReview(ctx context.Context, userID, reviewID uint64) error {
	if _, err := s.reviewRepo.FindByID(ctx, reviewID); err != nil {
		if repository.IsNotFound(err) {
			return errors.Wrapf(ErrReviewNotFound, "id=%d", reviewID)
		}
		return err
	}
	affected, err := s.likeRepo.Delete(ctx, userID, reviewID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Wrapf(ErrNotLiked, "user=%d review=%d", userID, reviewID)
	}
	return nil
}
