package service

import (
	"Videoboxd/internal/model"
	"Videoboxd/internal/repository"
	"context"

	"github.com/pkg/errors"
)

type CommentService interface {
	// 在评测下发表评论
	CreateComment(ctx context.Context, userID, reviewID uint64, text string) (*model.ReviewComment, error)
	// 分页获取评测下的评论，page从1开始
	ListComments(ctx context.Context, reviewID uint64, page, pageSize int) ([]model.ReviewComment, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
	}
}

func (s *commentService) ensureReview(ctx context.Context, reviewID uint64) error {
	if _, err := s.reviewRepo.FindByID(ctx, reviewID); err != nil {
		if repository.IsNotFound(err) {
			return errors.Wrapf(ErrReviewNotFound, "id=%d", reviewID)
		}
		return err
	}
	return nil
}

// 创建评论：1、确认评测存在 2、创建评论 3、重新查一遍，Preload出作者
func (s *commentService) CreateComment(ctx context.Context, userID, reviewID uint64, text string) (*model.ReviewComment, error) {
	if err := s.ensureReview(ctx, reviewID); err != nil {
		return nil, err
	}
	comment := &model.ReviewComment{
		ReviewID: reviewID,
		UserID:   userID,
		Text:     text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.FindByID(ctx, comment.ID)
}

func (s *commentService) ListComments(ctx context.Context, reviewID uint64, page, pageSize int) ([]model.ReviewComment, error) {
	if err := s.ensureReview(ctx, reviewID); err != nil {
		return nil, err
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > maxListLimit {
		pageSize = 10
	}
	return s.commentRepo.ListByReviewID(ctx, reviewID, (page-1)*pageSize, pageSize)
}
