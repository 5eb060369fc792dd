package repository

import (
	"Videoboxd/internal/model"
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.ReviewComment) error
	FindByID(ctx context.Context, commentID uint64) (*model.ReviewComment, error)
	// 分页获取评测下的评论
	ListByReviewID(ctx context.Context, reviewID uint64, offset, limit int) ([]model.ReviewComment, error)
	DeleteByReviewIDs(ctx context.Context, reviewIDs []uint64) error

	WithTx(tx *gorm.DB) CommentRepository
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// WithTx 返回一个新的、使用事务的 commentRepository 实例
func (r *commentRepository) WithTx(tx *gorm.DB) CommentRepository {
	return &commentRepository{
		db: tx,
	}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.ReviewComment) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(comment).Error; err != nil {
		return errors.Wrapf(err, "create comment on review %d", comment.ReviewID)
	}
	return nil
}

// 利用commentID找comment，顺便Preload出作者
func (r *commentRepository) FindByID(ctx context.Context, commentID uint64) (*model.ReviewComment, error) {
	var result model.ReviewComment
	if err := r.db.WithContext(ctx).Preload("User").First(&result, commentID).Error; err != nil {
		return nil, errors.Wrapf(err, "find comment id=%d", commentID)
	}
	return &result, nil
}

func (r *commentRepository) ListByReviewID(ctx context.Context, reviewID uint64, offset, limit int) ([]model.ReviewComment, error) {
	var comments []model.ReviewComment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("review_id = ?", reviewID).
		Offset(offset).
		Limit(limit).
		Order("created_at asc"). // 评论按时间正序
		Order("id asc").
		Find(&comments).Error
	if err != nil {
		return nil, errors.Wrapf(err, "list comments of review %d", reviewID)
	}
	return comments, nil
}

func (r *commentRepository) DeleteByReviewIDs(ctx context.Context, reviewIDs []uint64) error {
	if len(reviewIDs) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("review_id IN ?", reviewIDs).Delete(&model.ReviewComment{}).Error; err != nil {
		return errors.Wrap(err, "delete comments by reviews")
	}
	return nil
}
