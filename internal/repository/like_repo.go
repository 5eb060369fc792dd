package repository

import (
	"Videoboxd/internal/model"
	"Videoboxd/pkg/logger"
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type LikeRepository interface {
	Create(ctx context.Context, like *model.Like) error
	// FirstOrCreate 已经点过赞就返回原来那条，用于重复提交
	FirstOrCreate(ctx context.Context, like *model.Like) error
	// 返回实际删掉的行数，0说明本来就没点过赞
	Delete(ctx context.Context, userID, reviewID uint64) (int64, error)
	DeleteByReviewIDs(ctx context.Context, reviewIDs []uint64) error
	CountByReviewIDs(ctx context.Context, reviewIDs []uint64) (map[uint64]int64, error)

	WithTx(tx *gorm.DB) LikeRepository
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) WithTx(tx *gorm.DB) LikeRepository {
	return &likeRepository{db: tx}
}

func (r *likeRepository) Create(ctx context.Context, like *model.Like) error {
	result := r.db.WithContext(ctx).Create(like)
	if result.Error != nil {
		logger.Log.WithError(result.Error).Debug("点赞记录写入失败")
		return errors.Wrapf(result.Error, "create like user=%d review=%d", like.UserID, like.ReviewID)
	}
	return nil
}

func (r *likeRepository) FirstOrCreate(ctx context.Context, like *model.Like) error {
	err := r.db.WithContext(ctx).
		Where(&model.Like{UserID: like.UserID, ReviewID: like.ReviewID}).
		FirstOrCreate(like).Error
	if err != nil {
		return errors.Wrapf(err, "first or create like user=%d review=%d", like.UserID, like.ReviewID)
	}
	return nil
}

func (r *likeRepository) Delete(ctx context.Context, userID, reviewID uint64) (int64, error) {
	// 直接用原生SQL做物理删除，联合唯一索引下软删除会让用户无法再次点赞
	result := r.db.WithContext(ctx).Exec("DELETE FROM likes WHERE user_id = ? AND review_id = ?", userID, reviewID)
	if result.Error != nil {
		return 0, errors.Wrapf(result.Error, "delete like user=%d review=%d", userID, reviewID)
	}
	return result.RowsAffected, nil
}

func (r *likeRepository) DeleteByReviewIDs(ctx context.Context, reviewIDs []uint64) error {
	if len(reviewIDs) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Exec("DELETE FROM likes WHERE review_id IN ?", reviewIDs).Error; err != nil {
		return errors.Wrap(err, "delete likes by reviews")
	}
	return nil
}

func (r *likeRepository) CountByReviewIDs(ctx context.Context, reviewIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(reviewIDs))
	if len(reviewIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		ReviewID uint64
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Select("review_id, COUNT(*) AS total").
		Where("review_id IN ?", reviewIDs).
		Group("review_id").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "count likes")
	}
	for _, row := range rows {
		counts[row.ReviewID] = row.Total
	}
	return counts, nil
}
