package repository

import (
	"Videoboxd/internal/model"
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository interface {
	// Upsert 同一个(user_id, video_id)只保留一条评测，已存在就覆盖rating和text
	Upsert(ctx context.Context, review *model.Review) (*model.Review, error)
	FindByID(ctx context.Context, reviewID uint64) (*model.Review, error)
	List(ctx context.Context, videoID *uint64) ([]model.Review, error)
	ListByUserID(ctx context.Context, userID uint64) ([]model.Review, error)
	Update(ctx context.Context, review *model.Review, fields map[string]interface{}) error
	Delete(ctx context.Context, review *model.Review) error
	// 删除视频时级联清理，返回被删评测的ID
	DeleteByVideoID(ctx context.Context, videoID uint64) ([]uint64, error)

	WithTx(tx *gorm.DB) ReviewRepository
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) WithTx(tx *gorm.DB) ReviewRepository {
	return &reviewRepository{db: tx}
}

func (r *reviewRepository) Upsert(ctx context.Context, review *model.Review) (*model.Review, error) {
	// MySQL下生成 ON DUPLICATE KEY UPDATE，SQLite下生成 ON CONFLICT (video_id, user_id) DO UPDATE
	err := r.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "video_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "text", "updated_at"}),
	}).Create(review).Error
	if err != nil {
		return nil, errors.Wrapf(err, "upsert review user=%d video=%d", review.UserID, review.VideoID)
	}

	// 冲突更新时回填的ID不可靠，重新读一遍
	var saved model.Review
	err = r.db.WithContext(ctx).Preload("User").
		Where("user_id = ? AND video_id = ?", review.UserID, review.VideoID).
		First(&saved).Error
	if err != nil {
		return nil, errors.Wrapf(err, "reload review user=%d video=%d", review.UserID, review.VideoID)
	}
	return &saved, nil
}

func (r *reviewRepository) FindByID(ctx context.Context, reviewID uint64) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).Preload("User").First(&review, reviewID).Error; err != nil {
		return nil, errors.Wrapf(err, "find review id=%d", reviewID)
	}
	return &review, nil
}

func (r *reviewRepository) List(ctx context.Context, videoID *uint64) ([]model.Review, error) {
	var reviews []model.Review
	query := r.db.WithContext(ctx).Preload("User")
	if videoID != nil {
		query = query.Where("video_id = ?", *videoID)
	}
	if err := query.Order("created_at desc").Order("id desc").Find(&reviews).Error; err != nil {
		return nil, errors.Wrap(err, "list reviews")
	}
	return reviews, nil
}

func (r *reviewRepository) ListByUserID(ctx context.Context, userID uint64) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).Preload("User").
		Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc").
		Find(&reviews).Error
	if err != nil {
		return nil, errors.Wrapf(err, "list reviews user=%d", userID)
	}
	return reviews, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *model.Review, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(review).Omit(clause.Associations).Updates(fields).Error; err != nil {
		return errors.Wrapf(err, "update review %d", review.ID)
	}
	return nil
}

// 物理删除，否则联合唯一索引会挡住同一用户之后的新评测
func (r *reviewRepository) Delete(ctx context.Context, review *model.Review) error {
	if err := r.db.WithContext(ctx).Unscoped().Delete(&model.Review{}, review.ID).Error; err != nil {
		return errors.Wrapf(err, "delete review %d", review.ID)
	}
	return nil
}

func (r *reviewRepository) DeleteByVideoID(ctx context.Context, videoID uint64) ([]uint64, error) {
	var ids []uint64
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.Review{}).Where("video_id = ?", videoID).Pluck("id", &ids).Error; err != nil {
		return nil, errors.Wrapf(err, "list reviews of video %d", videoID)
	}
	if len(ids) == 0 {
		return ids, nil
	}
	if err := db.Unscoped().Where("id IN ?", ids).Delete(&model.Review{}).Error; err != nil {
		return nil, errors.Wrapf(err, "delete reviews of video %d", videoID)
	}
	return ids, nil
}
