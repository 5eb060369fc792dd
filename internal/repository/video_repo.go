package repository

import (
	"Videoboxd/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VideoRepository interface {
	Create(ctx context.Context, video *model.Video) error
	// 追加分类关联，不会替换已有的分类
	AttachCategory(ctx context.Context, video *model.Video, category *model.Category) error
	ReplaceCategories(ctx context.Context, video *model.Video, categories []model.Category) error

	FindByID(ctx context.Context, videoID uint64) (*model.Video, error)
	FindByPlatformVideoID(ctx context.Context, platformVideoID string) (*model.Video, error)
	// 数字就按主键找，找不到或不是数字再按平台视频ID找
	FindByIdentifier(ctx context.Context, identifier string) (*model.Video, error)
	FindLatest(ctx context.Context, limit int) ([]model.Video, error)
	Search(ctx context.Context, query string, limit int) ([]model.Video, error)

	Update(ctx context.Context, video *model.Video, fields map[string]interface{}) error
	Delete(ctx context.Context, video *model.Video) error

	GetVideoCache(ctx context.Context, videoID uint64) (*model.Video, error)
	SetVideoCache(ctx context.Context, video *model.Video) error
	DeleteVideoCache(ctx context.Context, videoID uint64) error

	WithTx(tx *gorm.DB) VideoRepository
}

type videoRepository struct {
	db  *gorm.DB
	rdb *redis.Client // 可以为nil，此时缓存相关操作全部跳过
}

func NewVideoRepository(db *gorm.DB, rdb *redis.Client) VideoRepository {
	return &videoRepository{
		db:  db,
		rdb: rdb,
	}
}

// WithTx 返回一个绑定事务的副本，事务里不碰缓存
func (r *videoRepository) WithTx(tx *gorm.DB) VideoRepository {
	return &videoRepository{
		db: tx,
	}
}

// Omit掉关联，分类关联由AttachCategory单独处理
func (r *videoRepository) Create(ctx context.Context, video *model.Video) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(video).Error; err != nil {
		return errors.Wrapf(err, "create video platform_video_id=%s", video.PlatformVideoID)
	}
	return nil
}

func (r *videoRepository) AttachCategory(ctx context.Context, video *model.Video, category *model.Category) error {
	// Append只会往关联表video_categories里插入，不会删掉原来的关联
	err := r.db.WithContext(ctx).Model(video).Association("Categories").Append(category)
	if err != nil {
		return errors.Wrapf(err, "attach category %d to video %d", category.ID, video.ID)
	}
	return nil
}

func (r *videoRepository) ReplaceCategories(ctx context.Context, video *model.Video, categories []model.Category) error {
	err := r.db.WithContext(ctx).Model(video).Association("Categories").Replace(categories)
	if err != nil {
		return errors.Wrapf(err, "replace categories of video %d", video.ID)
	}
	return nil
}

// 预加载提交者、平台和分类
func (r *videoRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("User").Preload("Platform").Preload("Categories")
}

func (r *videoRepository) FindByID(ctx context.Context, videoID uint64) (*model.Video, error) {
	var video model.Video
	if err := r.preloaded(ctx).First(&video, videoID).Error; err != nil {
		return nil, errors.Wrapf(err, "find video id=%d", videoID)
	}
	return &video, nil
}

func (r *videoRepository) FindByPlatformVideoID(ctx context.Context, platformVideoID string) (*model.Video, error) {
	var video model.Video
	err := r.preloaded(ctx).Where("platform_video_id = ?", platformVideoID).First(&video).Error
	if err != nil {
		return nil, errors.Wrapf(err, "find video platform_video_id=%s", platformVideoID)
	}
	return &video, nil
}

func (r *videoRepository) FindByIdentifier(ctx context.Context, identifier string) (*model.Video, error) {
	if id, err := strconv.ParseUint(identifier, 10, 64); err == nil {
		video, err := r.FindByID(ctx, id)
		if err == nil || !IsNotFound(err) {
			return video, err
		}
	}
	return r.FindByPlatformVideoID(ctx, identifier)
}

// 按时间倒序查询最新的视频列表
func (r *videoRepository) FindLatest(ctx context.Context, limit int) ([]model.Video, error) {
	var videos []model.Video
	err := r.preloaded(ctx).Order("created_at desc").Order("id desc").Limit(limit).Find(&videos).Error
	if err != nil {
		return nil, errors.Wrap(err, "find latest videos")
	}
	return videos, nil
}

// 用户输入里的%和_按字面匹配。转义符选!，MySQL和SQLite的字符串字面量里都不需要再转义
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// 标题或简介模糊匹配
func (r *videoRepository) Search(ctx context.Context, query string, limit int) ([]model.Video, error) {
	var videos []model.Video
	pattern := "%" + likeEscaper.Replace(query) + "%"
	err := r.preloaded(ctx).
		Where("title LIKE ? ESCAPE '!' OR description LIKE ? ESCAPE '!'", pattern, pattern).
		Order("created_at desc").
		Limit(limit).
		Find(&videos).Error
	if err != nil {
		return nil, errors.Wrapf(err, "search videos q=%s", query)
	}
	return videos, nil
}

func (r *videoRepository) Update(ctx context.Context, video *model.Video, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(video).Omit(clause.Associations).Updates(fields).Error; err != nil {
		return errors.Wrapf(err, "update video %d", video.ID)
	}
	return nil
}

// 物理删除：platform_video_id上有唯一索引，软删除的行会挡住之后的重新提交
func (r *videoRepository) Delete(ctx context.Context, video *model.Video) error {
	// Select("Categories")会顺带删掉video_categories中的关联行
	if err := r.db.WithContext(ctx).Unscoped().Select("Categories").Delete(video).Error; err != nil {
		return errors.Wrapf(err, "delete video %d", video.ID)
	}
	return nil
}

// 返回存储单个视频信息的字符串Key
func (r *videoRepository) keyVideoInfo(videoID uint64) string {
	return fmt.Sprintf("videoboxd:video:info:%d", videoID)
}

// 从Redis缓存中获取单个Video信息，缓存不存在时返回(nil, nil)
func (r *videoRepository) GetVideoCache(ctx context.Context, videoID uint64) (*model.Video, error) {
	if r.rdb == nil {
		return nil, nil
	}
	videoJSON, err := r.rdb.Get(ctx, r.keyVideoInfo(videoID)).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrapf(err, "get video cache %d", videoID)
	}
	var video model.Video
	if err := json.Unmarshal([]byte(videoJSON), &video); err != nil {
		return nil, errors.Wrapf(err, "decode video cache %d", videoID)
	}
	return &video, nil
}

// 将单个视频信息存入Redis缓存，过期时间加上随机值防止缓存雪崩
func (r *videoRepository) SetVideoCache(ctx context.Context, video *model.Video) error {
	if r.rdb == nil {
		return nil
	}
	videoJSON, err := json.Marshal(video)
	if err != nil {
		return errors.Wrapf(err, "encode video %d", video.ID)
	}
	expiration := time.Minute*5 + time.Duration(rand.Intn(60))*time.Second
	return r.rdb.Set(ctx, r.keyVideoInfo(video.ID), videoJSON, expiration).Err()
}

// 更新或删除视频后让缓存失效
func (r *videoRepository) DeleteVideoCache(ctx context.Context, videoID uint64) error {
	if r.rdb == nil {
		return nil
	}
	return r.rdb.Del(ctx, r.keyVideoInfo(videoID)).Err()
}
