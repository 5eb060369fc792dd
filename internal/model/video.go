package model

import "time"

// Video 一条外部平台视频的目录记录
type Video struct {
	BaseModel
	UserID     uint64 `gorm:"not null;index"` // 提交者，也是唯一的owner
	PlatformID uint64 `gorm:"not null;index"`
	// 外部平台的视频ID，全局唯一；去重检查和事务中的唯一约束都依赖这个索引
	PlatformVideoID string     `gorm:"size:64;not null;uniqueIndex:idx_video_platform_video_id"`
	OriginalURL     string     `gorm:"size:512;not null"`
	Title           string     `gorm:"size:512;not null"`
	Description     string     `gorm:"type:text"`
	ThumbnailURL    *string    `gorm:"size:512"`
	UploadedAt      *time.Time // 外部平台的发布日期，和CreatedAt不是一回事

	User       User       `gorm:"foreignKey:UserID"`
	Platform   Platform   `gorm:"foreignKey:PlatformID"`
	Categories []Category `gorm:"many2many:video_categories"`
}
