package model

// Category 和Video是多对多，关联表video_categories
type Category struct {
	BaseModel
	Slug   string  `gorm:"size:64;uniqueIndex;not null" json:"slug"`
	Name   string  `gorm:"size:128;uniqueIndex;not null" json:"name"`
	Videos []Video `gorm:"many2many:video_categories" json:"videos,omitempty"`
}
