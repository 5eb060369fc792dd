package model

// Platform 视频来源平台，比如youtube，seeder写入后不再修改
type Platform struct {
	BaseModel
	Slug string `gorm:"size:64;uniqueIndex;not null" json:"slug"`
	Name string `gorm:"size:128;not null" json:"name"`
}
