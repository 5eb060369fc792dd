package model

type User struct {
	BaseModel        // 包括 ID, CreatedAt, UpdatedAt, DeleteAt
	Username  string `gorm:"size:64;unique;not null"`
	// 视频缓存会把预加载的User一起序列化，邮箱和密码哈希不能进去
	Email     string `gorm:"size:255;unique;not null" json:"-"`
	Password  string `gorm:"not null" json:"-"`
	FullName  string `gorm:"size:128"`
	AvatarURL string `gorm:"size:512"`
}
