package model

// Review 一个用户对一个视频最多一条，由联合唯一索引保证
type Review struct {
	BaseModel
	VideoID uint64 `gorm:"not null;uniqueIndex:idx_review_user_video"`
	UserID  uint64 `gorm:"not null;uniqueIndex:idx_review_user_video"`
	Rating  int    `gorm:"not null"`
	Text    string `gorm:"type:text;not null"`

	User  User  `gorm:"foreignKey:UserID"`
	Video Video `gorm:"foreignKey:VideoID"`
}
