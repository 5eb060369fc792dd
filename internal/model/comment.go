package model

// ReviewComment 挂在评测下面的评论
type ReviewComment struct {
	BaseModel
	ReviewID uint64 `gorm:"not null;index"` // index索引，加速按评测分页查询
	UserID   uint64 `gorm:"not null;index"`
	// TEXT是MySQL中的一种文本类型，最大长度可达65,535个字符
	Text string `gorm:"type:text;not null"`

	User User `gorm:"foreignKey:UserID"`
}

func (ReviewComment) TableName() string {
	return "review_comments"
}
