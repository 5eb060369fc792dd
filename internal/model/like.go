package model

// 用户与评测的关联关系，uniqueIndex利用的是数据库的“自动查重”能力，而不是gorm的
type Like struct {
	BaseModel
	UserID   uint64 `gorm:"not null;uniqueIndex:idx_like_user_review"` // 设置联合唯一索引
	ReviewID uint64 `gorm:"not null;uniqueIndex:idx_like_user_review"` // 确保一个用户对一条评测只能点赞一次
}

// 想精确控制表名，或表名不符合GORM的复数规则，就必须实现TableName()方法规定表名
func (Like) TableName() string {
	return "likes"
}
