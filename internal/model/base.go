package model

import (
	"time"

	"gorm.io/gorm"
)

// 由于gorm的基本结构中ID是uint类型，统一成uint64，所以自己搞了个base结构体
type BaseModel struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// All 返回需要AutoMigrate的全部模型，server/seeder/测试共用一份
func All() []interface{} {
	return []interface{}{&User{}, &Platform{}, &Category{}, &Video{}, &Review{}, &Like{}, &ReviewComment{}}
}
