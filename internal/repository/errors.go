package repository

import (
	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// mysql的唯一索引冲突错误码
const mysqlDuplicateEntry = 1062

// IsDuplicateKey 判断是不是唯一索引冲突。
// gorm开了TranslateError后会翻译成gorm.ErrDuplicatedKey，没开的话还能认出原始的1062
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}

// IsNotFound 对gorm.ErrRecordNotFound的简单封装，包了几层也能认出来
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
