package repository

import (
	"Videoboxd/internal/model"
	"context"
	"strconv"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// 用户仓库接口：1、将用户插入用户表 2、根据用户名/邮箱/ID查找用户 3、用户列表
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, userID uint64) (*model.User, error)
	// FindByIdentifier 数字先按ID找，找不到或不是数字再按用户名、邮箱找
	FindByIdentifier(ctx context.Context, identifier string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

// 数据库接口封装
type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// 用户插入表
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return errors.Wrapf(err, "create user %s", user.Username)
	}
	return nil
}

// 根据用户名找用户
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var result model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&result).Error; err != nil {
		return nil, errors.Wrapf(err, "find user username=%s", username)
	}
	return &result, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var result model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&result).Error; err != nil {
		return nil, errors.Wrapf(err, "find user email=%s", email)
	}
	return &result, nil
}

func (r *userRepository) FindByID(ctx context.Context, userID uint64) (*model.User, error) {
	var result model.User
	if err := r.db.WithContext(ctx).First(&result, userID).Error; err != nil {
		return nil, errors.Wrapf(err, "find user id=%d", userID)
	}
	return &result, nil
}

func (r *userRepository) FindByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	if id, err := strconv.ParseUint(identifier, 10, 64); err == nil {
		user, err := r.FindByID(ctx, id)
		if err == nil || !IsNotFound(err) {
			return user, err
		}
	}
	var result model.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		First(&result).Error
	if err != nil {
		return nil, errors.Wrapf(err, "find user identifier=%s", identifier)
	}
	return &result, nil
}

// 新注册的在前
func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("created_at desc").Order("id desc").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	return users, nil
}
