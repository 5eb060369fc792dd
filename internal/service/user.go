package service

import (
	"Videoboxd/internal/model"
	"Videoboxd/internal/repository"
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// UserDetail 用户主页：用户本身加上他写过的评测
type UserDetail struct {
	User       *model.User
	Reviews    []model.Review
	LikeCounts map[uint64]int64
}

// 用户服务接口：1、注册 2、登录 3、浏览用户
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, username, password string) (string, error)

	ListUsers(ctx context.Context) ([]model.User, error)
	// GetUser identifier可以是ID、用户名或邮箱
	GetUser(ctx context.Context, identifier string) (*UserDetail, error)
	GetProfile(ctx context.Context, userID uint64) (*model.User, error)
}

// 用户服务包装
type userService struct {
	userRepo   repository.UserRepository
	reviewRepo repository.ReviewRepository
	likeRepo   repository.LikeRepository
	jwtSecret  []byte
	tokenTTL   time.Duration
}

func NewUserService(
	userRepo repository.UserRepository,
	reviewRepo repository.ReviewRepository,
	likeRepo repository.LikeRepository,
	jwtSecret string,
	tokenTTL time.Duration,
) UserService {
	if tokenTTL <= 0 {
		tokenTTL = 72 * time.Hour
	}
	return &userService{
		userRepo:   userRepo,
		reviewRepo: reviewRepo,
		likeRepo:   likeRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
	}
}

// 注册逻辑：1、检查用户名和邮箱是否重复 2、密码加密存储 3、插入数据库
func (s *userService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if _, err := s.userRepo.FindByUsername(ctx, in.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !repository.IsNotFound(err) {
		return nil, err
	}
	if _, err := s.userRepo.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	newUser := &model.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashedPassword),
		FullName: in.FullName,
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		// 并发注册时由唯一索引兜底
		if repository.IsDuplicateKey(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return newUser, nil
}

// 登录逻辑：1、检查库中是否有该用户名 2、加密后密码和输入密码比对 3、生成jwt签名
func (s *userService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	// token对象的Payload，不能将密码放在其中，Payload不加密
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
		"iat":      time.Now().Unix(), // 签发时间
	}
	// HS256，对称加密
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return tokenString, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userService) GetUser(ctx context.Context, identifier string) (*UserDetail, error) {
	user, err := s.userRepo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.Wrapf(ErrUserNotFound, "identifier=%s", identifier)
		}
		return nil, err
	}
	reviews, err := s.reviewRepo.ListByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(reviews))
	for _, review := range reviews {
		ids = append(ids, review.ID)
	}
	counts, err := s.likeRepo.CountByReviewIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &UserDetail{User: user, Reviews: reviews, LikeCounts: counts}, nil
}

// 个人信息从库里读，token里只有ID和用户名
func (s *userService) GetProfile(ctx context.Context, userID uint64) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.Wrapf(ErrUserNotFound, "id=%d", userID)
		}
		return nil, err
	}
	return user, nil
}
