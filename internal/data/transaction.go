package data

import (
	"Videoboxd/internal/repository"
	"context"

	"gorm.io/gorm"
)

// UnitOfWork 定义了我们事务管理器的接口
type UnitOfWork interface {
	// Execute 将一个函数包裹在数据库事务中执行。
	// fn返回error时整个事务回滚，返回nil时提交。
	Execute(ctx context.Context, fn func(repos *TransactionalRepositories) error) error
}

// TransactionalRepositories 持有所有需要在同一个事务中操作的 Repository。
type TransactionalRepositories struct {
	VideoRepo   repository.VideoRepository
	ReviewRepo  repository.ReviewRepository
	LikeRepo    repository.LikeRepository
	CommentRepo repository.CommentRepository
}

// db是事务的入口和管理者
type gormUnitOfWork struct {
	db          *gorm.DB
	videoRepo   repository.VideoRepository
	reviewRepo  repository.ReviewRepository
	likeRepo    repository.LikeRepository
	commentRepo repository.CommentRepository
}

// NewUnitOfWork 创建一个新的、基于GORM的“工作单元”。
// 注意，它接收的是原始的、非事务的 repositories。
func NewUnitOfWork(
	db *gorm.DB,
	videoRepo repository.VideoRepository,
	reviewRepo repository.ReviewRepository,
	likeRepo repository.LikeRepository,
	commentRepo repository.CommentRepository,
) UnitOfWork {
	return &gormUnitOfWork{
		db:          db,
		videoRepo:   videoRepo,
		reviewRepo:  reviewRepo,
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
	}
}

// 只能接收fn这样的函数，并为其创建事务；将绑定了事务的Repositories“注入”到业务逻辑函数中
func (u *gormUnitOfWork) Execute(ctx context.Context, fn func(repos *TransactionalRepositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 临时创建“一次性”的、绑定了特定事务的Repo副本
		transactionalRepos := &TransactionalRepositories{
			VideoRepo:   u.videoRepo.WithTx(tx),
			ReviewRepo:  u.reviewRepo.WithTx(tx),
			LikeRepo:    u.likeRepo.WithTx(tx),
			CommentRepo: u.commentRepo.WithTx(tx),
		}
		return fn(transactionalRepos)
	})
}
