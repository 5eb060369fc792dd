package main

import (
	"Videoboxd/internal/config"
	"Videoboxd/internal/data"
	"Videoboxd/internal/handler"
	"Videoboxd/internal/repository"
	"Videoboxd/internal/router"
	"Videoboxd/internal/service"
	"Videoboxd/internal/source"
	"Videoboxd/pkg/logger"
	"Videoboxd/pkg/rabbitmq"
	"Videoboxd/pkg/redis"
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

func main() {
	// 加载.env文件，没有也没关系，环境变量可以直接给
	if err := godotenv.Load(); err != nil {
		log.Println("未找到.env文件，跳过")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}
	if cfg.JWT.Secret == "" {
		logger.Log.Fatal("jwt.secret未配置")
	}

	redisClient, err := redis.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Log.Fatalf("无法连接到Redis: %v", err)
	}
	logger.Log.Info("Redis连接成功")

	rabbitMQConn, err := rabbitmq.InitRabbitMQ(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Log.Fatalf("无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close() // 确保程序退出时关闭连接
	if err := rabbitmq.DeclareQueues(rabbitMQConn); err != nil {
		logger.Log.Fatalf("RabbitMQ队列声明失败: %v", err)
	}
	logger.Log.Info("RabbitMQ连接成功")

	db, err := data.NewDB(cfg.Mysql)
	if err != nil {
		logger.Log.Fatalf("无法连接到数据库: %v", err)
	}
	logger.Log.Info("数据库连接成功")
	if err := data.Migrate(db); err != nil {
		logger.Log.Fatalf("数据库迁移失败: %v", err)
	}
	logger.Log.Info("数据库迁移成功")

	provider, err := newMetadataProvider(context.Background(), cfg.Metadata)
	if err != nil {
		logger.Log.Fatalf("元数据来源初始化失败: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db, redisClient)
	platformRepo := repository.NewPlatformRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	uow := data.NewUnitOfWork(db, videoRepo, reviewRepo, likeRepo, commentRepo)

	ingestService := service.NewIngestService(
		videoRepo,
		service.NewEntityResolver(platformRepo, categoryRepo),
		service.NewCommitCoordinator(uow, cfg.Database.CommitTimeout),
		provider,
		service.NewAMQPEventPublisher(rabbitMQConn),
		cfg.Metadata.Timeout,
	)
	userService := service.NewUserService(userRepo, reviewRepo, likeRepo, cfg.JWT.Secret, cfg.JWT.TTL)
	videoService := service.NewVideoService(videoRepo, categoryRepo, uow)
	categoryService := service.NewCategoryService(categoryRepo)
	reviewService := service.NewReviewService(reviewRepo, videoRepo, likeRepo, uow)
	likeService := service.NewLikeService(likeRepo, reviewRepo)
	commentService := service.NewCommentService(commentRepo, reviewRepo)

	r := router.SetupRouter(
		cfg.JWT.Secret,
		handler.NewUserHandler(userService),
		handler.NewVideoHandler(ingestService, videoService),
		handler.NewCategoryHandler(categoryService),
		handler.NewReviewHandler(reviewService),
		handler.NewLikeHandler(likeService),
		handler.NewCommentHandler(commentService),
	)
	logger.Log.Infof("服务器将在%s启动", cfg.Server.Addr)

	if err := r.Run(cfg.Server.Addr); err != nil {
		logger.Log.Fatalf("服务器启动失败: %v", err)
	}
}

// 按配置选择元数据来源
func newMetadataProvider(ctx context.Context, cfg config.MetadataConfig) (source.Provider, error) {
	switch cfg.Provider {
	case "", "ytdlp":
		return source.NewYtDlpProvider(cfg.YtDlpPath), nil
	case "youtube_api":
		if cfg.YoutubeAPIKey == "" {
			return nil, errors.New("metadata.youtube_api_key未配置")
		}
		provider, err := source.NewYouTubeAPIProvider(ctx, option.WithAPIKey(cfg.YoutubeAPIKey))
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, errors.Errorf("未知的metadata.provider: %s", cfg.Provider)
	}
}
