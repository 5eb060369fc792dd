package main

import (
	"Videoboxd/internal/config"
	"Videoboxd/internal/data"
	"Videoboxd/internal/repository"
	"Videoboxd/internal/service"
	"Videoboxd/pkg/logger"
	"Videoboxd/pkg/rabbitmq"
	"Videoboxd/pkg/redis"
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

// 消费者进程：收到视频入库事件后把视频详情预热到Redis
func main() {
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

	db, err := data.NewDB(cfg.Mysql)
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到数据库: %v", err)
	}
	redisClient, err := redis.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到Redis: %v", err)
	}
	rabbitMQConn, err := rabbitmq.InitRabbitMQ(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close()
	if err := rabbitmq.DeclareQueues(rabbitMQConn); err != nil {
		logger.Log.Fatalf("RabbitMQ队列声明失败: %v", err)
	}

	videoRepo := repository.NewVideoRepository(db, redisClient)
	uow := data.NewUnitOfWork(db, videoRepo,
		repository.NewReviewRepository(db),
		repository.NewLikeRepository(db),
		repository.NewCommentRepository(db))
	videoService := service.NewVideoService(videoRepo, repository.NewCategoryRepository(db), uow)

	consumeVideoIngested(rabbitMQConn, videoService)
}

// 入库事件消费者：1、通过mq的TCP连接创建channel 2、注册消费者 3、持续消费消息，预热缓存，并对消息进行Ack/Nack
func consumeVideoIngested(conn *amqp.Connection, videoService service.VideoService) {
	ch, err := conn.Channel()
	if err != nil {
		logger.Log.Fatalf("无法打开Channel: %v", err)
	}
	defer ch.Close()

	msgs, err := ch.Consume(
		rabbitmq.QueueVideoIngested, // queue
		"",                          // consumer
		false,                       // auto-ack: 手动确认，处理失败可以重新投递
		false,                       // exclusive
		false,                       // no-local
		false,                       // no-wait
		nil,                         // args
	)
	if err != nil {
		logger.Log.Fatalf("无法注册入库事件消费者: %v", err)
	}
	forever := make(chan bool)

	go func() {
		// msgs是通道，为空时阻塞
		for d := range msgs {
			logCtx := logger.Log.WithField("message_id", d.MessageId).WithField("redelivered", d.Redelivered)
			logCtx.Info("收到一条视频入库事件")

			var event service.VideoIngestedEvent
			if err := json.Unmarshal(d.Body, &event); err != nil {
				logCtx.WithError(err).Error("消息JSON解析失败")
				// 坏消息重试也没用，直接丢弃
				_ = d.Nack(false, false)
				continue
			}
			logCtx = logCtx.WithField("video_id", event.VideoID).WithField("platform_video_id", event.PlatformVideoID)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := videoService.WarmVideoCache(ctx, event.VideoID)
			cancel()
			switch {
			case err == nil:
				logCtx.Info("视频缓存预热完成")
				_ = d.Ack(false)
			case errors.Is(err, service.ErrVideoNotFound):
				// 视频在事件投递后被删掉了，不需要重试
				logCtx.Warn("视频已不存在，跳过预热")
				_ = d.Ack(false)
			case d.Redelivered:
				// 已经重试过一次，预热只是优化，放弃
				logCtx.WithError(err).Error("缓存预热再次失败，放弃该消息")
				_ = d.Nack(false, false)
			default:
				logCtx.WithError(err).Error("缓存预热失败，将进行重试")
				_ = d.Nack(false, true)
			}
		}
	}()
	logger.Log.Info(" [*] 等待视频入库事件中. 按 CTRL+C 退出")
	<-forever
}
