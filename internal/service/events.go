package service

import (
	"Videoboxd/pkg/rabbitmq"
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

// VideoIngestedEvent 视频入库成功后投递到MQ的消息
type VideoIngestedEvent struct {
	EventID         string    `json:"event_id"`
	VideoID         uint64    `json:"video_id"`
	PlatformVideoID string    `json:"platform_video_id"`
	UserID          uint64    `json:"user_id"`
	OccurredAt      time.Time `json:"occurred_at"`
}

func NewVideoIngestedEvent(videoID uint64, platformVideoID string, userID uint64) VideoIngestedEvent {
	return VideoIngestedEvent{
		EventID:         uuid.NewString(),
		VideoID:         videoID,
		PlatformVideoID: platformVideoID,
		UserID:          userID,
		OccurredAt:      time.Now().UTC(),
	}
}

type EventPublisher interface {
	PublishVideoIngested(ctx context.Context, event VideoIngestedEvent) error
}

type amqpEventPublisher struct {
	conn *amqp.Connection
}

// NewAMQPEventPublisher 队列需要提前用rabbitmq.DeclareQueues声明好
func NewAMQPEventPublisher(conn *amqp.Connection) EventPublisher {
	return &amqpEventPublisher{conn: conn}
}

// 为每一个消息建立一个单独的channel，消息之间互不影响
func (p *amqpEventPublisher) PublishVideoIngested(ctx context.Context, event VideoIngestedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return errors.Wrap(err, "open channel")
	}
	defer ch.Close()

	body, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "encode event")
	}
	err = ch.Publish(
		"",                          // 默认交换机
		rabbitmq.QueueVideoIngested, // routing key就是队列名
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.EventID,
			Timestamp:    event.OccurredAt,
			Body:         body,
		})
	return errors.Wrapf(err, "publish event %s", event.EventID)
}

// NoopEventPublisher 没有MQ时使用，直接丢弃事件
type NoopEventPublisher struct{}

func (NoopEventPublisher) PublishVideoIngested(context.Context, VideoIngestedEvent) error {
	return nil
}
