package rabbitmq

import (
	"github.com/streadway/amqp"
)

// 遵循：项目名.业务领域.事件
const QueueVideoIngested = "videoboxd.video.ingested"

// InitRabbitMQ 初始化RabbitMQ连接
func InitRabbitMQ(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// DeclareQueues 声明所有用到的持久化队列，重复声明是幂等的
func DeclareQueues(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	// 临时Channel，声明完就关闭
	defer ch.Close()
	_, err = ch.QueueDeclare(
		QueueVideoIngested, // name
		true,               // durable: RabbitMQ重启后队列仍然存在
		false,              // autoDelete
		false,              // exclusive
		false,              // noWait
		nil,                // args
	)
	return err
}
