package mq

import (
	"context"
	"encoding/json"
	"net"
	"strconv"
	"time"

	"wanderlog/internal/config"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaPublisher 把事件写入 Kafka 主题，以 ReceiverId 为 Key 保证同一接收者的事件有序
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher 创建 Kafka 事件投递器
func NewKafkaPublisher(cfg *config.KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.HostPort),
			Topic:                  cfg.EventTopic,
			Balancer:               &kafka.Hash{},
			WriteTimeout:           cfg.Timeout * time.Second,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: false,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	msg, err := encode(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func encode(event Event) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(event.ReceiverId),
		Value: value,
		Time:  event.OccurredAt,
	}, nil
}

// EnsureTopic 在 controller 上创建事件主题，主题已存在时 Kafka 会返回错误，仅记录日志
func EnsureTopic(cfg *config.KafkaConfig) {
	conn, err := kafka.Dial("tcp", cfg.HostPort)
	if err != nil {
		zap.L().Error("dial kafka failed", zap.String("addr", cfg.HostPort), zap.Error(err))
		return
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		zap.L().Error("get kafka controller failed", zap.Error(err))
		return
	}
	controllerConn, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		zap.L().Error("dial kafka controller failed", zap.Error(err))
		return
	}
	defer controllerConn.Close()

	err = controllerConn.CreateTopics(kafka.TopicConfig{
		Topic:             cfg.EventTopic,
		NumPartitions:     cfg.Partition,
		ReplicationFactor: 1,
	})
	if err != nil {
		zap.L().Warn("create kafka topic", zap.String("topic", cfg.EventTopic), zap.Error(err))
	}
}

var _ EventPublisher = (*KafkaPublisher)(nil)
