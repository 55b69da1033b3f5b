package mq

import (
	"wanderlog/internal/config"
	"wanderlog/internal/infrastructure/metrics"
	"wanderlog/pkg/constants"

	"go.uber.org/zap"
)

// NewPublisher 按 kafkaConfig.eventMode 选择投递方式
// channel 模式下默认挂上日志与指标订阅者
func NewPublisher(cfg *config.KafkaConfig) EventPublisher {
	if cfg.EventMode == "kafka" {
		EnsureTopic(cfg)
		return NewKafkaPublisher(cfg)
	}
	p := NewChannelPublisher(constants.EVENT_CHANNEL_SIZE)
	p.Subscribe(logSink)
	return p
}

// logSink 记录每个事件并计数
func logSink(event Event) {
	zap.L().Info("message event",
		zap.String("type", event.Type),
		zap.String("sender", event.SenderId),
		zap.String("receiver", event.ReceiverId),
		zap.String("message_id", event.MessageId),
		zap.Int64("count", event.Count),
	)
	metrics.RecordEventDelivered(event.Type)
}
