package mq

import "context"

// EventPublisher 事件投递接口
// Service 层只依赖该接口，具体是 Kafka 还是进程内通道由配置决定
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
