package mq

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// ChannelPublisher 进程内事件投递，单机部署或未接入 Kafka 时使用
// 事件经缓冲通道交给后台协程，依次回调已注册的订阅者
type ChannelPublisher struct {
	events      chan Event
	mu          sync.RWMutex
	subscribers []func(Event)
	done        chan struct{}
	closeOnce   sync.Once
}

// NewChannelPublisher 创建并启动进程内投递器
func NewChannelPublisher(size int) *ChannelPublisher {
	p := &ChannelPublisher{
		events: make(chan Event, size),
		done:   make(chan struct{}),
	}
	go p.loop()
	return p
}

// Subscribe 注册事件回调，回调在投递协程中执行，不应阻塞
func (p *ChannelPublisher) Subscribe(fn func(Event)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = append(p.subscribers, fn)
}

func (p *ChannelPublisher) Publish(ctx context.Context, event Event) error {
	select {
	case p.events <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *ChannelPublisher) loop() {
	defer close(p.done)
	for event := range p.events {
		p.mu.RLock()
		subs := p.subscribers
		p.mu.RUnlock()
		for _, fn := range subs {
			p.dispatch(fn, event)
		}
	}
}

func (p *ChannelPublisher) dispatch(fn func(Event), event Event) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("event subscriber panic", zap.Any("recover", rec), zap.String("type", event.Type))
		}
	}()
	fn(event)
}

// Close 停止接收新事件，并等待已缓冲的事件投递完毕
func (p *ChannelPublisher) Close() error {
	p.closeOnce.Do(func() {
		close(p.events)
	})
	<-p.done
	return nil
}

var _ EventPublisher = (*ChannelPublisher)(nil)
