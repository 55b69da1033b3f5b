package mq

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"wanderlog/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelPublisherDeliversInOrder(t *testing.T) {
	p := NewChannelPublisher(8)
	var (
		mu  sync.Mutex
		got []string
	)
	p.Subscribe(func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.MessageId)
	})
	p.Subscribe(func(Event) { panic("bad subscriber") })

	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, p.Publish(context.Background(), Event{Type: EventMessageSent, MessageId: id}))
	}
	require.NoError(t, p.Close())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"1", "2", "3"}, got)
}

func TestChannelPublisherHonoursContext(t *testing.T) {
	p := &ChannelPublisher{events: make(chan Event), done: make(chan struct{})}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Publish(ctx, Event{}), context.DeadlineExceeded)
}

func TestEncodeKeysByReceiver(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	msg, err := encode(Event{Type: EventRequestCreated, SenderId: "A", ReceiverId: "B", IsRequest: true, OccurredAt: now})
	require.NoError(t, err)
	assert.Equal(t, "B", string(msg.Key))

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, EventRequestCreated, decoded.Type)
	assert.True(t, decoded.IsRequest)
}

func TestNewPublisherDefaultsToChannel(t *testing.T) {
	p := NewPublisher(&config.KafkaConfig{EventMode: "channel"})
	cp, ok := p.(*ChannelPublisher)
	require.True(t, ok)
	assert.Len(t, cp.subscribers, 1)

	var got []string
	cp.Subscribe(func(e Event) { got = append(got, e.Type) })
	require.NoError(t, p.Publish(context.Background(), Event{Type: EventRequestAccepted, SenderId: "A", ReceiverId: "B", Count: 2}))
	require.NoError(t, p.Close())
	assert.Equal(t, []string{EventRequestAccepted}, got)
}
