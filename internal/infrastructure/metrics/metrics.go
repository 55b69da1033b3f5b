// Package metrics 私信业务指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderlog_messages_sent_total",
			Help: "Total number of messages written, labelled by whether they were gated as a request",
		},
		[]string{"gated"},
	)

	messageRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderlog_message_requests_total",
			Help: "Total number of message request transitions",
		},
		[]string{"action"},
	)

	eventsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderlog_events_delivered_total",
			Help: "Total number of domain events delivered to in-process subscribers",
		},
		[]string{"type"},
	)

	eventPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderlog_event_publish_errors_total",
			Help: "Total number of domain events that failed to publish",
		},
		[]string{"type"},
	)
)

// RecordMessageSent 记录一条写入的消息
func RecordMessageSent(isRequest bool) {
	gated := "false"
	if isRequest {
		gated = "true"
	}
	messagesSentTotal.WithLabelValues(gated).Inc()
}

// RecordRequest action: created / accepted / declined
func RecordRequest(action string) {
	messageRequestsTotal.WithLabelValues(action).Inc()
}

func RecordPublishError(eventType string) {
	eventPublishErrors.WithLabelValues(eventType).Inc()
}

func RecordEventDelivered(eventType string) {
	eventsDelivered.WithLabelValues(eventType).Inc()
}
