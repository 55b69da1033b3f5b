package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordMessageSent(t *testing.T) {
	before := testutil.ToFloat64(messagesSentTotal.WithLabelValues("true"))
	RecordMessageSent(true)
	RecordMessageSent(false)
	assert.Equal(t, before+1, testutil.ToFloat64(messagesSentTotal.WithLabelValues("true")))
}

func TestRecordEventDelivered(t *testing.T) {
	before := testutil.ToFloat64(eventsDelivered.WithLabelValues("message.sent"))
	RecordEventDelivered("message.sent")
	assert.Equal(t, before+1, testutil.ToFloat64(eventsDelivered.WithLabelValues("message.sent")))
}

func TestRecordRequest(t *testing.T) {
	before := testutil.ToFloat64(messageRequestsTotal.WithLabelValues("declined"))
	RecordRequest("declined")
	assert.Equal(t, before+1, testutil.ToFloat64(messageRequestsTotal.WithLabelValues("declined")))
}
