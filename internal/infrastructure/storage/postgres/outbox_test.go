package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelayConfig_RetryDelay(t *testing.T) {
	cfg := RelayConfig{BaseDelay: 30 * time.Second, MaxDelay: 5 * time.Minute}

	tests := []struct {
		retries int
		want    time.Duration
	}{
		{0, 30 * time.Second},
		{1, time.Minute},
		{2, 2 * time.Minute},
		{3, 4 * time.Minute},
		{4, 5 * time.Minute},
		{10, 5 * time.Minute},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.RetryDelay(tt.retries), "retries=%d", tt.retries)
	}
}

func TestOutboxMessage_RoutingKey(t *testing.T) {
	msg := &OutboxMessage{AggregateType: "vendor_invoice", EventType: "paid"}
	assert.Equal(t, "vendor_invoice.paid", msg.RoutingKey())
}
