package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegister_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestObserveDiscordDelivery(t *testing.T) {
	before := testutil.ToFloat64(DiscordDeliveriesTotal.WithLabelValues("failed"))
	ObserveDiscordDelivery("failed", 15*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(DiscordDeliveriesTotal.WithLabelValues("failed")))
}

func TestIncDispatchRequest(t *testing.T) {
	before := testutil.ToFloat64(DispatchRequestsTotal.WithLabelValues("ping", "ok"))
	IncDispatchRequest("ping", "ok")
	assert.Equal(t, before+1, testutil.ToFloat64(DispatchRequestsTotal.WithLabelValues("ping", "ok")))
}
