package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewOrderMetricsWithRegisterer(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOrderMetricsWithRegisterer(reg)

	m.RecordOrderPlaced()
	m.RecordOrderRejected("insufficient_stock")
	m.RecordDeliveryAssigned()
	m.RecordPlaceDuration(25 * time.Millisecond)
	m.RecordSubscriberConnected()
	m.RecordSubscriberDisconnected()
	m.RecordNotifyFailure()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected registered metric families")
	}
}

func TestNewOrderMetrics_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()

	// Registering twice on the same registerer must reuse collectors, not panic.
	first := NewOrderMetricsWithRegisterer(reg)
	second := NewOrderMetricsWithRegisterer(reg)

	first.RecordOrderPlaced()
	second.RecordOrderPlaced()
}
