package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics covers the order placement workflow and the live order feed.
type OrderMetrics struct {
	ordersPlaced       prometheus.Counter
	ordersRejected     *prometheus.CounterVec
	deliveriesAssigned prometheus.Counter
	placeDuration      prometheus.Histogram
	streamSubscribers  prometheus.Gauge
	notifyFailures     prometheus.Counter
}

// NewOrderMetrics registers the workflow metrics on the default registerer.
func NewOrderMetrics() *OrderMetrics {
	return NewOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewOrderMetricsWithRegisterer registers on a custom registerer, used by tests.
func NewOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersPlaced: registerCounter(registerer, prometheus.CounterOpts{
			Name: "agil_orders_placed_total",
			Help: "Total number of orders placed successfully",
		}),
		ordersRejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "agil_orders_rejected_total",
			Help: "Total number of order placements rejected grouped by reason",
		}, []string{"reason"}),
		deliveriesAssigned: registerCounter(registerer, prometheus.CounterOpts{
			Name: "agil_deliveries_assigned_total",
			Help: "Total number of deliveries assigned to stations",
		}),
		placeDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "agil_order_place_duration_seconds",
			Help:    "Duration of the order placement transaction in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		streamSubscribers: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "agil_order_stream_subscribers",
			Help: "Number of clients currently connected to the order feed",
		}),
		notifyFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "agil_order_notify_failures_total",
			Help: "Total number of best-effort notification publish failures",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderPlaced increments the successful placement counter.
func (m *OrderMetrics) RecordOrderPlaced() {
	m.ordersPlaced.Inc()
}

// RecordOrderRejected increments the rejection counter for the given reason.
func (m *OrderMetrics) RecordOrderRejected(reason string) {
	m.ordersRejected.WithLabelValues(reason).Inc()
}

// RecordDeliveryAssigned increments the delivery assignment counter.
func (m *OrderMetrics) RecordDeliveryAssigned() {
	m.deliveriesAssigned.Inc()
}

// RecordPlaceDuration records how long the placement transaction took.
func (m *OrderMetrics) RecordPlaceDuration(duration time.Duration) {
	m.placeDuration.Observe(duration.Seconds())
}

// RecordSubscriberConnected increments the live feed gauge.
func (m *OrderMetrics) RecordSubscriberConnected() {
	m.streamSubscribers.Inc()
}

// RecordSubscriberDisconnected decrements the live feed gauge.
func (m *OrderMetrics) RecordSubscriberDisconnected() {
	m.streamSubscribers.Dec()
}

// RecordNotifyFailure increments the dropped notification counter.
func (m *OrderMetrics) RecordNotifyFailure() {
	m.notifyFailures.Inc()
}
