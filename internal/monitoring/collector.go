package monitoring

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gourmet/internal/chat"
	"gourmet/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records ordering metrics to a private Prometheus registry and
// mirrors the counters into a Monitor
type Collector struct {
	registry *prometheus.Registry
	monitor  *Monitor

	ordersCreated    prometheus.Counter
	orderValue       prometheus.Histogram
	orderItems       prometheus.Histogram
	transitions      *prometheus.CounterVec
	activeSessions   prometheus.Gauge
	chatRequests     *prometheus.CounterVec
	chatLatency      prometheus.Histogram
	httpRequestCount *prometheus.CounterVec
}

// NewCollector creates a collector with all metrics registered
func NewCollector(monitor *Monitor) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		monitor:  monitor,
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gourmet_orders_created_total",
			Help: "Orders placed from a non-empty cart",
		}),
		orderValue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gourmet_order_value_dollars",
			Help:    "Total amount of placed orders",
			Buckets: prometheus.LinearBuckets(10, 20, 10),
		}),
		orderItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gourmet_order_items",
			Help:    "Units per placed order",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gourmet_order_status_transitions_total",
			Help: "Order status changes",
		}, []string{"from", "to"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gourmet_active_sessions",
			Help: "Live customer sessions",
		}),
		chatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gourmet_chat_requests_total",
			Help: "Chat completions by outcome",
		}, []string{"outcome"}),
		chatLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gourmet_chat_latency_seconds",
			Help:    "Time spent waiting for chat completions",
			Buckets: prometheus.DefBuckets,
		}),
		httpRequestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gourmet_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"method", "route", "code"}),
	}

	registry.MustRegister(
		c.ordersCreated,
		c.orderValue,
		c.orderItems,
		c.transitions,
		c.activeSessions,
		c.chatRequests,
		c.chatLatency,
		c.httpRequestCount,
	)
	return c
}

// Registry exposes the underlying registry for tests and custom handlers
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Monitor returns the snapshot monitor
func (c *Collector) Monitor() *Monitor {
	return c.monitor
}

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// OrderCreated records a placed order
func (c *Collector) OrderCreated(_ string, o models.Order) {
	c.ordersCreated.Inc()
	value, _ := o.TotalAmount.Float64()
	c.orderValue.Observe(value)
	units := 0
	for _, it := range o.Items {
		units += it.Quantity
	}
	c.orderItems.Observe(float64(units))
	c.monitor.Increment("orders_created")
}

// OrderStatusChanged records a status transition
func (c *Collector) OrderStatusChanged(_ string, o models.Order, from models.OrderStatus) {
	c.transitions.WithLabelValues(string(from), string(o.Status)).Inc()
	c.monitor.Increment("orders_" + string(o.Status))
}

// SetActiveSessions records the live session count
func (c *Collector) SetActiveSessions(n int) {
	c.activeSessions.Set(float64(n))
	c.monitor.SetGauge("active_sessions", float64(n))
}

// RecordHTTPRequest counts a served request
func (c *Collector) RecordHTTPRequest(method, route string, code int) {
	c.httpRequestCount.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}

// RecordChat records the outcome and latency of a chat completion
func (c *Collector) RecordChat(elapsed time.Duration, err error) {
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		outcome = "timeout"
	default:
		outcome = "error"
	}
	c.chatRequests.WithLabelValues(outcome).Inc()
	c.chatLatency.Observe(elapsed.Seconds())
	c.monitor.Increment("chat_" + outcome)
}

// InstrumentCompleter wraps next so every completion is recorded. A nil next
// fails every completion.
func (c *Collector) InstrumentCompleter(next chat.Completer) chat.Completer {
	if next == nil {
		next = chat.CompleterFunc(func(context.Context, []models.ChatMessage, string) (string, error) {
			return "", fmt.Errorf("%w: no completer configured", chat.ErrCompletion)
		})
	}
	return chat.CompleterFunc(func(ctx context.Context, history []models.ChatMessage, message string) (string, error) {
		start := time.Now()
		reply, err := next.Complete(ctx, history, message)
		c.RecordChat(time.Since(start), err)
		return reply, err
	})
}
