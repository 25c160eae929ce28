package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "shopcore"

// Metrics 业务与 HTTP 指标，nil 接收者上的方法均为空操作
type Metrics struct {
	registry     *prometheus.Registry
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	checkouts    *prometheus.CounterVec
	callbacks    *prometheus.CounterVec
	orderChanges *prometheus.CounterVec
}

// New 创建独立注册表上的指标集合
func New(namespace string) *Metrics {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = defaultNamespace
	}
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"method", "route"}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "total",
			Help:      "Checkout attempts by source, payment method and result.",
		}, []string{"source", "payment_method", "result"}),
		callbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "callbacks_total",
			Help:      "Payment gateway callbacks by result.",
		}, []string{"result"}),
		orderChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "order",
			Name:      "transitions_total",
			Help:      "Order state transitions by trigger and resulting payment status.",
		}, []string{"trigger", "payment_status"}),
	}
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpLatency,
		m.checkouts,
		m.callbacks,
		m.orderChanges,
	)
	return m
}

// ObserveHTTP 记录一次 HTTP 请求
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(float64(elapsed.Microseconds()) / 1000)
}

// ObserveCheckout 记录一次下单结果
func (m *Metrics) ObserveCheckout(source, paymentMethod, result string) {
	if m == nil {
		return
	}
	m.checkouts.WithLabelValues(source, paymentMethod, result).Inc()
}

// ObserveCallback 记录一次网关回调结果
func (m *Metrics) ObserveCallback(result string) {
	if m == nil {
		return
	}
	m.callbacks.WithLabelValues(result).Inc()
}

// ObserveTransition 记录一次订单状态流转
func (m *Metrics) ObserveTransition(trigger, paymentStatus string) {
	if m == nil {
		return
	}
	m.orderChanges.WithLabelValues(trigger, paymentStatus).Inc()
}

// Gatherer 返回注册表
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

// Handler 返回 Prometheus 抓取处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Gatherer(), promhttp.HandlerOpts{})
}
