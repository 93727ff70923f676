// Package metrics 提供定价服务的 Prometheus 指标，使用独立 registry
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wyfcoding/bsintuition/pkg/logger"
)

const namespace = "bsintuition"

// Metrics 指标集合
type Metrics struct {
	registry *prometheus.Registry

	// HTTP 请求计数
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// gRPC 请求计数
	GRPCRequestsTotal *prometheus.CounterVec
	// gRPC 请求耗时
	GRPCRequestDuration *prometheus.HistogramVec

	// 业务指标
	PricesTotal        *prometheus.CounterVec
	PricingErrorsTotal *prometheus.CounterVec
	SurfacesTotal      prometheus.Counter
	SurfaceDuration    prometheus.Histogram
	SurfacePoints      prometheus.Histogram
	CacheHitsTotal     prometheus.Counter
	CacheMissesTotal   prometheus.Counter
	RateLimitedTotal   *prometheus.CounterVec
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	return &Metrics{
		registry: prometheus.NewRegistry(),

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),

		GRPCRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "grpc_requests_total",
			Help:      "Total gRPC requests",
		}, []string{"method", "code"}),
		GRPCRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "grpc_request_duration_seconds",
			Help:      "gRPC request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),

		PricesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "prices_total",
			Help:      "Total option prices computed",
		}, []string{"kind"}),
		PricingErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "pricing_errors_total",
			Help:      "Total pricing failures by reason",
		}, []string{"reason"}),
		SurfacesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "surfaces_total",
			Help:      "Total price surfaces generated",
		}),
		SurfaceDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "surface_duration_seconds",
			Help:      "Price surface generation duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		SurfacePoints: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "surface_points",
			Help:      "Number of grid points per price surface",
			Buckets:   []float64{1, 9, 25, 121, 441, 1225, 2601},
		}),
		CacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "price_cache_hits_total",
			Help:      "Total price cache hits",
		}),
		CacheMissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "price_cache_misses_total",
			Help:      "Total price cache misses",
		}),
		RateLimitedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "rate_limited_total",
			Help:      "Total requests rejected by the rate limiter",
		}, []string{"transport"}),
	}
}

// Register 注册所有指标以及 Go 运行时、进程指标
func (m *Metrics) Register() error {
	cs := []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.GRPCRequestsTotal,
		m.GRPCRequestDuration,
		m.PricesTotal,
		m.PricingErrorsTotal,
		m.SurfacesTotal,
		m.SurfaceDuration,
		m.SurfacePoints,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.RateLimitedTotal,
	}
	for _, c := range cs {
		if err := m.registry.Register(c); err != nil {
			logger.Error(context.Background(), "Failed to register metric", "error", err)
			return err
		}
	}
	logger.Debug(context.Background(), "Metrics registered")
	return nil
}

// Registry 返回内部 registry
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler 返回 /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// NewServer 创建独立的 Prometheus HTTP 服务，由调用方负责启动与关闭
func (m *Metrics) NewServer(port int, path string) *http.Server {
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// RecordHTTPRequest 记录 HTTP 请求
func (m *Metrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordGRPCRequest 记录 gRPC 请求
func (m *Metrics) RecordGRPCRequest(method, code string, duration time.Duration) {
	m.GRPCRequestsTotal.WithLabelValues(method, code).Inc()
	m.GRPCRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordPrice 记录一次期权定价
func (m *Metrics) RecordPrice(kind string) {
	m.PricesTotal.WithLabelValues(kind).Inc()
}

// RecordPricingError 记录一次定价失败
func (m *Metrics) RecordPricingError(reason string) {
	m.PricingErrorsTotal.WithLabelValues(reason).Inc()
}

// RecordSurface 记录一次曲面生成
func (m *Metrics) RecordSurface(points int, duration time.Duration) {
	m.SurfacesTotal.Inc()
	m.SurfacePoints.Observe(float64(points))
	m.SurfaceDuration.Observe(duration.Seconds())
}

// RecordRateLimited 记录被限流的请求
func (m *Metrics) RecordRateLimited(transport string) {
	m.RateLimitedTotal.WithLabelValues(transport).Inc()
}

// CacheHit 实现价格缓存观察者
func (m *Metrics) CacheHit() { m.CacheHitsTotal.Inc() }

// CacheMiss 实现价格缓存观察者
func (m *Metrics) CacheMiss() { m.CacheMissesTotal.Inc() }
