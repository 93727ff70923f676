package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/bsintuition/pkg/metrics"
	"github.com/wyfcoding/bsintuition/pkg/middleware"
	"github.com/wyfcoding/bsintuition/pkg/ratelimit"
	"github.com/wyfcoding/bsintuition/pkg/response"
)

// RouterOptions 路由组装选项，nil 字段对应的中间件不启用
type RouterOptions struct {
	// 记录 HTTP 请求指标
	Metrics *metrics.Metrics
	// 非空时在该路径暴露 Prometheus 指标
	MetricsPath string
	Limiter     ratelimit.RateLimiter
	Version     string
}

// NewRouter 组装 Gin 引擎：中间件、健康检查、指标与定价路由
func NewRouter(h *PricingHandler, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.GinLoggingMiddleware(),
		middleware.GinRecoveryMiddleware(),
		middleware.GinCORSMiddleware(),
	)
	if opts.Metrics != nil {
		r.Use(middleware.GinMetricsMiddleware(opts.Metrics))
		if opts.MetricsPath != "" {
			r.GET(opts.MetricsPath, gin.WrapH(opts.Metrics.Handler()))
		}
	}

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok", "version": opts.Version})
	})

	api := r.Group("")
	if opts.Limiter != nil {
		var rec middleware.RejectRecorder
		if opts.Metrics != nil {
			rec = opts.Metrics
		}
		api.Use(middleware.RateLimitMiddleware(opts.Limiter, rec))
	}
	h.RegisterRoutes(api)

	r.NoRoute(func(c *gin.Context) {
		response.ErrorWithStatus(c, http.StatusNotFound, "not found", c.Request.URL.Path)
	})
	return r
}
