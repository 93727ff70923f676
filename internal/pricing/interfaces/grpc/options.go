package grpc

import (
	"github.com/wyfcoding/bsintuition/pkg/metrics"
	"github.com/wyfcoding/bsintuition/pkg/middleware"
	"github.com/wyfcoding/bsintuition/pkg/ratelimit"
	"google.golang.org/grpc"
)

// ServerOptions grpc.Server 组装选项，nil 字段对应的拦截器不启用
type ServerOptions struct {
	Metrics              *metrics.Metrics
	Limiter              ratelimit.RateLimiter
	MaxConcurrentStreams uint32
}

// NewGRPCServer 创建带恢复、日志、指标、限流拦截器的 grpc.Server
func NewGRPCServer(opts ServerOptions) *grpc.Server {
	interceptors := []grpc.UnaryServerInterceptor{
		middleware.GRPCRecoveryInterceptor(),
		middleware.GRPCLoggingInterceptor(),
	}
	var rec middleware.RejectRecorder
	if opts.Metrics != nil {
		interceptors = append(interceptors, middleware.GRPCMetricsInterceptor(opts.Metrics))
		rec = opts.Metrics
	}
	if opts.Limiter != nil {
		interceptors = append(interceptors, middleware.GRPCRateLimitInterceptor(opts.Limiter, rec))
	}

	serverOpts := []grpc.ServerOption{grpc.ChainUnaryInterceptor(interceptors...)}
	if opts.MaxConcurrentStreams > 0 {
		serverOpts = append(serverOpts, grpc.MaxConcurrentStreams(opts.MaxConcurrentStreams))
	}
	return grpc.NewServer(serverOpts...)
}
