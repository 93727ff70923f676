package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	grpchandler "github.com/wyfcoding/bsintuition/internal/pricing/interfaces/grpc"
	httphandler "github.com/wyfcoding/bsintuition/internal/pricing/interfaces/http"
	"github.com/wyfcoding/bsintuition/pkg/config"
	"github.com/wyfcoding/bsintuition/pkg/logger"
	"github.com/wyfcoding/bsintuition/pkg/metrics"
	"github.com/wyfcoding/bsintuition/pkg/ratelimit"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/reflection"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC pricing servers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, c *config.Config) error {
	m := metrics.New(BootstrapName)
	if err := m.Register(); err != nil {
		return err
	}

	svc, err := newPricingService(c, m)
	if err != nil {
		return err
	}

	var limiter ratelimit.RateLimiter
	if c.RateLimit.Enabled {
		l, err := ratelimit.NewLocalRateLimiter(ratelimit.Limit{QPS: c.RateLimit.QPS, Burst: c.RateLimit.Burst})
		if err != nil {
			return err
		}
		limiter = l
	}

	// gRPC
	grpcSrv := grpchandler.NewGRPCServer(grpchandler.ServerOptions{
		Metrics:              m,
		Limiter:              limiter,
		MaxConcurrentStreams: uint32(c.GRPC.MaxConcurrentStreams),
	})
	grpchandler.NewServer(grpcSrv, svc)
	reflection.Register(grpcSrv)

	// HTTP
	if c.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	routerOpts := httphandler.RouterOptions{Metrics: m, Limiter: limiter, Version: c.Version}
	// metrics.port 为 0 时指标挂在 HTTP 服务上
	if c.Metrics.Enabled && c.Metrics.Port == 0 {
		routerOpts.MetricsPath = c.Metrics.Path
	}
	router := httphandler.NewRouter(httphandler.NewPricingHandler(svc), routerOpts)

	httpSrv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(c.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(c.HTTP.WriteTimeout) * time.Second,
	}

	var metricsSrv *http.Server
	if c.Metrics.Enabled && c.Metrics.Port > 0 {
		metricsSrv = m.NewServer(c.Metrics.Port, c.Metrics.Path)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		addr := fmt.Sprintf("%s:%d", c.GRPC.Host, c.GRPC.Port)
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}
		logger.Info(gctx, "gRPC server starting", "addr", addr, "service", grpchandler.ServiceName)
		return grpcSrv.Serve(lis)
	})

	g.Go(func() error {
		logger.Info(gctx, "HTTP server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if metricsSrv != nil {
		g.Go(func() error {
			logger.Info(gctx, "Prometheus HTTP server starting", "addr", metricsSrv.Addr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	// Graceful Shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info(context.Background(), "shutting down servers...")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		errs = append(errs, httpSrv.Shutdown(sctx))
		if metricsSrv != nil {
			errs = append(errs, metricsSrv.Shutdown(sctx))
		}
		grpcSrv.GracefulStop()
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		logger.Error(context.Background(), "server exited with error", "error", err)
		return err
	}
	logger.Info(context.Background(), "server stopped")
	return nil
}
