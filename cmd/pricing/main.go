package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wyfcoding/bsintuition/internal/pricing/application"
	"github.com/wyfcoding/bsintuition/internal/pricing/domain"
	"github.com/wyfcoding/bsintuition/internal/pricing/infrastructure/cache"
	"github.com/wyfcoding/bsintuition/pkg/config"
	"github.com/wyfcoding/bsintuition/pkg/logger"
	"github.com/wyfcoding/bsintuition/pkg/metrics"
)

// BootstrapName 服务名
const BootstrapName = "pricing"

var (
	configPath string
	cfg        *config.Config
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           BootstrapName,
		Short:         "Black-Scholes option pricing service",
		Long:          "Prices European options with the Black-Scholes model and renders price surfaces over strike and volatility.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c, err := config.Load(configPath)
			if err != nil {
				return err
			}
			lc := c.Logger.ToLogger()
			// 命令行输出走 stdout，日志改到 stderr
			if cmd.Name() != "serve" && lc.Output == "stdout" {
				lc.Output = "stderr"
			}
			if err := logger.Init(lc); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			cfg = c
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")

	root.AddCommand(newServeCmd(), newPriceCmd(), newSurfaceCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// defaultsFromConfig 将配置中的默认参数转换为应用层默认值
func defaultsFromConfig(d config.PricingDefaults) (application.Defaults, error) {
	kind, err := domain.ParseOptionKind(d.Kind)
	if err != nil {
		return application.Defaults{}, fmt.Errorf("pricing.defaults.kind: %w", err)
	}
	return application.Defaults{
		ExpirationTime:  d.ExpirationTime,
		RiskFreeRate:    d.RiskFreeRate,
		PriceUnderlying: d.PriceUnderlying,
		DriftRate:       d.DriftRate,
		Volatility:      d.Volatility,
		Kind:            kind,
		Strike:          d.Strike,
		VolatilityRange: d.VolatilityRange,
		GridSize:        d.GridSize,
	}, nil
}

// newPricingService 组装定价器、缓存与应用服务，m 可为 nil
func newPricingService(c *config.Config, m *metrics.Metrics) (*application.PricingService, error) {
	defaults, err := defaultsFromConfig(c.Pricing.Defaults)
	if err != nil {
		return nil, err
	}

	var (
		observer cache.Observer
		recorder application.Recorder
	)
	if m != nil {
		observer, recorder = m, m
	}
	pricer, err := cache.NewCachedPricer(domain.BlackScholes, c.Pricing.CacheSize, observer)
	if err != nil {
		return nil, err
	}
	return application.NewPricingService(pricer, recorder, c.Pricing.MaxGridSize, defaults), nil
}
