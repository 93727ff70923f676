package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/wyfcoding/bsintuition/internal/pricing/application"
	"github.com/wyfcoding/bsintuition/internal/pricing/domain"
)

// paramFlags 命令行参数，未显式设置的字段取配置默认值
type paramFlags struct {
	time, expiration, rate, spot, drift, volatility, strike float64
	kind                                                    string
	asJSON                                                  bool
}

func (f *paramFlags) register(fs *pflag.FlagSet) {
	fs.Float64Var(&f.time, "time", 0, "current time in days")
	fs.Float64Var(&f.expiration, "expiration", domain.DaysPerYear, "expiration time in days")
	fs.Float64Var(&f.rate, "rate", 0.05, "risk-free interest rate")
	fs.Float64Var(&f.spot, "spot", 100, "price of the underlying")
	fs.Float64Var(&f.drift, "drift", 0, "mean shift of the normal distribution")
	fs.Float64Var(&f.volatility, "volatility", 0.10, "volatility")
	fs.Float64Var(&f.strike, "strike", 100, "strike price")
	fs.StringVar(&f.kind, "kind", "Call", "option kind: Call or Put")
	fs.BoolVar(&f.asJSON, "json", false, "print JSON instead of a table")
}

func (f *paramFlags) command(fs *pflag.FlagSet) application.ParamsCommand {
	var cmd application.ParamsCommand
	setIf := func(name string, dst **float64, v float64) {
		if fs.Changed(name) {
			*dst = &v
		}
	}
	setIf("time", &cmd.Time, f.time)
	setIf("expiration", &cmd.ExpirationTime, f.expiration)
	setIf("rate", &cmd.RiskFreeRate, f.rate)
	setIf("spot", &cmd.PriceUnderlying, f.spot)
	setIf("drift", &cmd.DriftRate, f.drift)
	setIf("volatility", &cmd.Volatility, f.volatility)
	setIf("strike", &cmd.Strike, f.strike)
	if fs.Changed("kind") {
		kind := f.kind
		cmd.Kind = &kind
	}
	return cmd
}

func newPriceCmd() *cobra.Command {
	var flags paramFlags
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a single European option",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newPricingService(cfg, nil)
			if err != nil {
				return err
			}
			quote, err := svc.PriceOption(cmd.Context(), application.PriceOptionCommand{ParamsCommand: flags.command(cmd.Flags())})
			if err != nil {
				return err
			}
			if flags.asJSON {
				return writeJSON(cmd.OutOrStdout(), quote)
			}
			return writeQuote(cmd.OutOrStdout(), quote)
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func newSurfaceCmd() *cobra.Command {
	var (
		flags    paramFlags
		volRange float64
		gridSize int
	)
	cmd := &cobra.Command{
		Use:   "surface",
		Short: "Print the price heatmap over strike and volatility",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newPricingService(cfg, nil)
			if err != nil {
				return err
			}
			req := application.GenerateSurfaceCommand{ParamsCommand: flags.command(cmd.Flags())}
			if cmd.Flags().Changed("range") {
				req.VolatilityRange = &volRange
			}
			if cmd.Flags().Changed("grid") {
				req.GridSize = &gridSize
			}
			surface, err := svc.GenerateSurface(cmd.Context(), req)
			if err != nil {
				return err
			}
			if flags.asJSON {
				return writeJSON(cmd.OutOrStdout(), surface)
			}
			return writeSurface(cmd.OutOrStdout(), surface)
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().Float64Var(&volRange, "range", 0.05, "volatility half-width of the surface")
	cmd.Flags().IntVar(&gridSize, "grid", 11, "grid points per axis, even values are rounded up to odd")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeQuote(w io.Writer, q *application.QuoteDTO) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	p := q.Params
	rows := [][2]string{
		{"Kind", p.Kind.Label()},
		{"Underlying", domain.CurrencyLabel(p.PriceUnderlying)},
		{"Strike", domain.CurrencyLabel(p.Strike)},
		{"Volatility", domain.PercentLabel(p.Volatility)},
		{"Risk-free rate", domain.PercentLabel(p.RiskFreeRate)},
		{"Years to expiration", strconv.FormatFloat(p.TimeToExpiration, 'f', 4, 64)},
		{"Price", domain.CurrencyLabel(q.Price)},
		{"Intrinsic value", domain.CurrencyLabel(q.Intrinsic)},
		{"Time value", domain.CurrencyLabel(q.TimeValue)},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1])
	}
	return tw.Flush()
}

// writeSurface 行为波动率（自上而下递减），列为行权价
func writeSurface(w io.Writer, s *application.SurfaceDTO) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s price\\vol", s.Params.Kind.Label())
	for _, label := range s.StrikeLabels {
		fmt.Fprintf(tw, "\t%s", label)
	}
	fmt.Fprint(tw, "\t\n")
	for i := len(s.Prices) - 1; i >= 0; i-- {
		fmt.Fprint(tw, s.VolatilityLabels[i])
		for _, price := range s.Prices[i] {
			fmt.Fprintf(tw, "\t%s", strconv.FormatFloat(price, 'f', 2, 64))
		}
		fmt.Fprint(tw, "\t\n")
	}
	return tw.Flush()
}
