package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// StrikeGranularities 行权价步长候选，从大到小
var StrikeGranularities = []float64{1.0, 0.5, 0.25, 0.1}

// SurfaceRequest 价格曲面请求
type SurfaceRequest struct {
	CenterStrike     float64    // 中心行权价
	CenterVolatility float64    // 中心波动率
	TimeToExpiration float64    // 到期时间 (年)
	Rate             float64    // 无风险利率
	Spot             float64    // 标的资产价格
	Drift            float64    // 正态分布均值偏移
	Kind             OptionKind // 期权类型
	VolatilityRange  float64    // 波动率半宽
	GridSize         int        // 每个维度的网格点数
}

// Surface 价格曲面
// Prices 的行对应波动率，列对应行权价
type Surface struct {
	Prices           *mat.Dense
	Strikes          []float64
	Volatilities     []float64
	StrikeLabels     []string
	VolatilityLabels []string
	StrikeStep       float64
	Kind             OptionKind
	Spot             float64
}

// Validate 校验曲面请求
func (r SurfaceRequest) Validate() error {
	if r.GridSize < 1 {
		return fmt.Errorf("%w: grid size %d must be at least 1", ErrInvalidParameter, r.GridSize)
	}
	if !finite(r.VolatilityRange) || r.VolatilityRange < 0 {
		return fmt.Errorf("%w: volatility range %v must be non-negative", ErrInvalidParameter, r.VolatilityRange)
	}
	if !finite(r.CenterStrike) || r.CenterStrike <= 0 {
		return fmt.Errorf("%w: center strike %v must be positive", ErrInvalidParameter, r.CenterStrike)
	}
	if !finite(r.CenterVolatility) || r.CenterVolatility < 0 {
		return fmt.Errorf("%w: center volatility %v must be non-negative", ErrInvalidParameter, r.CenterVolatility)
	}
	return nil
}

// NormalizeGridSize 将偶数网格大小调整为奇数，保证中心点可精确表示
func NormalizeGridSize(n int) int {
	return n - n%2 + 1
}

// StrikeGranularity 选取使最小行权价不为负的最大步长
// 所有候选都不满足时，使用 center/half，使最小行权价恰好为 0
func StrikeGranularity(center float64, half int) float64 {
	if half <= 0 {
		return StrikeGranularities[0]
	}
	c := decimal.NewFromFloat(center)
	n := decimal.NewFromInt(int64(half))
	for _, g := range StrikeGranularities {
		if c.GreaterThanOrEqual(decimal.NewFromFloat(g).Mul(n)) {
			return g
		}
	}
	step, _ := c.Div(n).Float64()
	return step
}

// GenerateSurface 在 (波动率, 行权价) 网格上逐点调用定价器
func GenerateSurface(pricer Pricer, req SurfaceRequest) (*Surface, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	n := NormalizeGridSize(req.GridSize)

	strikes, step := strikeAxis(req.CenterStrike, n)
	vols := volatilityAxis(req.CenterVolatility, req.VolatilityRange, n)

	prices := mat.NewDense(n, n, nil)
	for i, vol := range vols {
		for j, strike := range strikes {
			in := PriceInput{
				Volatility:       vol,
				TimeToExpiration: req.TimeToExpiration,
				Spot:             req.Spot,
				Strike:           strike,
				Rate:             req.Rate,
				Kind:             req.Kind,
				Drift:            req.Drift,
			}
			var (
				price float64
				err   error
			)
			// 波动率或行权价为 0 时取极限值，两者的极限一致
			if (vol == 0 || strike == 0) && req.TimeToExpiration > 0 {
				price, err = ZeroVolatilityPrice(in)
			} else {
				price, err = pricer.Price(in)
			}
			if err != nil {
				return nil, fmt.Errorf("surface point (volatility=%v, strike=%v): %w", vol, strike, err)
			}
			prices.Set(i, j, price)
		}
	}

	return &Surface{
		Prices:           prices,
		Strikes:          strikes,
		Volatilities:     vols,
		StrikeLabels:     labels(strikes, CurrencyLabel),
		VolatilityLabels: labels(vols, PercentLabel),
		StrikeStep:       step,
		Kind:             req.Kind,
		Spot:             req.Spot,
	}, nil
}

// Size 每个维度的网格点数
func (s *Surface) Size() int { return len(s.Strikes) }

// At 返回第 volIdx 个波动率、第 strikeIdx 个行权价处的价格
func (s *Surface) At(volIdx, strikeIdx int) float64 { return s.Prices.At(volIdx, strikeIdx) }

// Rows 以二维切片形式返回价格矩阵
func (s *Surface) Rows() [][]float64 {
	r, _ := s.Prices.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = mat.Row(nil, i, s.Prices)
	}
	return rows
}

// MeshGrid 返回用于三维曲面绘图的网格坐标
func (s *Surface) MeshGrid() (strikes, vols [][]float64) {
	strikes = make([][]float64, len(s.Volatilities))
	vols = make([][]float64, len(s.Volatilities))
	for i, v := range s.Volatilities {
		strikes[i] = append([]float64(nil), s.Strikes...)
		vols[i] = make([]float64, len(s.Strikes))
		for j := range vols[i] {
			vols[i][j] = v
		}
	}
	return strikes, vols
}

// CurrencyLabel 格式化为货币，例如 $95.00
func CurrencyLabel(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

// PercentLabel 格式化为百分比，例如 0.1 -> 10.00%
func PercentLabel(v float64) string {
	return decimal.NewFromFloat(v).Shift(2).StringFixed(2) + "%"
}

func strikeAxis(center float64, n int) ([]float64, float64) {
	half := n / 2
	step := StrikeGranularity(center, half)
	c := decimal.NewFromFloat(center)
	g := decimal.NewFromFloat(step)

	strikes := make([]float64, n)
	for i := range strikes {
		if i == half {
			strikes[i] = center
			continue
		}
		v, _ := c.Add(g.Mul(decimal.NewFromInt(int64(i - half)))).Float64()
		strikes[i] = math.Max(0, v)
	}
	if half > 0 && c.LessThan(decimal.NewFromFloat(StrikeGranularities[len(StrikeGranularities)-1]).Mul(decimal.NewFromInt(int64(half)))) {
		strikes[0] = 0
	}
	return strikes, step
}

func volatilityAxis(center, rng float64, n int) []float64 {
	if n == 1 {
		return []float64{center}
	}
	lo := center - rng
	clamped := lo < 0
	if clamped {
		lo = 0
	}
	vols := floats.Span(make([]float64, n), lo, center+rng)
	if !clamped {
		vols[n/2] = center
	}
	return vols
}

func labels(values []float64, format func(float64) string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = format(v)
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
