package domain

// Params 模型参数
// 不可变值对象，按值传递；零值等价于全部为 0 的看涨期权
type Params struct {
	Time            float64    // 当前时间（天）
	ExpirationTime  float64    // 到期时间（天）
	RiskFreeRate    float64    // 无风险利率（年化，连续复利）
	PriceUnderlying float64    // 标的资产价格
	DriftRate       float64    // 正态分布均值偏移，默认 0
	Volatility      float64    // 波动率（年化）
	Kind            OptionKind // 期权类型
	Strike          float64    // 行权价
}

// TimeToExpiration 距到期时间（年），可为 0 或负数（已到期）
func (p Params) TimeToExpiration() float64 {
	return (p.ExpirationTime - p.Time) / DaysPerYear
}

// PriceInput 定价函数的输入元组
func (p Params) PriceInput() PriceInput {
	return PriceInput{
		Volatility:       p.Volatility,
		TimeToExpiration: p.TimeToExpiration(),
		Spot:             p.PriceUnderlying,
		Strike:           p.Strike,
		Rate:             p.RiskFreeRate,
		Kind:             p.Kind,
		Drift:            p.DriftRate,
	}
}

// Price 按需计算期权价格
func (p Params) Price(pricer Pricer) (float64, error) {
	return pricer.Price(p.PriceInput())
}

// Surface 以当前参数为中心生成价格曲面
func (p Params) Surface(pricer Pricer, volatilityRange float64, gridSize int) (*Surface, error) {
	return GenerateSurface(pricer, p.SurfaceRequest(volatilityRange, gridSize))
}

// SurfaceRequest 以当前参数为中心构造曲面请求
func (p Params) SurfaceRequest(volatilityRange float64, gridSize int) SurfaceRequest {
	return SurfaceRequest{
		CenterStrike:     p.Strike,
		CenterVolatility: p.Volatility,
		TimeToExpiration: p.TimeToExpiration(),
		Rate:             p.RiskFreeRate,
		Spot:             p.PriceUnderlying,
		Drift:            p.DriftRate,
		Kind:             p.Kind,
		VolatilityRange:  volatilityRange,
		GridSize:         gridSize,
	}
}
