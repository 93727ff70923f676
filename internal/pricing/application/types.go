package application

import (
	"github.com/wyfcoding/bsintuition/internal/pricing/domain"
)

// ParamsCommand 模型参数，缺省字段取默认值
type ParamsCommand struct {
	Time            *float64 `json:"time,omitempty"`             // 当前时间（天）
	ExpirationTime  *float64 `json:"expiration_time,omitempty"`  // 到期时间（天）
	RiskFreeRate    *float64 `json:"risk_free_rate,omitempty"`   // 无风险利率
	PriceUnderlying *float64 `json:"price_underlying,omitempty"` // 标的资产价格
	DriftRate       *float64 `json:"drift_rate,omitempty"`       // 正态分布均值偏移
	Volatility      *float64 `json:"volatility,omitempty"`       // 波动率
	Kind            *string  `json:"kind,omitempty"`             // Call / Put
	Strike          *float64 `json:"strike,omitempty"`           // 行权价
}

// PriceOptionCommand 期权定价命令
type PriceOptionCommand struct {
	ParamsCommand
}

// GenerateSurfaceCommand 价格曲面命令
type GenerateSurfaceCommand struct {
	ParamsCommand
	VolatilityRange *float64 `json:"volatility_range,omitempty"` // 波动率半宽
	GridSize        *int     `json:"grid_size,omitempty"`        // 每个维度的网格点数
	IncludeMesh     bool     `json:"include_mesh,omitempty"`     // 是否返回三维绘图网格
}

// Defaults 请求缺省字段的默认值
type Defaults struct {
	Time            float64           `json:"time"`
	ExpirationTime  float64           `json:"expiration_time"`
	RiskFreeRate    float64           `json:"risk_free_rate"`
	PriceUnderlying float64           `json:"price_underlying"`
	DriftRate       float64           `json:"drift_rate"`
	Volatility      float64           `json:"volatility"`
	Kind            domain.OptionKind `json:"kind"`
	Strike          float64           `json:"strike"`
	VolatilityRange float64           `json:"volatility_range"`
	GridSize        int               `json:"grid_size"`
}

// StandardDefaults 界面默认参数：一年期、平值、5% 利率、10% 波动率的看涨期权
func StandardDefaults() Defaults {
	return Defaults{
		ExpirationTime:  domain.DaysPerYear,
		RiskFreeRate:    0.05,
		PriceUnderlying: 100,
		Volatility:      0.10,
		Kind:            domain.Call,
		Strike:          100,
		VolatilityRange: 0.05,
		GridSize:        11,
	}
}

// Params 默认值对应的模型参数
func (d Defaults) Params() domain.Params {
	return domain.Params{
		Time:            d.Time,
		ExpirationTime:  d.ExpirationTime,
		RiskFreeRate:    d.RiskFreeRate,
		PriceUnderlying: d.PriceUnderlying,
		DriftRate:       d.DriftRate,
		Volatility:      d.Volatility,
		Kind:            d.Kind,
		Strike:          d.Strike,
	}
}

// Resolve 用默认值补全缺省字段
func (c ParamsCommand) Resolve(d Defaults) (domain.Params, error) {
	p := d.Params()
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.Time, c.Time)
	set(&p.ExpirationTime, c.ExpirationTime)
	set(&p.RiskFreeRate, c.RiskFreeRate)
	set(&p.PriceUnderlying, c.PriceUnderlying)
	set(&p.DriftRate, c.DriftRate)
	set(&p.Volatility, c.Volatility)
	set(&p.Strike, c.Strike)
	if c.Kind != nil {
		kind, err := domain.ParseOptionKind(*c.Kind)
		if err != nil {
			return domain.Params{}, err
		}
		p.Kind = kind
	}
	return p, nil
}
