package application

import "github.com/wyfcoding/bsintuition/internal/pricing/domain"

// ParamsDTO 实际参与计算的参数
type ParamsDTO struct {
	Time             float64           `json:"time"`
	ExpirationTime   float64           `json:"expiration_time"`
	TimeToExpiration float64           `json:"time_to_expiration"`
	RiskFreeRate     float64           `json:"risk_free_rate"`
	PriceUnderlying  float64           `json:"price_underlying"`
	DriftRate        float64           `json:"drift_rate"`
	Volatility       float64           `json:"volatility"`
	Kind             domain.OptionKind `json:"kind"`
	Strike           float64           `json:"strike"`
}

// QuoteDTO 单点定价结果
type QuoteDTO struct {
	Params    ParamsDTO `json:"params"`
	Price     float64   `json:"price"`
	Intrinsic float64   `json:"intrinsic"`
	TimeValue float64   `json:"time_value"`
}

// SurfaceDTO 价格曲面，prices[i][j] 对应 volatilities[i]、strikes[j]
type SurfaceDTO struct {
	Params           ParamsDTO   `json:"params"`
	VolatilityRange  float64     `json:"volatility_range"`
	GridSize         int         `json:"grid_size"`
	StrikeStep       float64     `json:"strike_step"`
	Strikes          []float64   `json:"strikes"`
	Volatilities     []float64   `json:"volatilities"`
	StrikeLabels     []string    `json:"strike_labels"`
	VolatilityLabels []string    `json:"volatility_labels"`
	Prices           [][]float64 `json:"prices"`
	MeshStrikes      [][]float64 `json:"mesh_strikes,omitempty"`
	MeshVolatilities [][]float64 `json:"mesh_volatilities,omitempty"`
}

func toParamsDTO(p domain.Params) ParamsDTO {
	return ParamsDTO{
		Time:             p.Time,
		ExpirationTime:   p.ExpirationTime,
		TimeToExpiration: p.TimeToExpiration(),
		RiskFreeRate:     p.RiskFreeRate,
		PriceUnderlying:  p.PriceUnderlying,
		DriftRate:        p.DriftRate,
		Volatility:       p.Volatility,
		Kind:             p.Kind,
		Strike:           p.Strike,
	}
}

func toSurfaceDTO(p domain.Params, volRange float64, s *domain.Surface, mesh bool) *SurfaceDTO {
	dto := &SurfaceDTO{
		Params:           toParamsDTO(p),
		VolatilityRange:  volRange,
		GridSize:         s.Size(),
		StrikeStep:       s.StrikeStep,
		Strikes:          s.Strikes,
		Volatilities:     s.Volatilities,
		StrikeLabels:     s.StrikeLabels,
		VolatilityLabels: s.VolatilityLabels,
		Prices:           s.Rows(),
	}
	if mesh {
		dto.MeshStrikes, dto.MeshVolatilities = s.MeshGrid()
	}
	return dto
}
