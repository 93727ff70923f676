package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat/distuv"
)

// PriceInput Black-Scholes 定价函数输入
// 所有字段可比较，可直接作为缓存键
type PriceInput struct {
	Volatility       float64    // 波动率
	TimeToExpiration float64    // 到期时间 (年)
	Spot             float64    // 标的资产价格
	Strike           float64    // 执行价格
	Rate             float64    // 无风险利率
	Kind             OptionKind // 期权类型
	Drift            float64    // 正态分布均值偏移
}

// Valuation 定价结果明细
type Valuation struct {
	Price     float64 // 理论价格
	Intrinsic float64 // 内在价值
	TimeValue float64 // 时间价值 = 理论价格 - 内在价值
}

// BlackScholesPrice 计算欧式期权的 Black-Scholes 价格，结果保留两位小数
func BlackScholesPrice(in PriceInput) (float64, error) {
	if err := in.checkFinite(); err != nil {
		return 0, err
	}
	if !in.Kind.Valid() {
		return 0, fmt.Errorf("%w: unknown option kind %d", ErrDomain, uint8(in.Kind))
	}

	// 到期或已过期：直接返回内在价值，避免对 0 取对数或开方
	if in.TimeToExpiration <= 0 {
		return roundCents(IntrinsicValue(in.Kind, in.Spot, in.Strike)), nil
	}

	if in.Spot <= 0 || in.Strike <= 0 {
		return 0, fmt.Errorf("%w: spot %v and strike %v must be positive", ErrDomain, in.Spot, in.Strike)
	}
	if in.Volatility <= 0 {
		return 0, fmt.Errorf("%w: volatility %v must be positive before expiration", ErrDomain, in.Volatility)
	}

	sqrtT := math.Sqrt(in.TimeToExpiration)
	dPlus := (math.Log(in.Spot/in.Strike) + (in.Rate+in.Volatility*in.Volatility/2)*in.TimeToExpiration) / (in.Volatility * sqrtT)
	dMinus := dPlus - in.Volatility*sqrtT
	discount := math.Exp(-in.Rate * in.TimeToExpiration)
	normal := distuv.Normal{Mu: in.Drift, Sigma: 1}

	var price float64
	if in.Kind == Call {
		price = in.Spot*normal.CDF(dPlus) - in.Strike*discount*normal.CDF(dMinus)
	} else {
		price = in.Strike*discount*normal.CDF(-dMinus) - in.Spot*normal.CDF(-dPlus)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: price is not finite for %+v", ErrDomain, in)
	}
	return roundCents(math.Max(0, price)), nil
}

// IntrinsicValue 内在价值
func IntrinsicValue(kind OptionKind, spot, strike float64) float64 {
	if kind == Call {
		return math.Max(0, spot-strike)
	}
	return math.Max(0, strike-spot)
}

// ZeroVolatilityPrice 波动率趋于 0 时的极限价格（贴现后的内在价值）
func ZeroVolatilityPrice(in PriceInput) (float64, error) {
	if err := in.checkFinite(); err != nil {
		return 0, err
	}
	if in.TimeToExpiration <= 0 {
		return roundCents(IntrinsicValue(in.Kind, in.Spot, in.Strike)), nil
	}
	if in.Spot <= 0 || in.Strike < 0 {
		return 0, fmt.Errorf("%w: spot %v must be positive and strike %v non-negative", ErrDomain, in.Spot, in.Strike)
	}
	discounted := in.Strike * math.Exp(-in.Rate*in.TimeToExpiration)
	return roundCents(IntrinsicValue(in.Kind, in.Spot, discounted)), nil
}

// Evaluate 计算价格并拆分内在价值与时间价值
func Evaluate(pricer Pricer, in PriceInput) (Valuation, error) {
	price, err := pricer.Price(in)
	if err != nil {
		return Valuation{}, err
	}
	intrinsic := roundCents(IntrinsicValue(in.Kind, in.Spot, in.Strike))
	timeValue, _ := decimal.NewFromFloat(price).Sub(decimal.NewFromFloat(intrinsic)).Float64()
	return Valuation{
		Price:     price,
		Intrinsic: intrinsic,
		TimeValue: timeValue,
	}, nil
}

func (in PriceInput) checkFinite() error {
	for _, v := range [...]float64{in.Volatility, in.TimeToExpiration, in.Spot, in.Strike, in.Rate, in.Drift} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite input %+v", ErrDomain, in)
		}
	}
	return nil
}

// roundCents 保留两位小数
func roundCents(v float64) float64 {
	rounded, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return rounded
}
