package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceParams(kind OptionKind) Params {
	return Params{
		Time:            0,
		ExpirationTime:  3 * DaysPerYear / 12,
		RiskFreeRate:    0.01,
		PriceUnderlying: 100,
		Volatility:      0.5,
		Strike:          95,
		Kind:            kind,
	}
}

// 参考值来自 https://www.omnicalculator.com/finance/black-scholes
func TestBlackScholesPrice_ReferenceCase(t *testing.T) {
	call, err := referenceParams(Call).Price(BlackScholes)
	require.NoError(t, err)
	assert.Equal(t, 12.53, call)

	put, err := referenceParams(Put).Price(BlackScholes)
	require.NoError(t, err)
	assert.Equal(t, 7.29, put)
}

func TestBlackScholesPrice_ExpiredReturnsIntrinsic(t *testing.T) {
	cases := []struct {
		name   string
		tte    float64
		spot   float64
		strike float64
		vol    float64
		call   float64
		put    float64
	}{
		{"at expiry in the money call", 0, 110, 100, 0.2, 10, 0},
		{"at expiry in the money put", 0, 90, 100, 0.2, 0, 10},
		{"expired", -0.5, 120.5, 100, 0.3, 20.5, 0},
		{"zero volatility at expiry", 0, 100, 100, 0, 0, 0},
		{"zero spot at expiry", 0, 0, 50, 0, 0, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := PriceInput{Volatility: tc.vol, TimeToExpiration: tc.tte, Spot: tc.spot, Strike: tc.strike, Rate: 0.05}

			in.Kind = Call
			call, err := BlackScholesPrice(in)
			require.NoError(t, err)
			assert.Equal(t, tc.call, call)

			in.Kind = Put
			put, err := BlackScholesPrice(in)
			require.NoError(t, err)
			assert.Equal(t, tc.put, put)
		})
	}
}

func TestBlackScholesPrice_DefaultParamsPriceZero(t *testing.T) {
	var p Params
	assert.Equal(t, Call, p.Kind)
	assert.Equal(t, 0.0, p.TimeToExpiration())

	price, err := p.Price(BlackScholes)
	require.NoError(t, err)
	assert.Equal(t, 0.0, price)
}

func TestBlackScholesPrice_PutCallParity(t *testing.T) {
	for _, spot := range []float64{80, 100, 120} {
		for _, strike := range []float64{90, 100, 110} {
			for _, rate := range []float64{0, 0.05} {
				for _, vol := range []float64{0.1, 0.3} {
					for _, tte := range []float64{0.1, 1} {
						in := PriceInput{Volatility: vol, TimeToExpiration: tte, Spot: spot, Strike: strike, Rate: rate}

						in.Kind = Call
						call, err := BlackScholesPrice(in)
						require.NoError(t, err)
						in.Kind = Put
						put, err := BlackScholesPrice(in)
						require.NoError(t, err)

						// 两次舍入到分，误差不超过 0.01
						assert.InDelta(t, spot-strike*math.Exp(-rate*tte), call-put, 0.0101, "%+v", in)
					}
				}
			}
		}
	}
}

func TestBlackScholesPrice_Deterministic(t *testing.T) {
	in := referenceParams(Call).PriceInput()
	first, err := BlackScholesPrice(in)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := BlackScholesPrice(in)
		require.NoError(t, err)
		assert.Equal(t, math.Float64bits(first), math.Float64bits(again))
	}
}

func TestBlackScholesPrice_InfiniteVolatility(t *testing.T) {
	in := PriceInput{Volatility: InfiniteVolatility, TimeToExpiration: 1, Spot: 100, Strike: 100, Rate: 0.05, Kind: Call}
	call, err := BlackScholesPrice(in)
	require.NoError(t, err)
	assert.Equal(t, 100.0, call)

	in.Kind = Put
	put, err := BlackScholesPrice(in)
	require.NoError(t, err)
	assert.Equal(t, 95.12, put)
}

func TestBlackScholesPrice_DomainErrors(t *testing.T) {
	base := PriceInput{Volatility: 0.2, TimeToExpiration: 1, Spot: 100, Strike: 100, Rate: 0.05}
	cases := map[string]func(in *PriceInput){
		"zero volatility":     func(in *PriceInput) { in.Volatility = 0 },
		"negative volatility": func(in *PriceInput) { in.Volatility = -0.1 },
		"zero spot":           func(in *PriceInput) { in.Spot = 0 },
		"negative strike":     func(in *PriceInput) { in.Strike = -1 },
		"nan spot":            func(in *PriceInput) { in.Spot = math.NaN() },
		"infinite volatility": func(in *PriceInput) { in.Volatility = math.Inf(1) },
		"infinite time":       func(in *PriceInput) { in.TimeToExpiration = math.Inf(1) },
		"unknown kind":        func(in *PriceInput) { in.Kind = OptionKind(7) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := base
			mutate(&in)
			_, err := BlackScholesPrice(in)
			assert.ErrorIs(t, err, ErrDomain)
		})
	}
}

func TestBlackScholesPrice_DriftShiftsDistribution(t *testing.T) {
	in := referenceParams(Call).PriceInput()
	canonical, err := BlackScholesPrice(in)
	require.NoError(t, err)

	in.Drift = 0.5
	shifted, err := BlackScholesPrice(in)
	require.NoError(t, err)
	assert.NotEqual(t, canonical, shifted)
	assert.GreaterOrEqual(t, shifted, 0.0)
}

func TestZeroVolatilityPrice(t *testing.T) {
	in := PriceInput{TimeToExpiration: 1, Spot: 100, Strike: 100, Rate: 0.05, Kind: Call}
	call, err := ZeroVolatilityPrice(in)
	require.NoError(t, err)
	assert.Equal(t, 4.88, call)

	in.Kind = Put
	put, err := ZeroVolatilityPrice(in)
	require.NoError(t, err)
	assert.Equal(t, 0.0, put)

	in.TimeToExpiration = 0
	in.Strike = 110
	put, err = ZeroVolatilityPrice(in)
	require.NoError(t, err)
	assert.Equal(t, 10.0, put)
}

func TestZeroVolatilityPrice_RejectsNonPositiveSpot(t *testing.T) {
	for _, spot := range []float64{0, -5} {
		in := PriceInput{TimeToExpiration: 1, Spot: spot, Strike: 100, Rate: 0.05, Kind: Put}
		_, err := ZeroVolatilityPrice(in)
		assert.ErrorIs(t, err, ErrDomain, "spot=%v", spot)
	}

	// 零行权价仍取极限值
	call, err := ZeroVolatilityPrice(PriceInput{TimeToExpiration: 1, Spot: 100, Rate: 0.05, Kind: Call})
	require.NoError(t, err)
	assert.Equal(t, 100.0, call)
}

func TestEvaluate(t *testing.T) {
	v, err := Evaluate(BlackScholes, referenceParams(Call).PriceInput())
	require.NoError(t, err)
	assert.Equal(t, 12.53, v.Price)
	assert.Equal(t, 5.0, v.Intrinsic)
	assert.Equal(t, 7.53, v.TimeValue)

	_, err = Evaluate(BlackScholes, PriceInput{TimeToExpiration: 1, Spot: 100, Strike: 100})
	assert.ErrorIs(t, err, ErrDomain)
}
