package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultParams() Params {
	return Params{
		ExpirationTime:  DaysPerYear,
		RiskFreeRate:    0.05,
		PriceUnderlying: 100,
		Volatility:      0.1,
		Kind:            Call,
		Strike:          100,
	}
}

type countingPricer struct {
	calls int
}

func (c *countingPricer) Price(in PriceInput) (float64, error) {
	c.calls++
	return BlackScholesPrice(in)
}

func TestNormalizeGridSize(t *testing.T) {
	for in, want := range map[int]int{1: 1, 2: 3, 3: 3, 10: 11, 11: 11, 14: 15, 15: 15} {
		assert.Equal(t, want, NormalizeGridSize(in), "grid size %d", in)
	}
}

func TestStrikeGranularity(t *testing.T) {
	cases := []struct {
		center float64
		half   int
		want   float64
	}{
		{100, 5, 1.0},
		{5, 5, 1.0},
		{3, 5, 0.5},
		{1.5, 5, 0.25},
		{1, 5, 0.1},
		{0.3, 5, 0.06},
		{100, 0, 1.0},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, StrikeGranularity(tc.center, tc.half), 1e-12, "center=%v half=%d", tc.center, tc.half)
	}
}

func TestGenerateSurface_DefaultParameters(t *testing.T) {
	p := defaultParams()
	pricer := &countingPricer{}

	s, err := p.Surface(pricer, 0.05, 11)
	require.NoError(t, err)

	require.Equal(t, 11, s.Size())
	assert.Equal(t, 121, pricer.calls)
	assert.Equal(t, 1.0, s.StrikeStep)
	assert.Equal(t, 95.0, s.Strikes[0])
	assert.Equal(t, 100.0, s.Strikes[5])
	assert.Equal(t, 105.0, s.Strikes[10])
	assert.InDelta(t, 0.05, s.Volatilities[0], 1e-12)
	assert.Equal(t, 0.1, s.Volatilities[5])
	assert.InDelta(t, 0.15, s.Volatilities[10], 1e-12)

	assert.Equal(t, "$95.00", s.StrikeLabels[0])
	assert.Equal(t, "$100.00", s.StrikeLabels[5])
	assert.Equal(t, "5.00%", s.VolatilityLabels[0])
	assert.Equal(t, "10.00%", s.VolatilityLabels[5])

	center, err := p.Price(BlackScholes)
	require.NoError(t, err)
	assert.Equal(t, center, s.At(5, 5))

	// 看涨期权价格随波动率上升、随行权价下降
	for i := 1; i < s.Size(); i++ {
		assert.GreaterOrEqual(t, s.At(i, 5), s.At(i-1, 5))
		assert.LessOrEqual(t, s.At(5, i), s.At(5, i-1))
	}
}

func TestGenerateSurface_EvenGridNormalized(t *testing.T) {
	s, err := defaultParams().Surface(BlackScholes, 0.05, 10)
	require.NoError(t, err)
	assert.Equal(t, 11, s.Size())
	assert.Len(t, s.Volatilities, 11)
	rows, cols := s.Prices.Dims()
	assert.Equal(t, 11, rows)
	assert.Equal(t, 11, cols)
	assert.Equal(t, 100.0, s.Strikes[5])
}

func TestGenerateSurface_CenterStrikeExact(t *testing.T) {
	for _, strike := range []float64{100, 0.3, 1.37, 42.42, 7} {
		p := defaultParams()
		p.Strike = strike
		s, err := p.Surface(BlackScholes, 0.05, 9)
		require.NoError(t, err)
		assert.Equal(t, strike, s.Strikes[4])
	}
}

func TestGenerateSurface_NoNegativeCoordinates(t *testing.T) {
	p := defaultParams()
	p.Strike = 0.3
	p.Volatility = 0.1

	s, err := p.Surface(BlackScholes, 0.25, 11)
	require.NoError(t, err)

	assert.Equal(t, 0.0, s.Strikes[0])
	for _, k := range s.Strikes {
		assert.GreaterOrEqual(t, k, 0.0)
	}
	for _, v := range s.Volatilities {
		assert.GreaterOrEqual(t, v, 0.0)
	}
	assert.Equal(t, 0.0, s.Volatilities[0])
	assert.InDelta(t, 0.35, s.Volatilities[10], 1e-12)

	// 行权价为 0 的看涨期权价值等于标的价格
	for i := range s.Volatilities {
		assert.Equal(t, 100.0, s.At(i, 0))
	}
}

func TestGenerateSurface_ZeroVolatilityRowUsesLimit(t *testing.T) {
	p := defaultParams()
	s, err := p.Surface(BlackScholes, 0.2, 5)
	require.NoError(t, err)
	require.Equal(t, 0.0, s.Volatilities[0])

	for j, strike := range s.Strikes {
		in := p.PriceInput()
		in.Volatility = 0
		in.Strike = strike
		want, err := ZeroVolatilityPrice(in)
		require.NoError(t, err)
		assert.Equal(t, want, s.At(0, j))
	}
}

func TestGenerateSurface_SinglePoint(t *testing.T) {
	p := defaultParams()
	s, err := p.Surface(BlackScholes, 0.05, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{100}, s.Strikes)
	assert.Equal(t, []float64{0.1}, s.Volatilities)

	price, err := p.Price(BlackScholes)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{price}}, s.Rows())
}

func TestGenerateSurface_InvalidParameters(t *testing.T) {
	p := defaultParams()

	_, err := p.Surface(BlackScholes, 0.05, 0)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = p.Surface(BlackScholes, -0.01, 11)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	p.Strike = 0
	_, err = p.Surface(BlackScholes, 0.05, 11)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	p = defaultParams()
	p.Volatility = -0.1
	_, err = p.Surface(BlackScholes, 0.05, 11)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestGenerateSurface_PropagatesPricerError(t *testing.T) {
	boom := errors.New("boom")
	failing := PricerFunc(func(PriceInput) (float64, error) { return 0, boom })

	_, err := defaultParams().Surface(failing, 0.05, 3)
	assert.ErrorIs(t, err, boom)

	p := defaultParams()
	p.PriceUnderlying = 0
	_, err = p.Surface(BlackScholes, 0.05, 3)
	assert.ErrorIs(t, err, ErrDomain)

	// 所有波动率均为 0 时每个网格点都走极限值，负标的价格同样报错
	p = defaultParams()
	p.PriceUnderlying = -5
	p.Volatility = 0
	p.Kind = Put
	_, err = p.Surface(BlackScholes, 0, 3)
	assert.ErrorIs(t, err, ErrDomain)
}

func TestSurfaceMeshGrid(t *testing.T) {
	s, err := defaultParams().Surface(BlackScholes, 0.05, 3)
	require.NoError(t, err)

	strikes, vols := s.MeshGrid()
	require.Len(t, strikes, 3)
	require.Len(t, vols, 3)
	for i := range strikes {
		assert.Equal(t, s.Strikes, strikes[i])
		for j := range vols[i] {
			assert.Equal(t, s.Volatilities[i], vols[i][j])
		}
	}

	rows := s.Rows()
	for i := range rows {
		for j := range rows[i] {
			assert.Equal(t, s.At(i, j), rows[i][j])
		}
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "$12.50", CurrencyLabel(12.5))
	assert.Equal(t, "$0.00", CurrencyLabel(0))
	assert.Equal(t, "12.50%", PercentLabel(0.125))
	assert.Equal(t, "0.00%", PercentLabel(0))
}
