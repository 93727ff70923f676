package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionKind(t *testing.T) {
	for in, want := range map[string]OptionKind{
		"call": Call, "Call": Call, " CALL ": Call, "c": Call,
		"put": Put, "PUT": Put, "p": Put,
	} {
		got, err := ParseOptionKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseOptionKind("straddle")
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestOptionKindLabel(t *testing.T) {
	assert.Equal(t, "Call", Call.Label())
	assert.Equal(t, "Put", Put.Label())
	assert.True(t, Call.IsCall())
	assert.False(t, Put.IsCall())
	assert.False(t, OptionKind(9).Valid())
}

func TestOptionKindJSON(t *testing.T) {
	type payload struct {
		Kind OptionKind `json:"kind"`
	}
	data, err := json.Marshal(payload{Kind: Put})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"Put"}`, string(data))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"call"}`), &p))
	assert.Equal(t, Call, p.Kind)

	assert.Error(t, json.Unmarshal([]byte(`{"kind":"spread"}`), &p))
}

func TestParamsTimeToExpiration(t *testing.T) {
	p := Params{Time: 0, ExpirationTime: 30}
	assert.Equal(t, 30/365.25, p.TimeToExpiration())

	p = Params{Time: 40, ExpirationTime: 30}
	assert.Less(t, p.TimeToExpiration(), 0.0)
}

func TestParamsPriceInput(t *testing.T) {
	p := Params{
		ExpirationTime:  DaysPerYear,
		RiskFreeRate:    0.05,
		PriceUnderlying: 100,
		DriftRate:       0.01,
		Volatility:      0.1,
		Kind:            Put,
		Strike:          105,
	}
	assert.Equal(t, PriceInput{
		Volatility:       0.1,
		TimeToExpiration: 1,
		Spot:             100,
		Strike:           105,
		Rate:             0.05,
		Kind:             Put,
		Drift:            0.01,
	}, p.PriceInput())
}
