package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "pricing", cfg.ServiceName)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 50051, cfg.GRPC.Port)
	assert.Equal(t, 4096, cfg.Pricing.CacheSize)
	assert.Equal(t, 51, cfg.Pricing.MaxGridSize)

	d := cfg.Pricing.Defaults
	assert.Equal(t, 365.25, d.ExpirationTime)
	assert.Equal(t, 100.0, d.PriceUnderlying)
	assert.Equal(t, 100.0, d.Strike)
	assert.Equal(t, 0.05, d.RiskFreeRate)
	assert.Equal(t, 0.10, d.Volatility)
	assert.Equal(t, "Call", d.Kind)
	assert.Equal(t, 0.05, d.VolatilityRange)
	assert.Equal(t, 11, d.GridSize)

	assert.Equal(t, cfg, Default())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "pricing.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
service_name = "pricing-test"

[http]
port = 9000

[pricing]
max_grid_size = 21

[pricing.defaults]
strike = 95.0
kind = "Put"
`), 0o600))

	t.Setenv("APP_HTTP_PORT", "9100")
	t.Setenv("APP_PRICING_DEFAULTS_VOLATILITY", "0.2")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "pricing-test", cfg.ServiceName)
	assert.Equal(t, 9100, cfg.HTTP.Port)
	assert.Equal(t, 21, cfg.Pricing.MaxGridSize)
	assert.Equal(t, 95.0, cfg.Pricing.Defaults.Strike)
	assert.Equal(t, "Put", cfg.Pricing.Defaults.Kind)
	assert.Equal(t, 0.2, cfg.Pricing.Defaults.Volatility)
	assert.Equal(t, 11, cfg.Pricing.Defaults.GridSize)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("APP_GRPC_PORT=6000\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("APP_GRPC_PORT") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 6000, cfg.GRPC.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"service name":   func(c *Config) { c.ServiceName = "" },
		"http port":      func(c *Config) { c.HTTP.Port = 70000 },
		"grpc port":      func(c *Config) { c.GRPC.Port = 0 },
		"rate limit":     func(c *Config) { c.RateLimit.QPS = 0 },
		"cache size":     func(c *Config) { c.Pricing.CacheSize = 0 },
		"max grid":       func(c *Config) { c.Pricing.MaxGridSize = 0 },
		"default grid":   func(c *Config) { c.Pricing.Defaults.GridSize = 99 },
		"even grid":      func(c *Config) { c.Pricing.MaxGridSize, c.Pricing.Defaults.GridSize = 12, 12 },
		"negative range": func(c *Config) { c.Pricing.Defaults.VolatilityRange = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := Default()
	cfg.Environment = ""
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "dev", cfg.Environment)
}
