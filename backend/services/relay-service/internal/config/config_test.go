package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "RELAY_HTTP_PORT", "RELAY_SOURCE_URL", "RELAY_ORG_CODE", "RELAY_SOURCE_TYPE",
		"RELAY_SOURCE_TIMEOUT", "RELAY_TARGET_HOST", "RELAY_TARGET_PORT", "RELAY_TARGET_WRITE_TIMEOUT",
		"RELAY_TIMEZONE", "RELAY_REDIS_ADDR", "RELAY_REDIS_TTL", "LOG_LEVEL", "LOG_ENCODING",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://isolation.spsipcdc.com:9090/WaterInfo/getWaterInfoData", cfg.Source.URL)
	assert.Equal(t, "10000027", cfg.Source.OrgCode)
	assert.Equal(t, "1", cfg.Source.Type)
	assert.Equal(t, "117.177.179.143:11011", cfg.TargetAddress())
	assert.Equal(t, 15*time.Minute, cfg.Schedule.Interval)
	assert.Equal(t, ":8090", cfg.HTTPAddress())
	assert.Equal(t, 30*time.Minute, cfg.StatusTTL())
	assert.Empty(t, cfg.Redis.Addr)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RELAY_TARGET_HOST", "127.0.0.1")
	t.Setenv("RELAY_TARGET_PORT", "9999")
	t.Setenv("RELAY_SOURCE_TIMEOUT", "2s")
	t.Setenv("RELAY_HTTP_PORT", ":7000")
	t.Setenv("RELAY_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9999", cfg.TargetAddress())
	assert.Equal(t, 2*time.Second, cfg.Source.Timeout)
	assert.Equal(t, ":7000", cfg.HTTPAddress())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "relay.yaml")
	body := `
source:
  orgCode: "20000001"
target:
  host: relay.local
  port: 12000
redis:
  addr: localhost:6379
  ttl: 45m
http:
  port: ""
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "20000001", cfg.Source.OrgCode)
	assert.Equal(t, "relay.local:12000", cfg.TargetAddress())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 45*time.Minute, cfg.StatusTTL())
	assert.Empty(t, cfg.HTTPAddress())
	assert.Equal(t, 15*time.Minute, cfg.Schedule.Interval)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "empty url", env: map[string]string{"RELAY_SOURCE_URL": " "}},
		{name: "relative url", env: map[string]string{"RELAY_SOURCE_URL": "/WaterInfo"}},
		{name: "port out of range", env: map[string]string{"RELAY_TARGET_PORT": "70000"}},
		{name: "port not a number", env: map[string]string{"RELAY_TARGET_PORT": "udp"}},
		{name: "unknown timezone", env: map[string]string{"RELAY_TIMEZONE": "Mars/Olympus"}},
		{name: "zero timeout", env: map[string]string{"RELAY_SOURCE_TIMEOUT": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
