package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	libconfig "powerrelay/backend/libs/config"
)

const (
	defaultHTTPPort     = "8090"
	defaultSourceURL    = "http://isolation.spsipcdc.com:9090/WaterInfo/getWaterInfoData"
	defaultOrgCode      = "10000027"
	defaultSourceType   = "1"
	defaultTargetHost   = "117.177.179.143"
	defaultTargetPort   = 11011
	defaultInterval     = 15 * time.Minute
	defaultCycleTimeout = time.Minute
)

// Config defines relay service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Source   SourceConfig   `yaml:"source"`
	Target   TargetConfig   `yaml:"target"`
	Schedule ScheduleConfig `yaml:"-" env:"-"`
	Timezone string         `yaml:"timezone" env:"RELAY_TIMEZONE"`
	Redis    RedisConfig    `yaml:"redis"`
	Log      LogConfig      `yaml:"log"`
}

// HTTPConfig configures the health/status listener. An empty port disables it.
type HTTPConfig struct {
	Port string `yaml:"port" env:"RELAY_HTTP_PORT"`
}

// SourceConfig describes the reporting endpoint.
type SourceConfig struct {
	URL     string        `yaml:"url" env:"RELAY_SOURCE_URL"`
	OrgCode string        `yaml:"orgCode" env:"RELAY_ORG_CODE"`
	Type    string        `yaml:"type" env:"RELAY_SOURCE_TYPE"`
	Timeout time.Duration `yaml:"timeout" env:"RELAY_SOURCE_TIMEOUT"`
}

// TargetConfig is the UDP receiver of telegrams.
type TargetConfig struct {
	Host         string        `yaml:"host" env:"RELAY_TARGET_HOST"`
	Port         int           `yaml:"port" env:"RELAY_TARGET_PORT"`
	WriteTimeout time.Duration `yaml:"writeTimeout" env:"RELAY_TARGET_WRITE_TIMEOUT"`
}

// ScheduleConfig is fixed at build time and not read from file or environment.
type ScheduleConfig struct {
	Interval     time.Duration
	CycleTimeout time.Duration
}

// RedisConfig enables status publishing when Addr is set.
type RedisConfig struct {
	Addr     string        `yaml:"addr" env:"RELAY_REDIS_ADDR"`
	Password string        `yaml:"password" env:"RELAY_REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"RELAY_REDIS_DB"`
	TTL      time.Duration `yaml:"ttl" env:"RELAY_REDIS_TTL"`
}

// LogConfig selects zap level and encoding.
type LogConfig struct {
	Level    string `yaml:"level" env:"LOG_LEVEL"`
	Encoding string `yaml:"encoding" env:"LOG_ENCODING"`
}

// Default returns configuration matching the deployed relay.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{Port: defaultHTTPPort},
		Source: SourceConfig{
			URL:     defaultSourceURL,
			OrgCode: defaultOrgCode,
			Type:    defaultSourceType,
			Timeout: 10 * time.Second,
		},
		Target: TargetConfig{
			Host:         defaultTargetHost,
			Port:         defaultTargetPort,
			WriteTimeout: 5 * time.Second,
		},
		Schedule: ScheduleConfig{
			Interval:     defaultInterval,
			CycleTimeout: defaultCycleTimeout,
		},
		Timezone: "Local",
		Redis: RedisConfig{
			TTL: 2 * defaultInterval,
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "json",
		},
	}
}

// Load applies file and environment overrides on top of Default and validates the result.
func Load() (*Config, error) {
	cfg := Default()

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields and ranges.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source.URL) == "" {
		return errors.New("config: source url required")
	}
	if u, err := url.Parse(c.Source.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: invalid source url %q", c.Source.URL)
	}
	if strings.TrimSpace(c.Source.OrgCode) == "" {
		return errors.New("config: source orgCode required")
	}
	if c.Source.Timeout <= 0 {
		return errors.New("config: source timeout must be positive")
	}
	if strings.TrimSpace(c.Target.Host) == "" {
		return errors.New("config: target host required")
	}
	if c.Target.Port <= 0 || c.Target.Port > 65535 {
		return fmt.Errorf("config: invalid target port %d", c.Target.Port)
	}
	if c.Schedule.Interval <= 0 {
		return errors.New("config: schedule interval must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// HTTPAddress returns :port style, or "" when the listener is disabled.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		return ""
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// TargetAddress returns host:port of the telegram receiver.
func (c *Config) TargetAddress() string {
	return net.JoinHostPort(strings.TrimSpace(c.Target.Host), strconv.Itoa(c.Target.Port))
}

// Location resolves the timezone used for request dates and telegram timestamps.
func (c *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", name, err)
	}
	return loc, nil
}

// CycleTimeout bounds a single fetch/build/send cycle.
func (c *Config) CycleTimeout() time.Duration {
	if c.Schedule.CycleTimeout <= 0 {
		return defaultCycleTimeout
	}
	return c.Schedule.CycleTimeout
}

// StatusTTL returns how long a published status stays in redis.
func (c *Config) StatusTTL() time.Duration {
	if c.Redis.TTL <= 0 {
		return 2 * c.Schedule.Interval
	}
	return c.Redis.TTL
}
