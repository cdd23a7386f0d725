package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ZanzyTHEbar/phantom-scope/internal/analysis"
	"github.com/ZanzyTHEbar/phantom-scope/internal/security"
)

// Default server settings.
const (
	DefaultPort            = 8080
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRequestTimeout  = 10 * time.Second
	DefaultRateLimitPerMin = 60
	DefaultRateLimitBurst  = 10
	DefaultMaxBodyBytes    = 2 << 20
	DefaultCompressionMin  = 1024
	DefaultEnableSwagger   = true
	DefaultLogLevel        = "info"
)

// DefaultAllowedOrigins are the CORS origins permitted out of the box.
var DefaultAllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

// Config is the top-level configuration for both binaries.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Server  ServerConfig    `mapstructure:"server" yaml:"server"`
	Logging LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Scoring analysis.Config `mapstructure:"scoring" yaml:"scoring"`
}

// ServerConfig holds HTTP shell settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" yaml:"port" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"gt=0"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" yaml:"request_timeout" validate:"gte=0"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins" yaml:"allowed_origins" validate:"dive,required"`
	TrustedProxies  []string      `mapstructure:"trusted_proxies" yaml:"trusted_proxies"`
	RateLimitPerMin int           `mapstructure:"rate_limit_per_min" yaml:"rate_limit_per_min" validate:"gte=0"`
	RateLimitBurst  int           `mapstructure:"rate_limit_burst" yaml:"rate_limit_burst" validate:"gte=0"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes" validate:"gt=0"`
	CompressionMin  int           `mapstructure:"compression_min_bytes" yaml:"compression_min_bytes" validate:"gte=0"`
	EnableSwagger   bool          `mapstructure:"enable_swagger" yaml:"enable_swagger"`
	EnableHSTS      bool          `mapstructure:"enable_hsts" yaml:"enable_hsts"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
}

var configValidate = validator.New()

// Default returns the configuration used when no file or env override exists.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            DefaultPort,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
			RequestTimeout:  DefaultRequestTimeout,
			AllowedOrigins:  append([]string(nil), DefaultAllowedOrigins...),
			TrustedProxies:  []string{},
			RateLimitPerMin: DefaultRateLimitPerMin,
			RateLimitBurst:  DefaultRateLimitBurst,
			MaxBodyBytes:    DefaultMaxBodyBytes,
			CompressionMin:  DefaultCompressionMin,
			EnableSwagger:   DefaultEnableSwagger,
		},
		Logging: LoggingConfig{Level: DefaultLogLevel},
		Scoring: analysis.DefaultConfig(),
	}
}

// Validate checks server and logging settings with struct tags and the
// scoring constants with the engine's own rules.
func (c Config) Validate() error {
	if err := configValidate.Struct(c.Server); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := configValidate.Struct(c.Logging); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Scoring.Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	return nil
}

// Security derives the middleware settings from the server section.
func (s ServerConfig) Security() security.SecurityConfig {
	sc := security.DefaultSecurityConfig()
	sc.MaxBodyBytes = s.MaxBodyBytes
	sc.MaxRequestsPerMin = s.RateLimitPerMin
	sc.Burst = s.RateLimitBurst
	sc.AllowedOrigins = s.AllowedOrigins
	sc.RequestTimeout = s.RequestTimeout
	sc.EnableHSTS = s.EnableHSTS
	if len(s.TrustedProxies) > 0 {
		sc.TrustedProxies = s.TrustedProxies
	}
	return sc
}

// Addr is the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}
