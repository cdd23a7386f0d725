package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ZanzyTHEbar/phantom-scope/internal/analysis"
)

// configName is the config file name without extension.
const configName = ".phantom-scope"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for phantom-scope settings.
const envPrefix = "PHANTOM_SCOPE"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	if err := applyDefaults(viperCfg); err != nil {
		return nil, err
	}

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) error {
	viperCfg.SetDefault("server.port", DefaultPort)
	viperCfg.SetDefault("server.read_timeout", DefaultReadTimeout)
	viperCfg.SetDefault("server.write_timeout", DefaultWriteTimeout)
	viperCfg.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)
	viperCfg.SetDefault("server.request_timeout", DefaultRequestTimeout)
	viperCfg.SetDefault("server.allowed_origins", DefaultAllowedOrigins)
	viperCfg.SetDefault("server.trusted_proxies", []string{})
	viperCfg.SetDefault("server.rate_limit_per_min", DefaultRateLimitPerMin)
	viperCfg.SetDefault("server.rate_limit_burst", DefaultRateLimitBurst)
	viperCfg.SetDefault("server.max_body_bytes", DefaultMaxBodyBytes)
	viperCfg.SetDefault("server.compression_min_bytes", DefaultCompressionMin)
	viperCfg.SetDefault("server.enable_swagger", DefaultEnableSwagger)
	viperCfg.SetDefault("server.enable_hsts", false)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)

	scoring, err := scoringDefaults()
	if err != nil {
		return err
	}
	for key, value := range scoring {
		viperCfg.SetDefault("scoring."+key, value)
	}
	return nil
}

// scoringDefaults flattens analysis.DefaultConfig into dotted keys so every
// engine constant is overridable from env as well as from file.
func scoringDefaults() (map[string]any, error) {
	raw, err := yaml.Marshal(analysis.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("encode scoring defaults: %w", err)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("decode scoring defaults: %w", err)
	}

	flat := make(map[string]any)
	flatten("", tree, flat)
	return flat, nil
}

func flatten(prefix string, tree map[string]any, out map[string]any) {
	for key, value := range tree {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			flatten(full, nested, out)
			continue
		}
		out[full] = value
	}
}

// Render encodes cfg as YAML, the same shape LoadConfig reads.
func Render(cfg Config) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return out, nil
}
