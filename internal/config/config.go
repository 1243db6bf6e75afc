package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"leadtracker/internal/log"
)

const (
	ADDR              = "ADDR"
	METRICS_ADDR      = "METRICS_ADDR"
	PPROF_ADDR        = "PPROF_ADDR"
	IS_DEV            = "IS_DEV"
	LOG_LEVEL         = "LOG_LEVEL"
	JWT_SECRET        = "JWT_SECRET"
	FETCH_TIMEOUT     = "FETCH_TIMEOUT"
	MAX_FETCH_BYTES   = "MAX_FETCH_BYTES"
	MAX_REQUEST_BYTES = "MAX_REQUEST_BYTES"
	RATE_LIMIT_RPS    = "RATE_LIMIT_RPS"
	RATE_LIMIT_BURST  = "RATE_LIMIT_BURST"
)

type Config struct {
	Addr            string        `mapstructure:"ADDR"`
	MetricsAddr     string        `mapstructure:"METRICS_ADDR"`
	PprofAddr       string        `mapstructure:"PPROF_ADDR"`
	IsDev           bool          `mapstructure:"IS_DEV"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	JWTSecret       string        `mapstructure:"JWT_SECRET"`
	FetchTimeout    time.Duration `mapstructure:"FETCH_TIMEOUT"`
	MaxFetchBytes   int64         `mapstructure:"MAX_FETCH_BYTES"`
	MaxRequestBytes int64         `mapstructure:"MAX_REQUEST_BYTES"`
	RateLimitRPS    float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst  int           `mapstructure:"RATE_LIMIT_BURST"`
}

var AppConfig *Config

// LoadEnv loads the process configuration from flags, the env file and the
// environment. Any failure is fatal.
func LoadEnv() {
	fs := pflag.NewFlagSet("leadtracker", pflag.ExitOnError)
	cfg, err := Load(fs, nil)
	if err != nil {
		log.Logger.Fatal("Failed to load config", zap.Error(err))
	}
	AppConfig = cfg
}

// Load parses args into fs and resolves every key. A nil args slice reads
// the process arguments.
func Load(fs *pflag.FlagSet, args []string) (*Config, error) {
	envFile := fs.String("env-file", ".env", "path to an env file")
	fs.String("addr", ":8080", "API listen address")
	fs.String("metrics-addr", ":8081", "metrics listen address")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")

	if args == nil {
		args = os.Args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(*envFile)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		log.Logger.Warn("env file not loaded", zap.String("path", *envFile), zap.Error(err))
	}

	v.AutomaticEnv()

	v.SetDefault(ADDR, ":8080")
	v.SetDefault(METRICS_ADDR, ":8081")
	v.SetDefault(PPROF_ADDR, ":6060")
	v.SetDefault(IS_DEV, false)
	v.SetDefault(LOG_LEVEL, "info")
	v.SetDefault(JWT_SECRET, "")
	v.SetDefault(FETCH_TIMEOUT, 10*time.Second)
	v.SetDefault(MAX_FETCH_BYTES, int64(10<<20))
	v.SetDefault(MAX_REQUEST_BYTES, int64(5<<20))
	v.SetDefault(RATE_LIMIT_RPS, 1.0)
	v.SetDefault(RATE_LIMIT_BURST, 3)

	bindFlag(v, ADDR, fs, "addr")
	bindFlag(v, METRICS_ADDR, fs, "metrics-addr")
	bindFlag(v, LOG_LEVEL, fs, "log-level")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindFlag lets an explicitly set flag override the env file and environment.
func bindFlag(v *viper.Viper, key string, fs *pflag.FlagSet, name string) {
	if f := fs.Lookup(name); f != nil && f.Changed {
		_ = v.BindPFlag(key, f)
	}
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout)
	}
	if c.MaxFetchBytes <= 0 {
		return fmt.Errorf("MAX_FETCH_BYTES must be positive, got %d", c.MaxFetchBytes)
	}
	if c.MaxRequestBytes <= 0 {
		return fmt.Errorf("MAX_REQUEST_BYTES must be positive, got %d", c.MaxRequestBytes)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}
