package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultEnvFile       = ".env"
	defaultPort          = "8000"
	defaultReadTimeout   = 15 * time.Second
	defaultWriteTimeout  = 30 * time.Second
	defaultIdleTimeout   = 120 * time.Second
	defaultShutdown      = 20 * time.Second
	defaultDriver        = DriverPostgres
	defaultSlowQuery     = 200 * time.Millisecond
	defaultTokenTTL      = 7 * 24 * time.Hour
	defaultCurrency      = "aed"
	defaultLogLevel      = "info"
	defaultLogEncoding   = "json"
	defaultStripeTimeout = 10 * time.Second
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config вся конфигурация процесса, сгруппированная по областям
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Stripe   StripeConfig   `yaml:"stripe"`
	Log      LogConfig      `yaml:"log"`
	Orders   OrdersConfig   `yaml:"orders"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	GinMode         string        `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	Driver    string        `yaml:"driver"`
	DSN       string        `yaml:"dsn"`
	SlowQuery time.Duration `yaml:"slow_query"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type StripeConfig struct {
	SecretKey       string        `yaml:"secret_key"`
	DefaultCurrency string        `yaml:"default_currency"`
	Timeout         time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// OrdersConfig feature switches for the order routes.
type OrdersConfig struct {
	// RestrictListAll limits GET /api/order to ADMIN and SUPPLIER.
	RestrictListAll bool `yaml:"restrict_list_all"`
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            defaultPort,
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdown,
			GinMode:         "release",
		},
		Database: DatabaseConfig{Driver: defaultDriver, SlowQuery: defaultSlowQuery},
		Auth:     AuthConfig{TokenTTL: defaultTokenTTL},
		Stripe:   StripeConfig{DefaultCurrency: defaultCurrency, Timeout: defaultStripeTimeout},
		Log:      LogConfig{Level: defaultLogLevel, Encoding: defaultLogEncoding},
	}
}

// Option customises Load.
type Option func(*loadOptions)

type loadOptions struct {
	envFile string
	lookup  func(string) (string, bool)
}

// WithEnvFile overrides the dotenv file path. Empty disables dotenv loading.
func WithEnvFile(path string) Option {
	return func(o *loadOptions) { o.envFile = path }
}

// WithLookup replaces os.LookupEnv, mainly for tests.
func WithLookup(fn func(string) (string, bool)) Option {
	return func(o *loadOptions) {
		if fn != nil {
			o.lookup = fn
		}
	}
}

// Load builds the configuration: defaults, then the YAML file named by CONFIG_FILE,
// then .env, then process environment.
func Load(opts ...Option) (Config, error) {
	o := loadOptions{envFile: defaultEnvFile, lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(&o)
	}

	if o.envFile != "" {
		// existing environment wins over .env
		if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", o.envFile, err)
		}
	}

	cfg := defaults()
	if path, ok := o.lookup("CONFIG_FILE"); ok && strings.TrimSpace(path) != "" {
		if err := loadYAML(strings.TrimSpace(path), &cfg); err != nil {
			return Config{}, err
		}
	}

	var errs []error
	str := func(key string, dst *string) {
		if v, ok := o.lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	dur := func(key string, dst *time.Duration) {
		v, ok := o.lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = d
	}
	boolean := func(key string, dst *bool) {
		v, ok := o.lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = b
	}

	str("PORT", &cfg.Server.Port)
	dur("SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	dur("SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	dur("SERVER_IDLE_TIMEOUT", &cfg.Server.IdleTimeout)
	dur("SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	str("GIN_MODE", &cfg.Server.GinMode)
	str("DB_DRIVER", &cfg.Database.Driver)
	str("DATABASE_URL", &cfg.Database.DSN)
	dur("DB_SLOW_QUERY", &cfg.Database.SlowQuery)
	str("JWT_SECRET", &cfg.Auth.JWTSecret)
	dur("JWT_TTL", &cfg.Auth.TokenTTL)
	str("STRIPE_SECRET_KEY", &cfg.Stripe.SecretKey)
	str("STRIPE_CURRENCY", &cfg.Stripe.DefaultCurrency)
	dur("STRIPE_TIMEOUT", &cfg.Stripe.Timeout)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_ENCODING", &cfg.Log.Encoding)
	boolean("ORDERS_RESTRICT_LIST_ALL", &cfg.Orders.RestrictListAll)

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("config: %w", errors.Join(errs...))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// Validate checks cross-field requirements.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Port) == "" {
		errs = append(errs, errors.New("server port is required"))
	}
	switch c.Database.Driver {
	case DriverMemory:
	case DriverPostgres:
		if strings.TrimSpace(c.Database.DSN) == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.Database.Driver))
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("token ttl must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
