package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/viper"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: env key, also used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	Store    StoreConfig    `mapstructure:",squash"`
	Redis    RedisConfig    `mapstructure:",squash"`
	Carrier  CarrierConfig  `mapstructure:",squash"`
	Shipper  ShipperConfig  `mapstructure:",squash"`
	Workflow WorkflowConfig `mapstructure:",squash"`
	Poller   PollerConfig   `mapstructure:",squash"`
}

// StoreConfig selects and configures shipment persistence.
type StoreConfig struct {
	// Driver is either "postgres" or "memory".
	Driver string `mapstructure:"STORE_DRIVER" default:"postgres"`
	// DatabaseURL is the Postgres connection string, required for the postgres driver.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
}

// RedisConfig configures the optional Redis cache.
type RedisConfig struct {
	// URL has the form redis://[:password@]host[:port][/database]. Empty disables Redis.
	URL string `mapstructure:"REDIS_URL"`
	// RateCacheTTL is how long a per-box rate quote is reused. Zero disables rate caching.
	RateCacheTTL time.Duration `mapstructure:"RATE_CACHE_TTL" default:"10m"`
}

// CarrierConfig holds the carrier API credentials and timeouts.
type CarrierConfig struct {
	BaseURL       string `mapstructure:"CARRIER_BASE_URL" required:"true"`
	ClientID      string `mapstructure:"CARRIER_CLIENT_ID" required:"true"`
	ClientSecret  string `mapstructure:"CARRIER_CLIENT_SECRET" required:"true"`
	AccountNumber string `mapstructure:"CARRIER_ACCOUNT_NUMBER"`
	// Timeout bounds every tracking fetch and token request.
	Timeout time.Duration `mapstructure:"CARRIER_TIMEOUT" default:"20s"`
	// RateTimeout bounds every per-box rate lookup.
	RateTimeout time.Duration `mapstructure:"RATE_TIMEOUT" default:"20s"`
}

// ShipperConfig is the origin all quotes are computed from.
type ShipperConfig struct {
	State      string `mapstructure:"SHIPPER_STATE" required:"true"`
	PostalCode string `mapstructure:"SHIPPER_POSTAL_CODE" required:"true"`
	Country    string `mapstructure:"SHIPPER_COUNTRY" default:"US"`
}

// WorkflowConfig configures where status transitions are forwarded.
type WorkflowConfig struct {
	// WebhookURL receives a POST for every applied status transition. Empty disables the webhook.
	WebhookURL string `mapstructure:"WORKFLOW_WEBHOOK_URL"`
	// NotifyTimeout bounds each outbound notification.
	NotifyTimeout time.Duration `mapstructure:"NOTIFY_TIMEOUT" default:"15s"`
	// KafkaBrokers is a comma separated broker list. Empty disables Kafka publishing.
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC" default:"shipment-status"`
}

// PollerConfig drives the tracking reconciliation schedule.
type PollerConfig struct {
	Enabled  bool          `mapstructure:"POLL_ENABLED" default:"true"`
	Interval time.Duration `mapstructure:"POLL_INTERVAL" default:"4h"`
	// Delay is inserted between carrier calls within one batch.
	Delay time.Duration `mapstructure:"POLL_DELAY" default:"500ms"`
	// LockTTL is the lifetime of the Redis run lock when Redis is configured.
	LockTTL time.Duration `mapstructure:"POLL_LOCK_TTL" default:"30m"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// validate checks rules that depend on more than one field.
func (c *AppConfig) validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("missing required configuration: DATABASE_URL (STORE_DRIVER=%s)", c.Store.Driver)
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("invalid configuration: STORE_DRIVER=%q", c.Store.Driver)
	}

	if c.Poller.Interval <= 0 {
		return fmt.Errorf("invalid configuration: POLL_INTERVAL must be positive")
	}

	return nil
}

// processTags walks the struct fields, binds each env key and registers defaults in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		if key == "" {
			continue
		}

		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind env %s: %w", key, err)
		}

		if defaultValue := field.Tag.Get("default"); defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && val.Field(i).IsZero() {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}
