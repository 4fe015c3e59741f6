// Package config loads the lazydict settings from LAZYDICT_* environment
// variables and validates them.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/gabapcia/lazydict/internal/pkg/validator"
)

// Prefix is prepended to every environment variable name.
const Prefix = "LAZYDICT"

// Redis configures the redis source (LAZYDICT_REDIS_*).
type Redis struct {
	Addr      string `envconfig:"ADDR" default:"localhost:6379" validate:"required,hostname_port"`
	Username  string `envconfig:"USERNAME"`
	Password  string `envconfig:"PASSWORD"`
	DB        int    `envconfig:"DB" default:"0" validate:"gte=0"`
	KeyPrefix string `envconfig:"KEY_PREFIX" default:"lazydict"`
}

// HTTP configures the client used by the http and jsonrpc sources (LAZYDICT_HTTP_*).
type HTTP struct {
	Timeout      time.Duration `envconfig:"TIMEOUT" default:"5s" validate:"gt=0"`
	RetryWaitMin time.Duration `envconfig:"RETRY_WAIT_MIN" default:"100ms" validate:"gte=0"`
	RetryWaitMax time.Duration `envconfig:"RETRY_WAIT_MAX" default:"2s" validate:"gtefield=RetryWaitMin"`
	RetryMax     int           `envconfig:"RETRY_MAX" default:"2" validate:"gte=0"`
}

// Retry configures the retries wrapped around every resolver (LAZYDICT_RETRY_*).
type Retry struct {
	Attempts uint          `envconfig:"ATTEMPTS" default:"3" validate:"min=1"`
	Delay    time.Duration `envconfig:"DELAY" default:"200ms" validate:"gte=0"`
	MaxDelay time.Duration `envconfig:"MAX_DELAY" default:"2s" validate:"gtefield=Delay"`
}

// Telemetry toggles the OpenTelemetry exporters (LAZYDICT_TELEMETRY_*).
type Telemetry struct {
	Enabled     bool   `envconfig:"ENABLED" default:"false"`
	ServiceName string `envconfig:"SERVICE_NAME" default:"lazydict" validate:"required"`
}

// Config holds every setting of the lazydict command.
type Config struct {
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"required,oneof=debug info warn error"`
	MapName     string `envconfig:"MAP_NAME" default:"lazydict" validate:"required"`
	MetricsFile string `envconfig:"METRICS_FILE"`

	Redis     Redis     `envconfig:"REDIS"`
	HTTP      HTTP      `envconfig:"HTTP"`
	Retry     Retry     `envconfig:"RETRY"`
	Telemetry Telemetry `envconfig:"TELEMETRY"`
}

// Load reads the configuration from the environment, applying defaults for
// unset variables, and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, err
	}

	if err := validator.Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
