package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/murabei/pumpwood-kong/internal/kong"
)

const DefaultAdminURL = "http://localhost:8001"

// Config is resolved once per process from the environment and optional
// .env files.
type Config struct {
	AdminURL string `env:"KONG_ADMIN_URL" envDefault:"http://localhost:8001"`
	// EndpointSuffix is inserted in front of every model route path.
	EndpointSuffix string `env:"ENDPOINT_SUFFIX"`
	ConnectTimeout int    `env:"KONG_CONNECT_TIMEOUT" envDefault:"300000"`
	WriteTimeout   int    `env:"KONG_WRITE_TIMEOUT" envDefault:"300000"`
	ReadTimeout    int    `env:"KONG_READ_TIMEOUT" envDefault:"300000"`
	// MetricsTextfile, if set, receives the admin API request metrics when
	// a command finishes.
	MetricsTextfile string `env:"KONG_METRICS_TEXTFILE"`
}

func (c *Config) Timeouts() kong.Timeouts {
	return kong.Timeouts{
		Connect: c.ConnectTimeout,
		Write:   c.WriteTimeout,
		Read:    c.ReadTimeout,
	}
}

// Load reads the process environment. Values from envFiles only fill in
// variables the process environment does not already set.
func Load(envFiles ...string) (*Config, error) {
	environment := map[string]string{}
	for _, entry := range os.Environ() {
		if key, value, ok := strings.Cut(entry, "="); ok {
			environment[key] = value
		}
	}

	if len(envFiles) > 0 {
		values, err := godotenv.Read(envFiles...)
		if err != nil {
			return nil, fmt.Errorf("reading environment files: %w", err)
		}
		for key, value := range values {
			if _, ok := environment[key]; !ok {
				environment[key] = value
			}
		}
	}

	return Parse(environment)
}

// Parse builds a Config from an explicit set of variables.
func Parse(environment map[string]string) (*Config, error) {
	config := &Config{}
	if err := env.ParseWithOptions(config, env.Options{Environment: environment}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if config.ConnectTimeout < 0 || config.WriteTimeout < 0 || config.ReadTimeout < 0 {
		return nil, fmt.Errorf("timeouts must not be negative")
	}
	return config, nil
}
