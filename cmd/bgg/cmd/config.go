package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"bggclient/internal/components/telemetry"
	"bggclient/lib/configutil"
	"bggclient/lib/platforms/bgg"
	"bggclient/lib/platforms/bgg/protocol"

	"github.com/caarlos0/env/v11"
)

// PolicyConfig is a protocol.Policy with durations written as Go duration
// strings ("1.5s", "2m"), empty fields fall back to the defaults.
type PolicyConfig struct {
	InitialInterval     string  `json:"initial_interval" env:"INITIAL_INTERVAL"`
	Multiplier          float64 `json:"multiplier" env:"MULTIPLIER"`
	MaxInterval         string  `json:"max_interval" env:"MAX_INTERVAL"`
	MaxElapsedTime      string  `json:"max_elapsed_time" env:"MAX_ELAPSED_TIME"`
	RandomizationFactor float64 `json:"randomization_factor" env:"RANDOMIZATION_FACTOR"`
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return duration, nil
}

func (c PolicyConfig) Policy() (protocol.Policy, error) {
	policy := protocol.Policy{
		Multiplier:          c.Multiplier,
		RandomizationFactor: c.RandomizationFactor,
	}
	var err error
	if policy.InitialInterval, err = parseDuration("initial_interval", c.InitialInterval); err != nil {
		return protocol.Policy{}, err
	}
	if policy.MaxInterval, err = parseDuration("max_interval", c.MaxInterval); err != nil {
		return protocol.Policy{}, err
	}
	if policy.MaxElapsedTime, err = parseDuration("max_elapsed_time", c.MaxElapsedTime); err != nil {
		return protocol.Policy{}, err
	}
	return policy, nil
}

// Config is read from the config file, BGG_* environment variables take
// precedence over it.
type Config struct {
	SiteBaseURL       string           `json:"site_base_url" env:"BGG_SITE_BASE_URL"`
	LegacyAPIBaseURL  string           `json:"legacy_api_base_url" env:"BGG_LEGACY_API_BASE_URL"`
	UserAgent         string           `json:"user_agent" env:"BGG_USER_AGENT"`
	RequestsPerSecond float64          `json:"requests_per_second" env:"BGG_REQUESTS_PER_SECOND"`
	CloudflareBypass  bool             `json:"cloudflare_bypass" env:"BGG_CLOUDFLARE_BYPASS"`
	RateLimit         PolicyConfig     `json:"rate_limit" envPrefix:"BGG_RATE_LIMIT_"`
	Pending           PolicyConfig     `json:"pending" envPrefix:"BGG_PENDING_"`
	Telemetry         telemetry.Config `json:"telemetry"`
}

// LoadConfig looks up name from dir upwards and applies environment overrides.
// A missing config file is not an error.
func LoadConfig(dir, name string) (Config, string, error) {
	config, path, err := configutil.ReadRecursively[Config](dir, name)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, "", fmt.Errorf("read config: %w", err)
	}
	if err := env.Parse(&config); err != nil {
		return Config{}, "", fmt.Errorf("read environment: %w", err)
	}
	return config, path, nil
}

func (c Config) ClientOptions() (bgg.ClientOptions, error) {
	rateLimit, err := c.RateLimit.Policy()
	if err != nil {
		return bgg.ClientOptions{}, fmt.Errorf("rate_limit.%w", err)
	}
	pending, err := c.Pending.Policy()
	if err != nil {
		return bgg.ClientOptions{}, fmt.Errorf("pending.%w", err)
	}
	return bgg.ClientOptions{
		SiteBaseURL:      c.SiteBaseURL,
		LegacyAPIBaseURL: c.LegacyAPIBaseURL,
		Protocol: protocol.ClientOptions{
			RateLimit:         rateLimit,
			Pending:           pending,
			RequestsPerSecond: c.RequestsPerSecond,
			UserAgent:         c.UserAgent,
			CloudflareBypass:  c.CloudflareBypass,
		},
	}, nil
}
