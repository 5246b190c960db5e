package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig is the root configuration object for the platform.
type AppConfig struct {
	App       AppSettings       `mapstructure:"app"`
	Storage   StorageSettings   `mapstructure:"storage"`
	Session   SessionSettings   `mapstructure:"session"`
	Email     EmailSettings     `mapstructure:"email"`
	RateLimit RateLimitSettings `mapstructure:"rate_limit"`
	Telemetry TelemetrySettings `mapstructure:"telemetry"`
}

type AppSettings struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	BaseURL string `mapstructure:"base_url"`
}

// StorageSettings locates the embedded datastores and rendered artifact
// bundles. Tenant databases live under Root/tenants, the central database at
// Root/leadshield.db and deployment bundles under Root/deployments.
type StorageSettings struct {
	Root string `mapstructure:"root"`
}

type SessionSettings struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type EmailSettings struct {
	Enabled       bool   `mapstructure:"enabled"`
	SendGridKey   string `mapstructure:"sendgrid_key"`
	FromAddress   string `mapstructure:"from_address"`
	FromName      string `mapstructure:"from_name"`
	ReplyToDomain string `mapstructure:"reply_to_domain"`
}

// RateLimitSettings configures the per-IP login limiter.
type RateLimitSettings struct {
	LoginPerMinute int `mapstructure:"login_per_minute"`
	LoginBurst     int `mapstructure:"login_burst"`
}

type TelemetrySettings struct {
	Namespace string `mapstructure:"namespace"`
}

// Load reads configuration from config.yaml (if present) and LEADSHIELD_*
// environment variables.
func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("LEADSHIELD")

	setDefaults(v)

	if err := bindEnvs(v, []string{
		"app.name",
		"app.env",
		"app.host",
		"app.port",
		"app.base_url",
		"storage.root",
		"session.ttl",
		"email.enabled",
		"email.sendgrid_key",
		"email.from_address",
		"email.from_name",
		"email.reply_to_domain",
		"rate_limit.login_per_minute",
		"rate_limit.login_burst",
		"telemetry.namespace",
	}); err != nil {
		return nil, err
	}

	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the parameters this core cannot run without.
func (c *AppConfig) Validate() error {
	if c.Storage.Root == "" {
		return fmt.Errorf("storage.root is required")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	if c.Email.Enabled && c.Email.SendGridKey == "" {
		return fmt.Errorf("email.sendgrid_key is required when email is enabled")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "leadshield")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.base_url", "http://localhost:8080")
	v.SetDefault("storage.root", "./data")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.from_address", "reports@leadshield.example.com")
	v.SetDefault("email.from_name", "LeadShield Reports")
	v.SetDefault("rate_limit.login_per_minute", 10)
	v.SetDefault("rate_limit.login_burst", 5)
	v.SetDefault("telemetry.namespace", "leadshield")
}

func bindEnvs(v *viper.Viper, keys []string) error {
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	return nil
}
