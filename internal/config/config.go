package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Reconciliation modes for webhook processing. best_effort keeps the
// registration even when payment/attendee inserts fail; transactional rolls
// the whole delivery back on any failure.
const (
	ReconcileBestEffort    = "best_effort"
	ReconcileTransactional = "transactional"
)

type Config struct {
	Port                          string `mapstructure:"PORT"`
	DatabasePath                  string `mapstructure:"DATABASE_PATH"`
	StripeSecretKey               string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret           string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	PublicBaseURL                 string `mapstructure:"PUBLIC_BASE_URL"`
	AdminPassword                 string `mapstructure:"ADMIN_PASSWORD"`
	JWTSecret                     string `mapstructure:"JWT_SECRET"`
	ReconcileMode                 string `mapstructure:"RECONCILE_MODE"`
	LogLevel                      string `mapstructure:"LOG_LEVEL"`
	DiscordBotToken               string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "reunion.db")
	viper.SetDefault("RECONCILE_MODE", ReconcileBestEffort)
	viper.SetDefault("LOG_LEVEL", "info")

	viper.BindEnv("STRIPE_SECRET_KEY")
	viper.BindEnv("STRIPE_WEBHOOK_SECRET")
	viper.BindEnv("PUBLIC_BASE_URL")
	viper.BindEnv("ADMIN_PASSWORD")
	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("RECONCILE_MODE")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_NOTIFICATIONS_CHANNEL_ID")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate fails fast on missing required keys so the checkout, session and
// webhook endpoints never run with empty-string credentials.
func (c *Config) Validate() error {
	var missing []string
	if c.StripeSecretKey == "" {
		missing = append(missing, "STRIPE_SECRET_KEY")
	}
	if c.StripeWebhookSecret == "" {
		missing = append(missing, "STRIPE_WEBHOOK_SECRET")
	}
	if c.PublicBaseURL == "" {
		missing = append(missing, "PUBLIC_BASE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	switch c.ReconcileMode {
	case ReconcileBestEffort, ReconcileTransactional:
	default:
		return fmt.Errorf("invalid RECONCILE_MODE %q (want %s or %s)", c.ReconcileMode, ReconcileBestEffort, ReconcileTransactional)
	}

	return nil
}
