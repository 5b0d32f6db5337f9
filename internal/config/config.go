// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv   string
	LogLevel string
	Port     int

	TelegramToken string
	BotUsername   string

	DatabaseURL    string
	MigrationsPath string

	PrimaryRate  decimal.Decimal
	RevShareRate decimal.Decimal

	SimpleSwapAPIKey  string
	SimpleSwapBaseURL string

	CORSAllowedOrigins []string
	RequireInitData    bool
	InitDataTTL        time.Duration

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	LanguageCacheTTL time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	ConversationTimeout time.Duration
}

func (c *Config) IsDev() bool {
	return c.AppEnv == "dev"
}

// ReferralLink is the deep link that starts the bot with the user as referrer.
func (c *Config) ReferralLink(userID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%d", c.BotUsername, userID)
}

// WebAppURL opens the mini app attached to the bot.
func (c *Config) WebAppURL() string {
	return fmt.Sprintf("https://t.me/%s?startapp", c.BotUsername)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "prod")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PORT", 3000)
	v.SetDefault("BOT_USERNAME", "TeleSwapAppBot")
	v.SetDefault("MIGRATIONS_PATH", "migrations")
	v.SetDefault("PRIMARY_RATE", "0.0025")
	v.SetDefault("REV_SHARE_RATE", "0.005")
	v.SetDefault("SIMPLESWAP_BASE_URL", "https://api.simpleswap.io")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("REQUIRE_INIT_DATA", false)
	v.SetDefault("INIT_DATA_TTL", "24h")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LANGUAGE_CACHE_TTL", "1h")
	v.SetDefault("KAFKA_TOPIC", "referral-settlements")
	v.SetDefault("CONVERSATION_TIMEOUT", "5m")

	// Keys without defaults still need to be known for AutomaticEnv lookups.
	for _, key := range []string{
		"TELEGRAM_BOT_TOKEN", "DATABASE_URL", "SIMPLESWAP_API_KEY",
		"REDIS_ADDR", "REDIS_PASSWORD", "KAFKA_BROKERS",
	} {
		v.SetDefault(key, "")
	}
}

// LoadConfig reads the configuration from the process environment.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	primaryRate, err := decimal.NewFromString(v.GetString("PRIMARY_RATE"))
	if err != nil {
		return nil, fmt.Errorf("invalid PRIMARY_RATE: %w", err)
	}
	revShareRate, err := decimal.NewFromString(v.GetString("REV_SHARE_RATE"))
	if err != nil {
		return nil, fmt.Errorf("invalid REV_SHARE_RATE: %w", err)
	}

	cfg := &Config{
		AppEnv:              v.GetString("APP_ENV"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		Port:                v.GetInt("PORT"),
		TelegramToken:       v.GetString("TELEGRAM_BOT_TOKEN"),
		BotUsername:         v.GetString("BOT_USERNAME"),
		DatabaseURL:         v.GetString("DATABASE_URL"),
		MigrationsPath:      v.GetString("MIGRATIONS_PATH"),
		PrimaryRate:         primaryRate,
		RevShareRate:        revShareRate,
		SimpleSwapAPIKey:    v.GetString("SIMPLESWAP_API_KEY"),
		SimpleSwapBaseURL:   strings.TrimRight(v.GetString("SIMPLESWAP_BASE_URL"), "/"),
		CORSAllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		RequireInitData:     v.GetBool("REQUIRE_INIT_DATA"),
		InitDataTTL:         v.GetDuration("INIT_DATA_TTL"),
		RedisAddr:           v.GetString("REDIS_ADDR"),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),
		RedisDB:             v.GetInt("REDIS_DB"),
		LanguageCacheTTL:    v.GetDuration("LANGUAGE_CACHE_TTL"),
		KafkaBrokers:        splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:          v.GetString("KAFKA_TOPIC"),
		ConversationTimeout: v.GetDuration("CONVERSATION_TIMEOUT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.Port <= 0 {
		return fmt.Errorf("invalid PORT: %d", c.Port)
	}
	if c.PrimaryRate.IsNegative() {
		return errors.New("PRIMARY_RATE must not be negative")
	}
	if c.ConversationTimeout <= 0 {
		return errors.New("CONVERSATION_TIMEOUT must be positive")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
