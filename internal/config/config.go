package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Port                          string        `mapstructure:"PORT"`
	DatabaseURL                   string        `mapstructure:"DATABASE_URL"`
	TelegramBotToken              string        `mapstructure:"TELEGRAM_BOT_TOKEN"`
	TelegramBotUsername           string        `mapstructure:"TELEGRAM_BOT_USERNAME"`
	AdminLogin                    string        `mapstructure:"ADMIN_LOGIN"`
	AdminPassword                 string        `mapstructure:"ADMIN_PASSWORD"`
	JWTSecret                     string        `mapstructure:"JWT_SECRET"`
	DiscordBotToken               string        `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string        `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
	SessionTTL                    time.Duration `mapstructure:"SESSION_TTL"`
	Currency                      string        `mapstructure:"CURRENCY"`
	Environment                   string        `mapstructure:"GO_ENV"`
	LogLevel                      string        `mapstructure:"LOG_LEVEL"`
}

// Flags returns the command line flags understood by LoadConfig.
func Flags(name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.String("port", "8080", "HTTP listen port")
	flags.String("database-url", "events.db", "sqlite file or postgres:// URL")
	flags.String("log-level", "info", "debug, info, warn or error")
	return flags
}

var flagKeys = map[string]string{
	"port":         "PORT",
	"database-url": "DATABASE_URL",
	"log-level":    "LOG_LEVEL",
}

// LoadConfig reads the environment (and .env outside production) and applies
// flags that were set explicitly on top of it. flags may be nil.
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("Warning: .env file couldn't be loaded: %v", err)
		}
	}

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_URL", "events.db")
	v.SetDefault("SESSION_TTL", "30m")
	v.SetDefault("CURRENCY", "so'm")
	v.SetDefault("GO_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")

	for _, key := range []string{
		"TELEGRAM_BOT_TOKEN",
		"TELEGRAM_BOT_USERNAME",
		"ADMIN_LOGIN",
		"ADMIN_PASSWORD",
		"JWT_SECRET",
		"DISCORD_BOT_TOKEN",
		"DISCORD_NOTIFICATIONS_CHANNEL_ID",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every missing required key at once.
func (c *Config) Validate() error {
	var missing []string
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.AdminLogin == "" {
		missing = append(missing, "ADMIN_LOGIN")
	}
	if c.AdminPassword == "" {
		missing = append(missing, "ADMIN_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
