package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		URL                    string `yaml:"url"`
		MaxOpenConns           int    `yaml:"max_open_conns"`
		MaxIdleConns           int    `yaml:"max_idle_conns"`
		ConnMaxLifetimeMinutes int64  `yaml:"conn_max_lifetime_minutes"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret     string `yaml:"jwt_secret"`
		TokenTTLHours int64  `yaml:"token_ttl_hours"`
	} `yaml:"auth"`
	OpenAI struct {
		APIKey      string  `yaml:"api_key"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float64 `yaml:"temperature"`
	} `yaml:"openai"`
	Instagram struct {
		BaseURL             string `yaml:"base_url"`
		AccessToken         string `yaml:"access_token"`
		PollIntervalSeconds int64  `yaml:"poll_interval_seconds"`
	} `yaml:"instagram"`
	Stripe struct {
		Enabled bool   `yaml:"enabled"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"stripe"`
	Notifier struct {
		Enabled          bool   `yaml:"enabled"`
		TelegramBotToken string `yaml:"telegram_bot_token"`
		ChatID           int64  `yaml:"chat_id"`
	} `yaml:"notifier"`
}

// LoadConfig reads configuration from the specified YAML file. Secrets may be
// overridden through the environment so the file can be committed without them.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		config.Database.URL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		config.OpenAI.APIKey = v
	}
	if v := os.Getenv("IG_ACCESS_TOKEN"); v != "" {
		config.Instagram.AccessToken = v
	}
	if v := os.Getenv("STRIPE_API_KEY"); v != "" {
		config.Stripe.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		config.Notifier.TelegramBotToken = v
	}

	if config.Database.MaxOpenConns == 0 {
		config.Database.MaxOpenConns = 25
	}
	if config.Database.MaxIdleConns == 0 {
		config.Database.MaxIdleConns = 5
	}
	if config.Database.ConnMaxLifetimeMinutes == 0 {
		config.Database.ConnMaxLifetimeMinutes = 30
	}
	if config.Auth.TokenTTLHours == 0 {
		config.Auth.TokenTTLHours = 24
	}
	if config.OpenAI.Model == "" {
		config.OpenAI.Model = "gpt-4o-mini"
	}
	if config.Instagram.PollIntervalSeconds == 0 {
		config.Instagram.PollIntervalSeconds = 30
	}

	return config, nil
}
