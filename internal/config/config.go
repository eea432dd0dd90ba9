package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/example/wordkeeper/pkg/validator"
)

type Config struct {
	Env       string          `mapstructure:"env" validate:"oneof=development production"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Reminder  ReminderConfig  `mapstructure:"reminder"`
	Frequency FrequencyConfig `mapstructure:"frequency"`
}

type StorageConfig struct {
	Driver            string `mapstructure:"driver" validate:"oneof=memory sqlite postgres redis"`
	DSN               string `mapstructure:"dsn"`
	RedisAddr         string `mapstructure:"redis_addr" validate:"required_if=Driver redis"`
	RedisChannel      string `mapstructure:"redis_channel" validate:"required_if=Driver redis"`
	OptimisticLocking bool   `mapstructure:"optimistic_locking"`
	MaxRetries        int    `mapstructure:"max_retries" validate:"min=0,max=100"`
}

type ReminderConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	CheckInterval time.Duration `mapstructure:"check_interval" validate:"min=1s"`
	DefaultTime   string        `mapstructure:"default_time" validate:"datetime=15:04"`
	TelegramToken string        `mapstructure:"telegram_token"`
	ChatID        int64         `mapstructure:"chat_id" validate:"required_with=TelegramToken"`
}

type FrequencyConfig struct {
	// JSON object of word -> corpus rank, optional
	CorpusPath string `mapstructure:"corpus_path"`
}

var defaults = map[string]interface{}{
	"env":                        "development",
	"storage.driver":             "sqlite",
	"storage.dsn":                "data/wordkeeper.db",
	"storage.redis_addr":         "",
	"storage.redis_channel":      "wordkeeper:changes",
	"storage.optimistic_locking": true,
	"storage.max_retries":        3,
	"reminder.enabled":           true,
	"reminder.check_interval":    time.Minute,
	"reminder.default_time":      "09:00",
	"reminder.telegram_token":    "",
	"reminder.chat_id":           0,
	"frequency.corpus_path":      "",
}

// Init loads .env, the optional configs/<CONFIG_NAME>.yaml file and
// WORDKEEPER_* environment overrides, in increasing priority
func Init() (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	configName := os.Getenv("CONFIG_NAME")
	if configName == "" {
		configName = "default"
	}
	return load("configs", configName)
}

func load(path, name string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("WORDKEEPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("reminder.telegram_token", "WORDKEEPER_REMINDER_TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind TELEGRAM_BOT_TOKEN: %w", err)
	}

	v.AddConfigPath(path)
	v.SetConfigName(name)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := Config{}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.ValidateStruct(cfg); err != nil {
		return nil, err
	}
	if cfg.Storage.DSN == "" && (cfg.Storage.Driver == "sqlite" || cfg.Storage.Driver == "postgres") {
		return nil, fmt.Errorf("storage.dsn is required for the %s driver", cfg.Storage.Driver)
	}

	return &cfg, nil
}
