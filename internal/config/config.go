package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort        int           `mapstructure:"APP_PORT"`
	DatabasePath   string        `mapstructure:"DATABASE_PATH"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	SyncChannel    string        `mapstructure:"SYNC_CHANNEL"`
	SyncRelayDir   string        `mapstructure:"SYNC_RELAY_DIR"`
	SyncRelayTTL   time.Duration `mapstructure:"SYNC_RELAY_TTL"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`

	source string
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetDefault("APP_PORT", 8000)
	v.SetDefault("DATABASE_PATH", "./data/AITeamManagerDB.db")
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("SYNC_CHANNEL", "ai-team-manager-sync")
	v.SetDefault("SYNC_RELAY_DIR", "")
	v.SetDefault("SYNC_RELAY_TTL", time.Minute)
	v.SetDefault("REQUEST_TIMEOUT", 60*time.Second)

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.source = v.ConfigFileUsed()

	return &cfg, nil
}

// Source returns the config file that was read, or "" when only the
// environment and defaults were used.
func (c *Config) Source() string {
	return c.source
}
