package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"eventlog/internal/logger"
	"eventlog/internal/service"

	"github.com/spf13/viper"
)

const envPrefix = "EVENTLOG"

// config mirrors configs/config.yml.
type config struct {
	Port string    `mapstructure:"port"`
	Log  logConfig `mapstructure:"log"`
	Logs struct {
		Dir            string        `mapstructure:"dir"`
		Pattern        string        `mapstructure:"pattern"`
		Workers        int           `mapstructure:"workers"`
		ReloadInterval time.Duration `mapstructure:"reload_interval"`
	} `mapstructure:"logs"`
	DB struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"db"`
	Archive struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"archive"`
	Auth struct {
		SigningKey string        `mapstructure:"signing_key"`
		TokenTTL   time.Duration `mapstructure:"token_ttl"`
	} `mapstructure:"auth"`
}

type logConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("logs.dir", "logs")
	v.SetDefault("logs.pattern", "*.log")
	v.SetDefault("logs.workers", 4)
	v.SetDefault("logs.reload_interval", time.Duration(0))
	v.SetDefault("db.path", "app.db")
	v.SetDefault("archive.enabled", false)
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)
}

// loadConfig reads path if given, otherwise configs/config.yml when present.
// EVENTLOG_* environment variables override both, e.g. EVENTLOG_LOGS_DIR.
func loadConfig(path string) (config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := logger.CheckLevel(cfg.Log.Level); err != nil {
		return config{}, fmt.Errorf("log.level: %w", err)
	}
	if cfg.Logs.Workers < 1 {
		return config{}, fmt.Errorf("logs.workers must be positive, got %d", cfg.Logs.Workers)
	}
	if cfg.Logs.ReloadInterval < 0 {
		return config{}, fmt.Errorf("logs.reload_interval must not be negative, got %s", cfg.Logs.ReloadInterval)
	}
	return cfg, nil
}

func (c config) serviceConfig() service.Config {
	return service.Config{
		Load: service.LoadConfig{
			Dir:            c.Logs.Dir,
			Pattern:        c.Logs.Pattern,
			Workers:        c.Logs.Workers,
			ArchiveEnabled: c.Archive.Enabled,
		},
		Auth: service.AuthConfig{
			SigningKey: c.Auth.SigningKey,
			TokenTTL:   c.Auth.TokenTTL,
		},
	}
}
