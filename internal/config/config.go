package config

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/asif-kamal/storefront/internal/log"
)

type Application struct {
	Env  string `mapstructure:"env"  json:"env"`
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`
}

type Backend struct {
	BaseURL            string `mapstructure:"base_url"             json:"base_url"`
	TimeoutSeconds     int    `mapstructure:"timeout_seconds"      json:"timeout_seconds"`
	SearchFallbackSize int    `mapstructure:"search_fallback_size" json:"search_fallback_size"`
}

type Cache struct {
	Host     string `mapstructure:"host"     json:"host"`
	Password string `mapstructure:"password" json:"password"`
	Database int    `mapstructure:"database" json:"database"`
	Port     uint16 `mapstructure:"port"     json:"port"`
}

type Session struct {
	CookieName string `mapstructure:"cookie_name" json:"cookie_name"`
	TTLMinutes int    `mapstructure:"ttl_minutes" json:"ttl_minutes"`
}

type Oauth struct {
	ProviderHost      string `mapstructure:"provider_host"       json:"provider_host"`
	WaitWindowSeconds int    `mapstructure:"wait_window_seconds" json:"wait_window_seconds"`
}

type Otel struct {
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`
}

type Config struct {
	Backend     `mapstructure:"backend"     json:"backend"`
	Cache       `mapstructure:"cache"       json:"cache"`
	Session     `mapstructure:"session"     json:"session"`
	Oauth       `mapstructure:"oauth"       json:"oauth"`
	Application `mapstructure:"application" json:"application"`
	Otel        `mapstructure:"otel"        json:"otel"`
}

var (
	once   sync.Once
	config *Config
)

func InitConfig(c context.Context, filename string) *Config {
	cfg := Config{}
	once.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyTag, "main InitConfig").
			Str(log.KeyProcess, "init config").
			Str("filename", filename).
			Logger()

		viper.SetConfigName(filename)
		viper.AddConfigPath("./env")
		viper.SetConfigType("yaml")
		viper.AutomaticEnv()

		logger = logger.With().Str(log.KeyProcess, "reading config").Logger()
		logger.Info().Msg("reading config")
		err := viper.ReadInConfig()
		if err != nil {
			err = fmt.Errorf("error when reading config with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("read config")

		logger = logger.With().Str(log.KeyProcess, "unmarshaling config").Logger()
		logger.Info().Msg("unmarshaling config")
		err = viper.Unmarshal(&cfg)
		if err != nil {
			err = fmt.Errorf("error unmarshaling config with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		config = &cfg
		logger = logger.With().Any(log.KeyConfig, cfg).Logger()
		logger.Info().Msg("unmarshaled config")
	})
	return config
}
