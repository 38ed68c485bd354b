package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Match    MatchConfig
	Dispatch DispatchConfig
}

type AppConfig struct {
	Port string
	Env  string

	// ReopenOnCancel controls whether cancelling a booked slot puts the
	// slot back to open (re-triggering standby matching) instead of
	// marking it cancelled.
	ReopenOnCancel bool

	// ExpiryScanInterval is how often the background scanner transitions
	// overdue open slots to expired.
	ExpiryScanInterval time.Duration
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

type MatchConfig struct {
	// MaxParallel bounds the per-event fan-out over standby preferences.
	MaxParallel int

	// DefaultDailyCap applies when a standby preference has no
	// max_notifications_per_day set.
	DefaultDailyCap int

	// ConfirmationTTL is how long a dispatched confirmation token stays valid.
	ConfirmationTTL time.Duration
}

type DispatchConfig struct {
	// GatewayURL is the notification gateway webhook endpoint.
	GatewayURL string
	Timeout    time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("REOPEN_ON_CANCEL", true)
	viper.SetDefault("EXPIRY_SCAN_INTERVAL", "1m")
	viper.SetDefault("MATCH_MAX_PARALLEL", 8)
	viper.SetDefault("MATCH_DEFAULT_DAILY_CAP", 3)
	viper.SetDefault("CONFIRMATION_TTL", "2h")
	viper.SetDefault("DISPATCH_TIMEOUT", "5s")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	config := &Config{
		App: AppConfig{
			Port:               viper.GetString("APP_PORT"),
			Env:                viper.GetString("APP_ENV"),
			ReopenOnCancel:     viper.GetBool("REOPEN_ON_CANCEL"),
			ExpiryScanInterval: viper.GetDuration("EXPIRY_SCAN_INTERVAL"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       viper.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
		},
		Match: MatchConfig{
			MaxParallel:     viper.GetInt("MATCH_MAX_PARALLEL"),
			DefaultDailyCap: viper.GetInt("MATCH_DEFAULT_DAILY_CAP"),
			ConfirmationTTL: viper.GetDuration("CONFIRMATION_TTL"),
		},
		Dispatch: DispatchConfig{
			GatewayURL: viper.GetString("DISPATCH_GATEWAY_URL"),
			Timeout:    viper.GetDuration("DISPATCH_TIMEOUT"),
		},
	}

	return config, nil
}
