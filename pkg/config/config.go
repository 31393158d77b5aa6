package config

import (
	"log"
	"os"
	"time"

	"SafeAlarm/pkg/cache"
	"SafeAlarm/pkg/logger"
	"SafeAlarm/pkg/notification"
	"SafeAlarm/pkg/util"
)

type Config struct {
	Addr            string `env:"ADDR"`
	Mode            string `env:"MODE"`
	APIPrefix       string `env:"API_PREFIX"`
	MonitorPrefix   string `env:"MONITOR_PREFIX"`
	DBDriver        string `env:"DB_DRIVER"`
	DSN             string `env:"DSN"`
	Log             logger.LogConfig
	SMS             notification.SMSConfig
	Cache           cache.Config
	APISecretKey    string `env:"API_SECRET_KEY"`
	CleanupSchedule string `env:"CLEANUP_SCHEDULE"`
	CleanupMaxAge   time.Duration
	RateLimit       string `env:"RATE_LIMIT"`
	// SMSMaxAttempts is the explicit no-retry policy: attempts per recipient
	// per dispatch. Anything above 1 re-sends on transport failure only.
	SMSMaxAttempts int `env:"SMS_MAX_ATTEMPTS"`
}

var GlobalConfig *Config

func Load() error {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	if err := util.LoadEnv(env); err != nil {
		log.Printf("Failed to load .env file: %v", err)
	}

	GlobalConfig = &Config{
		Addr:          util.GetEnvDefault("ADDR", ":8080"),
		Mode:          util.GetEnv("MODE"),
		APIPrefix:     util.GetEnvDefault("API_PREFIX", "/api"),
		MonitorPrefix: util.GetEnvDefault("MONITOR_PREFIX", "/metrics"),
		DBDriver:      util.GetEnv("DB_DRIVER"),
		DSN:           util.GetEnv("DSN"),
		Log: logger.LogConfig{
			Level:      util.GetEnv("LOG_LEVEL"),
			Filename:   util.GetEnv("LOG_FILENAME"),
			MaxSize:    int(util.GetIntEnv("LOG_MAX_SIZE")),
			MaxAge:     int(util.GetIntEnv("LOG_MAX_AGE")),
			MaxBackups: int(util.GetIntEnv("LOG_MAX_BACKUPS")),
		},
		SMS: notification.SMSConfig{
			AccountSID:    util.GetEnv("SMS_ACCOUNT_SID"),
			AuthToken:     util.GetEnv("SMS_AUTH_TOKEN"),
			FromNumber:    util.GetEnv("SMS_FROM_NUMBER"),
			DefaultRegion: util.GetEnvDefault("SMS_DEFAULT_REGION", notification.DefaultRegionCode),
			APIBase:       util.GetEnv("SMS_API_BASE"),
			Timeout:       time.Duration(util.GetIntEnv("SMS_TIMEOUT_SECONDS")) * time.Second,
		},
		Cache: cache.Config{
			Type: util.GetEnvDefault("CACHE_TYPE", "local"),
			Redis: cache.RedisConfig{
				Addr:     util.GetEnvDefault("REDIS_ADDR", "localhost:6379"),
				Password: util.GetEnv("REDIS_PASSWORD"),
				DB:       int(util.GetIntEnv("REDIS_DB")),
			},
			Local: cache.LocalConfig{
				DefaultExpiration: 5 * time.Minute,
				CleanupInterval:   10 * time.Minute,
			},
		},
		APISecretKey:    util.GetEnv("API_SECRET_KEY"),
		CleanupSchedule: util.GetEnvDefault("CLEANUP_SCHEDULE", "0 2 * * *"),
		CleanupMaxAge:   24 * time.Hour,
		RateLimit:       util.GetEnvDefault("RATE_LIMIT", "60-M"),
		SMSMaxAttempts:  1,
	}
	if n := int(util.GetIntEnv("SMS_MAX_ATTEMPTS")); n > 0 {
		GlobalConfig.SMSMaxAttempts = n
	}
	return nil
}
