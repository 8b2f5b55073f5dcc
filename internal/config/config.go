package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Oracle
		Sessions
		Extractor
		Limits
		Audit
		Database
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Oracle struct {
		BaseURL     string
		APIKey      string
		Model       string
		MaxTokens   int
		Temperature float64
		Timeout     time.Duration
	}
	Sessions struct {
		TTL             time.Duration
		CleanupSchedule string // Cron format: "0 * * * *" = hourly
	}
	Extractor struct {
		UserAgent      string
		RequestTimeout time.Duration
		MaxLinks       int
	}
	Limits struct {
		BaseURL string
		APIKey  string
		Timeout time.Duration
	}
	Audit struct {
		RetentionDays int // Days to keep audit events (default: 30)
	}
	Database struct {
		Path string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("audit_retention_days", 30)

	// Oracle defaults
	v.SetDefault("oracle_base_url", DefaultOracleBaseURL)
	v.SetDefault("oracle_api_key", "")
	v.SetDefault("oracle_model", DefaultOracleModel)
	v.SetDefault("oracle_max_tokens", 4000)
	v.SetDefault("oracle_temperature", 0.3)
	v.SetDefault("oracle_timeout", "60s")

	// Session lifecycle defaults
	v.SetDefault("session_ttl", "24h")
	v.SetDefault("session_cleanup_schedule", "0 * * * *") // Hourly at :00

	// Article extractor defaults
	v.SetDefault("extractor_user_agent", DefaultExtractorUserAgent)
	v.SetDefault("extractor_request_timeout", "30s")
	v.SetDefault("extractor_max_links", 50)

	// Subscription limits defaults (empty base URL means allow everything)
	v.SetDefault("limits_base_url", "")
	v.SetDefault("limits_api_key", "")
	v.SetDefault("limits_timeout", "10s")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Oracle: Oracle{
			BaseURL:     v.GetString("ORACLE_BASE_URL"),
			APIKey:      v.GetString("ORACLE_API_KEY"),
			Model:       v.GetString("ORACLE_MODEL"),
			MaxTokens:   v.GetInt("ORACLE_MAX_TOKENS"),
			Temperature: v.GetFloat64("ORACLE_TEMPERATURE"),
			Timeout:     v.GetDuration("ORACLE_TIMEOUT"),
		},
		Sessions: Sessions{
			TTL:             v.GetDuration("SESSION_TTL"),
			CleanupSchedule: v.GetString("SESSION_CLEANUP_SCHEDULE"),
		},
		Extractor: Extractor{
			UserAgent:      v.GetString("EXTRACTOR_USER_AGENT"),
			RequestTimeout: v.GetDuration("EXTRACTOR_REQUEST_TIMEOUT"),
			MaxLinks:       v.GetInt("EXTRACTOR_MAX_LINKS"),
		},
		Limits: Limits{
			BaseURL: v.GetString("LIMITS_BASE_URL"),
			APIKey:  v.GetString("LIMITS_API_KEY"),
			Timeout: v.GetDuration("LIMITS_TIMEOUT"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
