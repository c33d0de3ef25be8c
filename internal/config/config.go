package config

import (
	"fmt"
	"os"
	"strconv"
)

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN returns the lib/pq connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig holds the Redis connection settings (advice override store).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Config is the engine configuration. Thresholds, the k-anonymity minimum
// and the care-hours limit are explicit here and passed into every call,
// never module-level state, so tests can vary them freely.
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig

	// Scoring thresholds: ascending, non-overlapping bands over the
	// total weighted score. score <= LowMax -> LAAG,
	// LowMax < score <= MediumMax -> GEMIDDELD, else HOOG.
	Scoring struct {
		LowMax    float64
		MediumMax float64
	}

	// Privacy holds the k-anonymity minimum: no municipal aggregate may
	// be released when it is derived from fewer distinct subjects.
	Privacy struct {
		MinimumCohort int
	}

	Alarm struct {
		// CareHoursWeeklyMax is the weekly-hours limit for the
		// HIGH_CARE_HOURS rule.
		CareHoursWeeklyMax float64

		// Webhook for CRITICAL alarms. Empty URL disables the notifier.
		Webhook struct {
			URL        string
			RetryCount int
			TimeoutSec int
		}
	}

	Advice struct {
		// OverrideKeyPrefix is prepended to advice keys in Redis,
		// e.g. "advies:override:" + "energie.HOOG".
		OverrideKeyPrefix string
	}

	// Questionnaire definition file (domains, maxima, question membership).
	Questionnaire struct {
		DefinitionPath string
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load builds the configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "mantelzorg")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = getEnvInt("DB_MAX_CONNS", 10)
	cfg.Database.MaxIdle = getEnvInt("DB_MAX_IDLE", 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	cfg.Scoring.LowMax = getEnvFloat("SCORE_LOW_MAX", 6)
	cfg.Scoring.MediumMax = getEnvFloat("SCORE_MEDIUM_MAX", 12)

	cfg.Privacy.MinimumCohort = getEnvInt("PRIVACY_MINIMUM_COHORT", 10)

	cfg.Alarm.CareHoursWeeklyMax = getEnvFloat("ALARM_CARE_HOURS_WEEKLY_MAX", 40)
	cfg.Alarm.Webhook.URL = getEnv("ALARM_WEBHOOK_URL", "")
	cfg.Alarm.Webhook.RetryCount = getEnvInt("ALARM_WEBHOOK_RETRIES", 2)
	cfg.Alarm.Webhook.TimeoutSec = getEnvInt("ALARM_WEBHOOK_TIMEOUT_SEC", 5)

	cfg.Advice.OverrideKeyPrefix = getEnv("ADVICE_OVERRIDE_PREFIX", "advies:override:")

	cfg.Questionnaire.DefinitionPath = getEnv("QUESTIONNAIRE_DEFINITION", "")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the invariants the engine depends on.
func (c *Config) Validate() error {
	if c.Scoring.LowMax < 0 {
		return fmt.Errorf("SCORE_LOW_MAX must be non-negative, got %v", c.Scoring.LowMax)
	}
	if c.Scoring.LowMax >= c.Scoring.MediumMax {
		return fmt.Errorf("score thresholds must be strictly increasing: low_max=%v medium_max=%v",
			c.Scoring.LowMax, c.Scoring.MediumMax)
	}
	if c.Privacy.MinimumCohort < 2 {
		return fmt.Errorf("PRIVACY_MINIMUM_COHORT must be at least 2, got %d", c.Privacy.MinimumCohort)
	}
	if c.Alarm.CareHoursWeeklyMax <= 0 {
		return fmt.Errorf("ALARM_CARE_HOURS_WEEKLY_MAX must be positive, got %v", c.Alarm.CareHoursWeeklyMax)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
