package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Leave      LeaveConfig
	Cron       CronConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret                string
	AccessTokenExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// AttendanceConfig holds the civil-calendar settings of the rollup pipeline.
type AttendanceConfig struct {
	TimezoneName         string
	DailyExpectedSeconds int64
}

// InsufficientBalancePolicy controls what approval does when a paid leave
// request exceeds the ledger's closing balance.
type InsufficientBalancePolicy string

const (
	// PolicyLossOfPay approves the request as unpaid and leaves the ledger untouched.
	PolicyLossOfPay InsufficientBalancePolicy = "lop"
	// PolicyReject refuses the approval outright.
	PolicyReject InsufficientBalancePolicy = "reject"
)

type LeaveConfig struct {
	PermissionMonthlyCapHours decimal.Decimal
	InsufficientPolicy        InsufficientBalancePolicy
	AccrualLeaveCode          string
	AccrualMonthlyHours       decimal.Decimal
}

type CronConfig struct {
	Enabled           bool
	RecomputeInterval time.Duration
	AccrualInterval   time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading configuration from environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "peopleops"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:                getEnv("JWT_SECRET_KEY", ""),
		AccessTokenExpiration: getEnv("JWT_ACCESS_TOKEN_EXPIRATION", "24h"),
	}

	// Attendance configuration
	expectedSeconds, err := strconv.ParseInt(getEnv("DAILY_EXPECTED_SECONDS", "28800"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DAILY_EXPECTED_SECONDS: %w", err)
	}

	config.Attendance = AttendanceConfig{
		TimezoneName:         getEnv("TZ_NAME", "Asia/Kolkata"),
		DailyExpectedSeconds: expectedSeconds,
	}

	// Leave configuration
	permissionCap, err := decimal.NewFromString(getEnv("PERMISSION_MONTHLY_CAP_HOURS", "3.0"))
	if err != nil {
		return nil, fmt.Errorf("invalid PERMISSION_MONTHLY_CAP_HOURS: %w", err)
	}

	accrualHours, err := decimal.NewFromString(getEnv("ACCRUAL_MONTHLY_HOURS", "16"))
	if err != nil {
		return nil, fmt.Errorf("invalid ACCRUAL_MONTHLY_HOURS: %w", err)
	}

	config.Leave = LeaveConfig{
		PermissionMonthlyCapHours: permissionCap,
		InsufficientPolicy:        InsufficientBalancePolicy(getEnv("LEAVE_INSUFFICIENT_POLICY", "lop")),
		AccrualLeaveCode:          getEnv("ACCRUAL_LEAVE_CODE", "EL"),
		AccrualMonthlyHours:       accrualHours,
	}

	// Cron configuration
	recomputeInterval, err := time.ParseDuration(getEnv("CRON_RECOMPUTE_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_RECOMPUTE_INTERVAL: %w", err)
	}

	accrualInterval, err := time.ParseDuration(getEnv("CRON_ACCRUAL_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_ACCRUAL_INTERVAL: %w", err)
	}

	config.Cron = CronConfig{
		Enabled:           getEnv("CRON_ENABLED", "true") == "true",
		RecomputeInterval: recomputeInterval,
		AccrualInterval:   accrualInterval,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Leave.InsufficientPolicy != PolicyLossOfPay && c.Leave.InsufficientPolicy != PolicyReject {
		return fmt.Errorf("LEAVE_INSUFFICIENT_POLICY must be %q or %q", PolicyLossOfPay, PolicyReject)
	}
	if c.Attendance.DailyExpectedSeconds <= 0 {
		return fmt.Errorf("DAILY_EXPECTED_SECONDS must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
