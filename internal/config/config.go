package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/institute-attendance-go/internal/pkg/database"
	"github.com/joho/godotenv"
)

type Config struct {
	Database      DatabaseConfig
	PunchDatabase PunchDatabaseConfig
	JWT           JWTConfig
	App           AppConfig
	Attendance    AttendanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// PunchDatabaseConfig points at the MySQL time-clock store. It is optional.
type PunchDatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	AllowedOrigins []string
}

type AttendanceConfig struct {
	// CronSpec schedules the daily run. Empty disables the scheduler.
	CronSpec  string
	RulesFile string
	Policy    attendance.Policy
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
		slog.Warn("No .env file found, using process environment")
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*Config, error) {
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
		Name:     getEnv("DB_NAME", "institute_attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Time-clock database configuration
	punchPort, err := strconv.Atoi(getEnv("PUNCH_DB_PORT", "3306"))
	if err != nil {
		return nil, fmt.Errorf("invalid PUNCH_DB_PORT: %w", err)
	}

	config.PunchDatabase = PunchDatabaseConfig{
		Host:     getEnv("PUNCH_DB_HOST", ""),
		Port:     punchPort,
		User:     getEnv("PUNCH_DB_USER", ""),
		Password: getEnv("PUNCH_DB_PASSWORD", ""),
		Name:     getEnv("PUNCH_DB_NAME", ""),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", "Asia/Kolkata"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	// Attendance rules
	policy := attendance.DefaultPolicy()
	if raw, ok := os.LookupEnv("SUNDAY_EXCLUDED_CODES"); ok {
		codes, err := parseCodes(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SUNDAY_EXCLUDED_CODES: %w", err)
		}
		policy.SundayExcludedCodes = codes
	}

	rulesFile := getEnv("ATTENDANCE_RULES_FILE", "")
	if rulesFile != "" {
		policy, err = LoadRules(rulesFile, policy)
		if err != nil {
			return nil, err
		}
	}

	cronSpec, ok := os.LookupEnv("CRON_DAILY_ATTENDANCE")
	if !ok {
		cronSpec = "30 23 * * *"
	}

	config.Attendance = AttendanceConfig{
		CronSpec:  strings.TrimSpace(cronSpec),
		RulesFile: rulesFile,
		Policy:    policy,
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
	if _, err := c.Location(); err != nil {
		return err
	}
	if err := validatePolicy(c.Attendance.Policy); err != nil {
		return err
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

// Location returns the institute's local time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.App.Timezone, err)
	}
	return loc, nil
}

// PunchDB returns the MySQL settings for the time-clock store.
func (c *Config) PunchDB(loc *time.Location) database.MySQLConfig {
	return database.MySQLConfig{
		Host:     c.PunchDatabase.Host,
		Port:     c.PunchDatabase.Port,
		User:     c.PunchDatabase.User,
		Password: c.PunchDatabase.Password,
		Name:     c.PunchDatabase.Name,
		Location: loc,
	}
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func parseCodes(raw string) ([]int, error) {
	codes := []int{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, nil
}
