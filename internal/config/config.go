package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i9-energia/solar-estimator/internal/estimate"
)

// Config holds all service configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Upload   UploadConfig
	Engine   estimate.Params
	Lead     LeadConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
}

type JWTConfig struct {
	Secret           string
	Issuer           string
	ExpiryHours      int
	DevTokensEnabled bool
}

type UploadConfig struct {
	MaxFileSize       int64 // bytes
	AllowedExtensions []string
}

type LeadConfig struct {
	WhatsAppNumber  string
	WhatsAppBaseURL string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load() // ignore missing file

	defaults := estimate.DefaultParams()
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Enabled:  getBoolEnv("DB_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "solar"),
			Password: getEnv("DB_PASSWORD", "solar_dev_password"),
			DBName:   getEnv("DB_NAME", "solar"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getIntEnv("DB_MAX_CONNS", 10),
		},
		JWT: JWTConfig{
			Secret:           getEnv("JWT_SECRET", "dev-secret-change-in-production"),
			Issuer:           getEnv("JWT_ISSUER", "solar-estimator"),
			ExpiryHours:      getIntEnv("JWT_EXPIRY_HOURS", 24),
			DevTokensEnabled: getBoolEnv("DEV_TOKENS_ENABLED", false),
		},
		Upload: UploadConfig{
			MaxFileSize:       int64(getIntEnv("UPLOAD_MAX_SIZE_MB", 10)) * 1024 * 1024,
			AllowedExtensions: []string{".xlsx", ".csv"},
		},
		Engine: estimate.Params{
			DaysPerMonth:           defaults.DaysPerMonth,
			TargetFraction:         getFloatEnv("ENGINE_TARGET_FRACTION", defaults.TargetFraction),
			SavingsCapFraction:     getFloatEnv("ENGINE_SAVINGS_CAP_FRACTION", defaults.SavingsCapFraction),
			PriceBandFraction:      getFloatEnv("ENGINE_PRICE_BAND_FRACTION", defaults.PriceBandFraction),
			EmissionFactorKgPerKwh: getFloatEnv("ENGINE_EMISSION_FACTOR_KG_PER_KWH", defaults.EmissionFactorKgPerKwh),
			Co2AbsorbedPerTreeKg:   getFloatEnv("ENGINE_CO2_PER_TREE_KG", defaults.Co2AbsorbedPerTreeKg),
		},
		Lead: LeadConfig{
			WhatsAppNumber:  getEnv("LEAD_WHATSAPP_NUMBER", "5511999999999"),
			WhatsAppBaseURL: getEnv("LEAD_WHATSAPP_BASE_URL", "https://wa.me"),
		},
	}

	if err := cfg.Engine.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	if cfg.Upload.MaxFileSize <= 0 {
		return nil, fmt.Errorf("upload config: UPLOAD_MAX_SIZE_MB must be positive")
	}

	return cfg, nil
}

// DSN returns the Postgres connection string.
func (d *DatabaseConfig) DSN() string {
	return "postgres://" + d.User + ":" + d.Password +
		"@" + d.Host + ":" + d.Port +
		"/" + d.DBName + "?sslmode=" + d.SSLMode
}

// AllowsExtension reports whether an uploaded file name has an accepted extension.
func (u *UploadConfig) AllowsExtension(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range u.AllowedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
