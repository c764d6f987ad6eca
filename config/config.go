package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Model    ModelConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins string
}

// ModelConfig holds everything the prediction and retraining pipeline
// needs: artifact locations, the version tag stamped on predictions, and
// the retraining knobs (minimum rows, split fraction, split seed).
type ModelConfig struct {
	ArtifactsDir     string
	ModelFile        string
	PreprocessorFile string
	MetricsFile      string
	Version          string
	MinTrainingRows  int
	TestFraction     float64
	SplitSeed        int64
}

func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ModelPath is the well-known location of the current model artifact.
func (m ModelConfig) ModelPath() string {
	return filepath.Join(m.ArtifactsDir, m.ModelFile)
}

// PreprocessorPath is the well-known location of the frozen preprocessor.
func (m ModelConfig) PreprocessorPath() string {
	return filepath.Join(m.ArtifactsDir, m.PreprocessorFile)
}

// MetricsPath is the legacy metrics dump location. Written after each
// retrain, never read back; the model_metadata table is authoritative.
func (m ModelConfig) MetricsPath() string {
	return filepath.Join(m.ArtifactsDir, m.MetricsFile)
}

func LoadConfig() (*Config, error) {
	serverPort, err := getIntEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	dbPort, err := getIntEnv("DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	jwtExpiry, err := getIntEnv("JWT_EXPIRY_HOURS", 24)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY_HOURS: %w", err)
	}

	redisPort, err := getIntEnv("REDIS_PORT", 6379)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_PORT: %w", err)
	}

	redisDB, err := getIntEnv("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	minRows, err := getIntEnv("MODEL_MIN_TRAINING_ROWS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid MODEL_MIN_TRAINING_ROWS: %w", err)
	}

	testFraction, err := getFloatEnv("MODEL_TEST_FRACTION", 0.2)
	if err != nil {
		return nil, fmt.Errorf("invalid MODEL_TEST_FRACTION: %w", err)
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, fmt.Errorf("MODEL_TEST_FRACTION must be in (0, 1), got %v", testFraction)
	}

	splitSeed, err := getIntEnv("MODEL_SPLIT_SEED", 42)
	if err != nil {
		return nil, fmt.Errorf("invalid MODEL_SPLIT_SEED: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: serverPort,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "medicost"),
			Password: getEnv("DB_PASSWORD", "medicost_dev_password"),
			Name:     getEnv("DB_NAME", "medicost"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "dev-secret-change-me"),
			ExpiryHours: jwtExpiry,
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     redisPort,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Model: ModelConfig{
			ArtifactsDir:     getEnv("MODEL_ARTIFACTS_DIR", "models"),
			ModelFile:        getEnv("MODEL_FILE", "model.json"),
			PreprocessorFile: getEnv("MODEL_PREPROCESSOR_FILE", "preprocessor.json"),
			MetricsFile:      getEnv("MODEL_METRICS_FILE", "metrics.json"),
			Version:          getEnv("MODEL_VERSION", "1.0"),
			MinTrainingRows:  minRows,
			TestFraction:     testFraction,
			SplitSeed:        int64(splitSeed),
		},
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getIntEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func getFloatEnv(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}
