package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App          AppConfig
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	FeatureStore FeatureStoreConfig
	MLflow       MLflowConfig
	Pipeline     PipelineConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port           string
	RequestTimeout time.Duration
	AllowOrigins   []string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Enabled       bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type FeatureStoreConfig struct {
	// RegistryPath overrides the embedded feature registry when set.
	RegistryPath     string
	OfflineDataDir   string
	Timeout          time.Duration
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

type MLflowConfig struct {
	TrackingURI string
	Experiment  string
}

type PipelineConfig struct {
	ETLSchedule     string
	RetrainSchedule string
	Retries         int
	RetryDelay      time.Duration
	GreatExpBinary  string
	DbtBinary       string
	DbtProfilesDir  string
	Checkpoint      string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid REDIS_DB")
	}

	requestTimeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "10s"))
	if err != nil || requestTimeout <= 0 {
		return nil, errors.New("invalid REQUEST_TIMEOUT")
	}

	fsTimeout, err := time.ParseDuration(getEnv("FEATURE_STORE_TIMEOUT", "2s"))
	if err != nil {
		return nil, errors.New("invalid FEATURE_STORE_TIMEOUT")
	}

	fsOpenTimeout, err := time.ParseDuration(getEnv("FEATURE_STORE_BREAKER_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return nil, errors.New("invalid FEATURE_STORE_BREAKER_OPEN_TIMEOUT")
	}

	fsThreshold, err := strconv.ParseUint(getEnv("FEATURE_STORE_BREAKER_THRESHOLD", "5"), 10, 32)
	if err != nil {
		return nil, errors.New("invalid FEATURE_STORE_BREAKER_THRESHOLD")
	}

	retries, err := strconv.Atoi(getEnv("PIPELINE_RETRIES", "3"))
	if err != nil || retries < 0 {
		return nil, errors.New("invalid PIPELINE_RETRIES")
	}

	retryDelay, err := time.ParseDuration(getEnv("PIPELINE_RETRY_DELAY", "60s"))
	if err != nil {
		return nil, errors.New("invalid PIPELINE_RETRY_DELAY")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Easy11 ML Service"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8000"),
			RequestTimeout: requestTimeout,
			AllowOrigins: splitList(getEnv("CORS_ALLOW_ORIGINS",
				"http://localhost:3000,http://localhost:5000,http://localhost:5173,http://localhost:5174,http://localhost:3001")),
		},
		Database: DatabaseConfig{
			Enabled:  getBool("DB_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "easy11_ml"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:       getBool("REDIS_ENABLED", false),
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		FeatureStore: FeatureStoreConfig{
			RegistryPath:     getEnv("FEATURE_REGISTRY_PATH", ""),
			OfflineDataDir:   getEnv("FEATURE_OFFLINE_DATA_DIR", "ml_service/feature_store"),
			Timeout:          fsTimeout,
			FailureThreshold: uint32(fsThreshold),
			OpenTimeout:      fsOpenTimeout,
		},
		MLflow: MLflowConfig{
			TrackingURI: getEnv("MLFLOW_TRACKING_URI", ""),
			Experiment:  getEnv("MLFLOW_EXPERIMENT", "easy11-ml"),
		},
		Pipeline: PipelineConfig{
			ETLSchedule:     getEnv("PIPELINE_ETL_SCHEDULE", "0 2 * * *"),
			RetrainSchedule: getEnv("PIPELINE_RETRAIN_SCHEDULE", "0 3 * * *"),
			Retries:         retries,
			RetryDelay:      retryDelay,
			GreatExpBinary:  getEnv("GREAT_EXPECTATIONS_BIN", "great_expectations"),
			DbtBinary:       getEnv("DBT_BIN", "dbt"),
			DbtProfilesDir:  getEnv("DBT_PROFILES_DIR", "dbt_project"),
			Checkpoint:      getEnv("GREAT_EXPECTATIONS_CHECKPOINT", "orders_checkpoint"),
		},
	}

	if cfg.Database.Enabled && cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.FeatureStore.FailureThreshold == 0 {
		return nil, fmt.Errorf("invalid FEATURE_STORE_BREAKER_THRESHOLD: must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
