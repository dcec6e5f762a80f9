package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port      string `yaml:"port" env:"SERVER_PORT"`
		Mode      string `yaml:"mode" env:"SERVER_MODE"`
		PublicURL string `yaml:"public_url" env:"SERVER_PUBLIC_URL"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrateOnStart  bool   `yaml:"migrate_on_start" env:"DB_MIGRATE_ON_START"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Storage struct {
		Driver                string `yaml:"driver" env:"STORAGE_DRIVER"`
		BasePath              string `yaml:"base_path" env:"STORAGE_BASE_PATH"`
		AdsFolder             string `yaml:"ads_folder" env:"STORAGE_ADS_FOLDER"`
		UserImagesFolder      string `yaml:"user_images_folder" env:"STORAGE_USER_IMAGES_FOLDER"`
		TempFolder            string `yaml:"temp_folder" env:"STORAGE_TEMP_FOLDER"`
		MaxUploadMB           int    `yaml:"max_upload_mb" env:"STORAGE_MAX_UPLOAD_MB"`
		AzureConnectionString string `yaml:"azure_connection_string" env:"AZURE_STORAGE_CONNECTION_STRING"`
		AzureContainer        string `yaml:"azure_container" env:"AZURE_STORAGE_CONTAINER"`
		PublicURL             string `yaml:"public_url" env:"STORAGE_PUBLIC_URL"`
	} `yaml:"storage"`

	Redis struct {
		URL             string `yaml:"url" env:"REDIS_URL"`
		SearchParamsTTL string `yaml:"search_params_ttl" env:"REDIS_SEARCH_PARAMS_TTL"`
	} `yaml:"redis"`

	Tracing struct {
		OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
		ServiceName  string `yaml:"service_name" env:"OTEL_SERVICE_NAME"`
	} `yaml:"tracing"`

	Pagination struct {
		PageSize int `yaml:"page_size" env:"PAGINATION_PAGE_SIZE"`
	} `yaml:"pagination"`

	Admin struct {
		Email     string `yaml:"email" env:"ADMIN_EMAIL"`
		Password  string `yaml:"password" env:"ADMIN_PASSWORD"`
		FirstName string `yaml:"first_name" env:"ADMIN_FIRST_NAME"`
		LastName  string `yaml:"last_name" env:"ADMIN_LAST_NAME"`
	} `yaml:"admin"`
}

// LoadConfig loads configuration from a .env file, a YAML file and environment
// variables, in increasing order of precedence.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			file, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(file, config); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func setDefaults(config *Config) {
	config.Server.Port = "3000"
	config.Server.Mode = "development"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "bazaar"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrateOnStart = true

	config.JWT.AccessTokenExpiration = "1h"
	config.JWT.Issuer = "bazaar"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Storage.Driver = "local"
	config.Storage.BasePath = "storage"
	config.Storage.AdsFolder = "ads-pictures"
	config.Storage.UserImagesFolder = "userImages"
	config.Storage.TempFolder = "tmp"
	config.Storage.MaxUploadMB = 32

	config.Redis.SearchParamsTTL = "5m"

	config.Tracing.ServiceName = "bazaar-api"

	config.Pagination.PageSize = 10
}

func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid database connection lifetime: %w", err)
	}

	switch strings.ToLower(config.Storage.Driver) {
	case "local":
		if config.Storage.BasePath == "" {
			return fmt.Errorf("storage base path is required for the local driver")
		}
	case "azure":
		if config.Storage.AzureConnectionString == "" || config.Storage.AzureContainer == "" {
			return fmt.Errorf("azure connection string and container are required for the azure driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	if config.Storage.AdsFolder == "" || config.Storage.UserImagesFolder == "" {
		return fmt.Errorf("storage folders must not be empty")
	}

	if config.Redis.SearchParamsTTL != "" {
		if _, err := time.ParseDuration(config.Redis.SearchParamsTTL); err != nil {
			return fmt.Errorf("invalid redis search params ttl: %w", err)
		}
	}

	if config.Pagination.PageSize <= 0 {
		return fmt.Errorf("pagination page size must be positive")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// IsProduction reports whether the server runs in release mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt gets an environment variable as an integer or returns a default value
func GetEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(GetEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
