package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	RabbitMQ     RabbitMQConfig
	Azure        AzureConfig
	Auth         AuthConfig
	SMTP         SMTPConfig
	Subscription SubscriptionConfig
	Pharmacy     PharmacyConfig
	Logging      LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

// RabbitMQConfig holds message broker configuration
type RabbitMQConfig struct {
	URL   string
	Queue string
}

// AzureConfig holds Azure service configuration
type AzureConfig struct {
	OpenAI  OpenAIConfig
	Storage StorageConfig
}

// OpenAIConfig holds Azure OpenAI configuration
type OpenAIConfig struct {
	Endpoint   string
	APIKey     string
	Deployment string
}

// StorageConfig holds Azure Blob Storage configuration
type StorageConfig struct {
	AccountName      string
	AccountKey       string
	ConnectionString string
	BlobEndpoint     string
	ImageContainer   string
	ProfileContainer string
}

// AuthConfig holds token signing and hashing configuration
type AuthConfig struct {
	JWTSecret     string
	TokenDuration time.Duration
}

// SMTPConfig holds outbound mail configuration
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SubscriptionConfig holds plan limit configuration
type SubscriptionConfig struct {
	FreeDailyLimit    int
	PremiumDailyLimit int
}

// PharmacyConfig holds the upstream pharmacy directory configuration
type PharmacyConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()

	// Bind specific environment variables
	bindEnvVars(v)

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 30*time.Second)

	// Database defaults
	v.SetDefault("database.maxopenconns", 25)
	v.SetDefault("database.maxidleconns", 5)
	v.SetDefault("database.connmaxlifetime", 5*time.Minute)

	// Redis defaults
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 15*time.Minute)

	// RabbitMQ defaults
	v.SetDefault("rabbitmq.queue", "medication-reminders")

	// Azure Storage defaults
	v.SetDefault("azure.storage.imagecontainer", "analysis-images")
	v.SetDefault("azure.storage.profilecontainer", "profile-photos")

	// Auth defaults
	v.SetDefault("auth.tokenduration", 72*time.Hour)

	// Subscription defaults
	v.SetDefault("subscription.freedailylimit", 5)
	v.SetDefault("subscription.premiumdailylimit", 200)

	// SMTP defaults
	v.SetDefault("smtp.port", 587)

	// Pharmacy directory defaults
	v.SetDefault("pharmacy.baseurl", "https://api.collectapi.com/health")
	v.SetDefault("pharmacy.timeout", 10*time.Second)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")

	// Database
	v.BindEnv("database.url", "DATABASE_URL")

	// Redis
	v.BindEnv("redis.address", "REDIS_ADDRESS")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")

	// RabbitMQ
	v.BindEnv("rabbitmq.url", "RABBITMQ_URL")
	v.BindEnv("rabbitmq.queue", "RABBITMQ_QUEUE")

	// Azure OpenAI
	v.BindEnv("azure.openai.endpoint", "AZURE_OPENAI_ENDPOINT")
	v.BindEnv("azure.openai.apikey", "AZURE_OPENAI_API_KEY")
	v.BindEnv("azure.openai.deployment", "AZURE_OPENAI_DEPLOYMENT")

	// Azure Storage
	v.BindEnv("azure.storage.accountname", "AZURE_STORAGE_ACCOUNT_NAME")
	v.BindEnv("azure.storage.accountkey", "AZURE_STORAGE_ACCOUNT_KEY")
	v.BindEnv("azure.storage.connectionstring", "AZURE_STORAGE_CONNECTION_STRING")
	v.BindEnv("azure.storage.blobendpoint", "AZURE_STORAGE_BLOB_ENDPOINT")

	// Auth
	v.BindEnv("auth.jwtsecret", "JWT_SECRET")
	v.BindEnv("auth.tokenduration", "TOKEN_DURATION")

	// SMTP
	v.BindEnv("smtp.host", "SMTP_HOST")
	v.BindEnv("smtp.port", "SMTP_PORT")
	v.BindEnv("smtp.username", "SMTP_USERNAME")
	v.BindEnv("smtp.password", "SMTP_PASSWORD")
	v.BindEnv("smtp.from", "SMTP_FROM")

	// Pharmacy directory
	v.BindEnv("pharmacy.baseurl", "PHARMACY_API_URL")
	v.BindEnv("pharmacy.apikey", "PHARMACY_API_KEY")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate required fields
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwtsecret is required")
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwtsecret must be at least 32 characters")
	}

	if c.Azure.OpenAI.Endpoint == "" {
		return fmt.Errorf("azure.openai.endpoint is required")
	}

	if c.Azure.OpenAI.APIKey == "" {
		return fmt.Errorf("azure.openai.apikey is required")
	}

	if c.Azure.OpenAI.Deployment == "" {
		return fmt.Errorf("azure.openai.deployment is required")
	}

	if c.Azure.Storage.ConnectionString == "" && (c.Azure.Storage.AccountName == "" || c.Azure.Storage.AccountKey == "") {
		return fmt.Errorf("azure storage credentials are required (either connection string or account name + key)")
	}

	if c.Subscription.FreeDailyLimit <= 0 {
		return fmt.Errorf("subscription.freedailylimit must be positive")
	}

	return nil
}
