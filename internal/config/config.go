package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppEnv         string   `mapstructure:"APP_ENV"`
	Port           string   `mapstructure:"PORT"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	LogLevel       string   `mapstructure:"LOG_LEVEL"`
	AllowedOrigins []string `mapstructure:"-"`

	JWT     JWTConfig
	Storage StorageConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Webhook WebhookConfig

	AuthRateLimit RateLimitRule
}

type JWTConfig struct {
	Secret     string        `mapstructure:"JWT_SECRET"`
	AccessTTL  time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	RefreshTTL time.Duration `mapstructure:"REFRESH_TOKEN_TTL"`
	ResetTTL   time.Duration `mapstructure:"RESET_TOKEN_TTL"`
}

type StorageConfig struct {
	Driver    string `mapstructure:"STORAGE_DRIVER"`
	UploadDir string `mapstructure:"UPLOAD_DIR"`
	Bucket    string `mapstructure:"S3_BUCKET"`
	Region    string `mapstructure:"S3_REGION"`
	Endpoint  string `mapstructure:"S3_ENDPOINT"`
	AccessKey string `mapstructure:"S3_ACCESS_KEY"`
	SecretKey string `mapstructure:"S3_SECRET_KEY"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"REDIS_ADDR"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"-"`
	Topic   string   `mapstructure:"KAFKA_TOPIC"`
}

type WebhookConfig struct {
	DiscordURL string `mapstructure:"DISCORD_WEBHOOK_URL"`
	SlackURL   string `mapstructure:"SLACK_WEBHOOK_URL"`
}

type RateLimitRule struct {
	Limit   int           `mapstructure:"AUTH_RATE_LIMIT"`
	Window  time.Duration `mapstructure:"AUTH_RATE_WINDOW"`
	Enabled bool          `mapstructure:"-"`
}

var defaults = map[string]interface{}{
	"APP_ENV":             "development",
	"PORT":                "3000",
	"DATABASE_URL":        "",
	"LOG_LEVEL":           "info",
	"ALLOWED_ORIGINS":     "http://localhost:3000,http://localhost:5173",
	"JWT_SECRET":          "",
	"ACCESS_TOKEN_TTL":    "1h",
	"REFRESH_TOKEN_TTL":   "168h",
	"RESET_TOKEN_TTL":     "1h",
	"STORAGE_DRIVER":      "local",
	"UPLOAD_DIR":          "uploads",
	"S3_BUCKET":           "",
	"S3_REGION":           "",
	"S3_ENDPOINT":         "",
	"S3_ACCESS_KEY":       "",
	"S3_SECRET_KEY":       "",
	"REDIS_ADDR":          "",
	"REDIS_PASSWORD":      "",
	"REDIS_DB":            0,
	"AUTH_RATE_LIMIT":     20,
	"AUTH_RATE_WINDOW":    "1m",
	"KAFKA_BROKERS":       "",
	"KAFKA_TOPIC":         "rentit.bookings",
	"DISCORD_WEBHOOK_URL": "",
	"SLACK_WEBHOOK_URL":   "",
}

// Load reads configuration from the environment. Call godotenv first if a
// .env file should be honoured.
func Load() (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	sections := []interface{}{&cfg, &cfg.JWT, &cfg.Storage, &cfg.Redis, &cfg.Kafka, &cfg.Webhook, &cfg.AuthRateLimit}
	for _, section := range sections {
		if err := v.Unmarshal(section); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	cfg.AllowedOrigins = splitList(v.GetString("ALLOWED_ORIGINS"))
	cfg.Kafka.Brokers = splitList(v.GetString("KAFKA_BROKERS"))
	cfg.AuthRateLimit.Enabled = cfg.Redis.Addr != "" && cfg.AuthRateLimit.Limit > 0

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET environment variable is not set")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 || c.JWT.ResetTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.Bucket == "" {
			return errors.New("S3_BUCKET is required when STORAGE_DRIVER is s3")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
