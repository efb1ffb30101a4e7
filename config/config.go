package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP           HTTPConfig           `yaml:"http"`
	GRPC           GRPCConfig           `yaml:"grpc"`
	Travelpayouts  TravelpayoutsConfig  `yaml:"travelpayouts"`
	Purchase       PurchaseConfig       `yaml:"purchase"`
	ReferenceCache ReferenceCacheConfig `yaml:"reference_cache"`
	Database       DatabaseConfig       `yaml:"database"`
	Redis          RedisConfig          `yaml:"redis"`
	Kafka          KafkaConfig          `yaml:"kafka"`
	Log            LogConfig            `yaml:"log"`
}

type HTTPConfig struct {
	Address    string `yaml:"address" validate:"required"`
	SwaggerDir string `yaml:"swagger_dir"`
}

type GRPCConfig struct {
	Address string `yaml:"address" validate:"required"`
}

type TravelpayoutsConfig struct {
	BaseURL        string  `yaml:"base_url" validate:"required,url"`
	RapidAPIKey    string  `yaml:"rapidapi_key"`
	RapidAPIHost   string  `yaml:"rapidapi_host"`
	AccessToken    string  `yaml:"access_token"`
	TimeoutSeconds int     `yaml:"timeout_seconds" validate:"gte=0"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst int     `yaml:"rate_limit_burst" validate:"gte=0"`
}

func (t TravelpayoutsConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

type PurchaseConfig struct {
	URL            string `yaml:"url" validate:"required,url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"gte=0"`
}

func (p PurchaseConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

type ReferenceCacheConfig struct {
	Backend           string `yaml:"backend" validate:"oneof=redis postgres memory"`
	RetryAttempts     uint64 `yaml:"retry_attempts"`
	RetryBackoffMilli int    `yaml:"retry_backoff_ms" validate:"gte=0"`
}

func (r ReferenceCacheConfig) RetryBackoff() time.Duration {
	return time.Duration(r.RetryBackoffMilli) * time.Millisecond
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	CheckoutTopic      string   `yaml:"checkout_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format" validate:"omitempty,oneof=json text"`
}

// LoadConfig reads the yaml file at path, expands ${VAR} references from the
// environment, applies defaults and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return Parse([]byte(os.ExpandEnv(string(data))))
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.setDefaults()

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.ReferenceCache.Backend == "" {
		c.ReferenceCache.Backend = "redis"
	}
	if c.ReferenceCache.RetryAttempts == 0 {
		c.ReferenceCache.RetryAttempts = 1
	}
	if c.Travelpayouts.TimeoutSeconds == 0 {
		c.Travelpayouts.TimeoutSeconds = 15
	}
	if c.Purchase.TimeoutSeconds == 0 {
		c.Purchase.TimeoutSeconds = 15
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}
