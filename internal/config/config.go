package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/treinasus/admin-api/internal/whatsapp"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Storage   StorageConfig
	WhatsApp  WhatsAppConfig
	Email     EmailConfig
	Outbox    OutboxConfig
	Retention RetentionConfig
	Templates TemplatesConfig
	Statuses  StatusesConfig
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

type StorageConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
	AvatarBucket    string `mapstructure:"avatar_bucket"`
	MaterialsBucket string `mapstructure:"materials_bucket"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

// WhatsAppConfig may legitimately be empty: the messaging gateway treats
// missing credentials as "not configured" at send time rather than a
// startup failure.
type WhatsAppConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	InstanceID string `mapstructure:"instance_id"`
	Token      string `mapstructure:"token"`
}

type EmailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type OutboxConfig struct {
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds"`
	BatchSize           int `mapstructure:"batch_size"`
	MaxRetries          int `mapstructure:"max_retries"`
}

func (o OutboxConfig) PollInterval() time.Duration {
	return time.Duration(o.PollIntervalSeconds) * time.Second
}

type RetentionConfig struct {
	AuditDays       int    `mapstructure:"audit_days"`
	CleanupSchedule string `mapstructure:"cleanup_schedule"`
}

type TemplatesConfig struct {
	Path string `mapstructure:"path"`
}

type StatusesConfig struct {
	Path string `mapstructure:"path"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Environment-only deployments carry no config file.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.timeoutSeconds", 30)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")

	viper.SetDefault("redis.url", "redis://localhost:6379/0")

	viper.SetDefault("jwt.expiry_hours", 24)

	viper.SetDefault("storage.avatar_bucket", "avatars")
	viper.SetDefault("storage.materials_bucket", "training-materials")

	viper.SetDefault("outbox.poll_interval_seconds", 5)
	viper.SetDefault("outbox.batch_size", 50)
	viper.SetDefault("outbox.max_retries", 3)

	viper.SetDefault("retention.audit_days", 365)
	viper.SetDefault("retention.cleanup_schedule", "0 3 * * *")

	viper.SetDefault("templates.path", "data/templates.json")
	viper.SetDefault("statuses.path", "data/statuses.json")
}

// WhatsAppCredentials satisfies the messaging gateway's credentials
// source. Credentials come from static configuration; an empty value
// surfaces as a configuration error on the first outbound send.
func (c *Config) WhatsAppCredentials(_ context.Context) *whatsapp.Credentials {
	return &whatsapp.Credentials{
		BaseURL:    c.WhatsApp.BaseURL,
		InstanceID: c.WhatsApp.InstanceID,
		Token:      c.WhatsApp.Token,
	}
}
