package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageDriverFirebase   = "firebase"
	StorageDriverS3         = "s3"
	StorageDriverCloudinary = "cloudinary"
)

// Config holds all configuration for the application.
type Config struct {
	Port                             string `mapstructure:"PORT"`
	GinMode                          string `mapstructure:"GIN_MODE"`
	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	FirebaseStorageBucket            string `mapstructure:"FIREBASE_STORAGE_BUCKET"`
	ClientURL                        string `mapstructure:"CLIENT_URL"`
	LoginPath                        string `mapstructure:"LOGIN_PATH"`

	StorageDriver   string `mapstructure:"STORAGE_DRIVER"`
	S3Region        string `mapstructure:"S3_REGION"`
	S3Bucket        string `mapstructure:"S3_BUCKET"`
	S3Prefix        string `mapstructure:"S3_PREFIX"`
	S3PublicBaseURL string `mapstructure:"S3_PUBLIC_BASE_URL"`
	CloudinaryURL   string `mapstructure:"CLOUDINARY_URL"`
	MaxImageBytes   int64  `mapstructure:"MAX_IMAGE_BYTES"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	RabbitMQURL       string `mapstructure:"RABBITMQ_URL"`
	NotificationQueue string `mapstructure:"NOTIFICATION_QUEUE"`

	SMTPHost      string `mapstructure:"SMTP_HOST"`
	SMTPPort      string `mapstructure:"SMTP_PORT"`
	SMTPUser      string `mapstructure:"SMTP_USER"`
	SMTPPass      string `mapstructure:"SMTP_PASS"`
	SupportSender string `mapstructure:"SUPPORT_SENDER"`

	SessionRecheckInterval time.Duration `mapstructure:"SESSION_RECHECK_INTERVAL"`
}

var envKeys = []string{
	"PORT",
	"GIN_MODE",
	"FIREBASE_PROJECT_ID",
	"GOOGLE_APPLICATION_CREDENTIALS",
	"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
	"FIREBASE_STORAGE_BUCKET",
	"CLIENT_URL",
	"LOGIN_PATH",
	"STORAGE_DRIVER",
	"S3_REGION",
	"S3_BUCKET",
	"S3_PREFIX",
	"S3_PUBLIC_BASE_URL",
	"CLOUDINARY_URL",
	"MAX_IMAGE_BYTES",
	"REDIS_ADDR",
	"REDIS_PASSWORD",
	"REDIS_DB",
	"RABBITMQ_URL",
	"NOTIFICATION_QUEUE",
	"SMTP_HOST",
	"SMTP_PORT",
	"SMTP_USER",
	"SMTP_PASS",
	"SUPPORT_SENDER",
	"SESSION_RECHECK_INTERVAL",
}

// LoadConfig loads configuration from environment variables using Viper.
func LoadConfig() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("LOGIN_PATH", "/login")
	v.SetDefault("STORAGE_DRIVER", StorageDriverFirebase)
	v.SetDefault("S3_PREFIX", "profile-images")
	v.SetDefault("MAX_IMAGE_BYTES", 5*1024*1024)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("NOTIFICATION_QUEUE", "order-notifications")
	v.SetDefault("SMTP_PORT", "2525")
	v.SetDefault("SESSION_RECHECK_INTERVAL", time.Minute)

	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields and driver specific settings.
func (c *Config) Validate() error {
	if c.FirebaseProjectID == "" {
		return errors.New("FIREBASE_PROJECT_ID is required")
	}
	if c.MaxImageBytes <= 0 {
		return errors.New("MAX_IMAGE_BYTES must be positive")
	}
	if c.SessionRecheckInterval <= 0 {
		return errors.New("SESSION_RECHECK_INTERVAL must be positive")
	}

	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	switch c.StorageDriver {
	case StorageDriverFirebase:
		// bucket may come from the Firebase project defaults
	case StorageDriverS3:
		if c.S3Region == "" || c.S3Bucket == "" || c.S3PublicBaseURL == "" {
			return errors.New("S3_REGION, S3_BUCKET and S3_PUBLIC_BASE_URL are required for the s3 storage driver")
		}
	case StorageDriverCloudinary:
		if c.CloudinaryURL == "" {
			return errors.New("CLOUDINARY_URL is required for the cloudinary storage driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER: %s", c.StorageDriver)
	}
	return nil
}

// MailEnabled reports whether enough SMTP settings exist to send support acknowledgements.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPass != "" && c.SupportSender != ""
}
