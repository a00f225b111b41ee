// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"`
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	DefaultAvatar  string `mapstructure:"DEFAULT_AVATAR"`

	// Media storage provider (ImageKit-compatible).
	ImageKitPublicKey      string `mapstructure:"IMAGEKIT_PUBLIC_KEY"`
	ImageKitPrivateKey     string `mapstructure:"IMAGEKIT_PRIVATE_KEY"`
	ImageKitURLEndpoint    string `mapstructure:"IMAGEKIT_URL_ENDPOINT"`
	ImageKitUploadEndpoint string `mapstructure:"IMAGEKIT_UPLOAD_ENDPOINT"`
	ImageKitAPIEndpoint    string `mapstructure:"IMAGEKIT_API_ENDPOINT"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; environment variables are enough.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config.%s.yml: %w", env, err)
			}
		}
	}

	viper.SetDefault("PORT", "3001")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("JWT_SECRET", "dev-secret-change-in-production")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postfeed")
	viper.SetDefault("DB_PASSWORD", "postfeed")
	viper.SetDefault("DB_NAME", "postfeed")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5001,http://localhost:5173")
	viper.SetDefault("DEFAULT_AVATAR", "https://www.gravatar.com/avatar/?d=mp&f=y&s=200")
	viper.SetDefault("IMAGEKIT_PUBLIC_KEY", "")
	viper.SetDefault("IMAGEKIT_PRIVATE_KEY", "")
	viper.SetDefault("IMAGEKIT_URL_ENDPOINT", "")
	viper.SetDefault("IMAGEKIT_UPLOAD_ENDPOINT", "https://upload.imagekit.io/api/v1/files/upload")
	viper.SetDefault("IMAGEKIT_API_ENDPOINT", "https://api.imagekit.io/v1")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// IsProduction reports whether the app runs with production hardening.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// StorageConfigured reports whether the media provider credentials are present.
func (c *Config) StorageConfigured() bool {
	return c.ImageKitPublicKey != "" && c.ImageKitPrivateKey != ""
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	if c.IsProduction() {
		if c.JWTSecret == "dev-secret-change-in-production" {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if !c.StorageConfigured() {
			log.Println("WARNING: ImageKit keys are not configured. Media uploads will fail.")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	}

	return nil
}
