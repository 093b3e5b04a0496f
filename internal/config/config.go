package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	CORS     CORSConfig     `mapstructure:"cors"`
	ML       MLConfig       `mapstructure:"ml"`
	S3       S3Config       `mapstructure:"s3"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// JWTConfig defines JWT specific configuration.
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type CORSConfig struct {
	Origin string `mapstructure:"origin"`
}

// MLConfig points at the external weight-prediction service.
type MLConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// ErrMissingJWTSecret is returned when JWT_SECRET is not configured.
var ErrMissingJWTSecret = errors.New("jwt secret is required (set JWT_SECRET)")

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	// Flat environment names the deployment contract uses.
	_ = viper.BindEnv("server.port", "PORT")
	_ = viper.BindEnv("jwt.secret", "JWT_SECRET")
	_ = viper.BindEnv("cors.origin", "CORS_ORIGIN")
	_ = viper.BindEnv("ml.base_url", "ML_API_BASE_URL")
	_ = viper.BindEnv("database.uri", "DATABASE_URI")
	_ = viper.BindEnv("database.name", "DATABASE_NAME")

	viper.SetDefault("server.port", "4000")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "fitness_tracker")
	viper.SetDefault("jwt.expiration", "168h") // 7 days
	viper.SetDefault("cors.origin", "http://localhost:3000")
	viper.SetDefault("ml.base_url", "http://localhost:8000")
	viper.SetDefault("ml.timeout", "5s")
	viper.SetDefault("s3.use_ssl", true)

	err = viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// Config file not found; rely on defaults and env vars.
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	if config.JWT.Secret == "" {
		return config, ErrMissingJWTSecret
	}

	return config, nil
}
