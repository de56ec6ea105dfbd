// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables: CONTENIDO_MONGO_URI,
// CONTENIDO_HTTP_ADDR, and so on.
const EnvVarPrefix = "CONTENIDO"

// Config holds everything the service needs to start. Values come from a
// .env file, a config.yaml next to the binary, or CONTENIDO_* environment
// variables, in increasing order of precedence.
type Config struct {
	HTTPAddr string `mapstructure:"http_addr"`

	MongoURI         string `mapstructure:"mongo_uri"`
	MongoDatabase    string `mapstructure:"mongo_database"`
	MongoMaxPoolSize uint64 `mapstructure:"mongo_max_pool_size"`
	MongoMinPoolSize uint64 `mapstructure:"mongo_min_pool_size"`

	// StorageType selects the blob backend: "s3" or "memory".
	StorageType  string        `mapstructure:"storage_type"`
	S3Endpoint   string        `mapstructure:"storage_s3_endpoint"`
	S3Region     string        `mapstructure:"storage_s3_region"`
	S3Bucket     string        `mapstructure:"storage_s3_bucket"`
	S3AccessKey  string        `mapstructure:"storage_s3_access_key"`
	S3SecretKey  string        `mapstructure:"storage_s3_secret_key"`
	S3Timeout    time.Duration `mapstructure:"storage_s3_timeout"`
	LinkTTL      time.Duration `mapstructure:"storage_link_ttl"`

	MaxUploadSize     int64  `mapstructure:"max_upload_size"`
	AllowedExtensions string `mapstructure:"allowed_extensions"`

	DirectoryBaseURL string `mapstructure:"directory_base_url"`

	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Extensions returns the configured extension allow-list; empty means the
// defaults apply.
func (c Config) Extensions() []string {
	if strings.TrimSpace(c.AllowedExtensions) == "" {
		return nil
	}
	partes := strings.Split(c.AllowedExtensions, ",")
	exts := make([]string, 0, len(partes))
	for _, p := range partes {
		if p = strings.TrimSpace(p); p != "" {
			exts = append(exts, p)
		}
	}
	return exts
}

// LoadConfig reads the .env file (when present), the optional config file
// and the environment, and returns the merged configuration.
func LoadConfig(logger *zap.Logger) (Config, error) {
	// A missing .env is the normal case outside local development.
	if err := godotenv.Load(); err == nil {
		logger.Info("variables cargadas desde .env")
	}

	v := viper.New()
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_database", "contenido")
	v.SetDefault("mongo_max_pool_size", 100)
	v.SetDefault("mongo_min_pool_size", 10)
	v.SetDefault("storage_type", "s3")
	v.SetDefault("storage_s3_endpoint", "")
	v.SetDefault("storage_s3_region", "auto")
	v.SetDefault("storage_s3_bucket", "")
	v.SetDefault("storage_s3_access_key", "")
	v.SetDefault("storage_s3_secret_key", "")
	v.SetDefault("storage_s3_timeout", "60s")
	v.SetDefault("storage_link_ttl", "24h")
	v.SetDefault("max_upload_size", 50<<20)
	v.SetDefault("allowed_extensions", "")
	v.SetDefault("directory_base_url", "")
	v.SetDefault("request_timeout", "60s")
	v.SetDefault("shutdown_timeout", "10s")

	v.SetEnvPrefix(EnvVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("leyendo archivo de configuracion: %w", err)
		}
	} else {
		logger.Info("archivo de configuracion en uso", zap.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decodificando configuracion: %w", err)
	}

	if cfg.StorageType != "s3" && cfg.StorageType != "memory" {
		return Config{}, fmt.Errorf("storage_type desconocido: %q", cfg.StorageType)
	}
	if cfg.StorageType == "s3" && cfg.S3Bucket == "" {
		return Config{}, fmt.Errorf("storage_s3_bucket es obligatorio con storage_type=s3")
	}
	return cfg, nil
}
