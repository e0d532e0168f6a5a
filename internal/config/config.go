package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	EngineNetHTTP = "nethttp"
	EngineFiber   = "fiber"

	SourceBuiltin  = "builtin"
	SourcePostgres = "postgres"
)

type Config struct {
	Server      ServerConfig
	Upload      UploadConfig
	Reference   ReferenceConfig
	Analysis    AnalysisConfig
	S3          S3Config
	DatabaseURL string
	LogLevel    string `validate:"oneof=debug info warn warning error"`
}

type ServerConfig struct {
	Port   string `validate:"required,numeric"`
	Engine string `validate:"oneof=nethttp fiber"`
	// PublicURL is where the Swagger UI fetches doc.json from.
	PublicURL       string        `validate:"required,url"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

type UploadConfig struct {
	Dir             string        `validate:"required"`
	MaxBytes        int64         `validate:"gt=0"`
	JanitorInterval time.Duration `validate:"gt=0"`
	JanitorMaxAge   time.Duration `validate:"gt=0"`
}

// ReferenceConfig names where each reference table is loaded from: builtin,
// a path or file:// URI, an http(s) URL, s3://bucket/key, or postgres
// (catalog only).
type ReferenceConfig struct {
	TaxonomySource string `validate:"required,ne=postgres"`
	MarketSource   string `validate:"required,ne=postgres"`
	CatalogSource  string `validate:"required"`
}

type AnalysisConfig struct {
	SummaryTopN int `validate:"gte=1,lte=20"`
}

// S3Config is used for s3:// reference sources. Endpoint is set for
// S3-compatible stores such as Cloudflare R2.
type S3Config struct {
	Region          string `validate:"required"`
	Endpoint        string `validate:"omitempty,url"`
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// Load reads .env (if present) and the environment, applies defaults and
// validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if err = godotenv.Load("../../.env"); err != nil {
			slog.Debug("no .env file found, using environment variables")
		}
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from the current environment without validating it.
func FromEnv() *Config {
	port := getEnv("PORT", "8080")

	return &Config{
		Server: ServerConfig{
			Port:            port,
			Engine:          strings.ToLower(getEnv("HTTP_ENGINE", EngineNetHTTP)),
			PublicURL:       getEnv("PUBLIC_URL", "http://localhost:"+port),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", "10s"),
		},
		Upload: UploadConfig{
			Dir:             getEnv("UPLOAD_DIR", "./uploads"),
			MaxBytes:        getEnvAsInt64("MAX_UPLOAD_BYTES", 16<<20),
			JanitorInterval: getEnvAsDuration("UPLOAD_JANITOR_INTERVAL", "5m"),
			JanitorMaxAge:   getEnvAsDuration("UPLOAD_JANITOR_MAX_AGE", "15m"),
		},
		Reference: ReferenceConfig{
			TaxonomySource: getEnv("TAXONOMY_SOURCE", SourceBuiltin),
			MarketSource:   getEnv("MARKET_SOURCE", SourceBuiltin),
			CatalogSource:  getEnv("CATALOG_SOURCE", SourceBuiltin),
		},
		Analysis: AnalysisConfig{
			SummaryTopN: getEnvAsInt("SUMMARY_TOP_SKILLS", 3),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "auto"),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			UsePathStyle:    getEnvAsBool("S3_USE_PATH_STYLE", false),
		},
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}
}

// Validate checks struct rules and the cross-field requirements.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Reference.CatalogSource == SourcePostgres && c.DatabaseURL == "" {
		return errors.New("invalid configuration: CATALOG_SOURCE=postgres requires DATABASE_URL")
	}
	return nil
}

// UsesS3 reports whether any reference table is read from object storage.
func (c *Config) UsesS3() bool {
	for _, src := range []string{c.Reference.TaxonomySource, c.Reference.MarketSource, c.Reference.CatalogSource} {
		if strings.HasPrefix(src, "s3://") {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
