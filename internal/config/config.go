// Package config provides configuration loading and validation for the
// server. It uses koanf to merge environment variables with optional file
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration values for the server.
type Config struct {
	// Server settings
	Port int    `koanf:"port"`
	Env  string `koanf:"env"`

	// Database (single-file SQLite)
	DatabasePath  string `koanf:"database_path"`
	SeedOnStartup bool   `koanf:"seed_on_startup"`

	// Session auth
	SessionSecret         string `koanf:"session_secret"`
	SessionSecretPrevious string `koanf:"session_secret_previous"`
	AdminUsername         string `koanf:"admin_username"`
	AdminPassword         string `koanf:"admin_password"`
	AdminPasswordHash     string `koanf:"admin_password_hash"`

	// Uploads
	UploadDir       string `koanf:"upload_dir"`
	MaxUploadSizeMB int    `koanf:"max_upload_size_mb"`
	SanitizeUploads bool   `koanf:"sanitize_uploads"`

	// CORS
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// Redis (optional; backs the login rate limiter)
	RedisURL string `koanf:"redis_url"`

	// R2 (optional object storage backend for uploads)
	R2BucketName      string `koanf:"r2_bucket_name"`
	R2AccessKeyID     string `koanf:"r2_access_key_id"`
	R2SecretAccessKey string `koanf:"r2_secret_access_key"`
	R2Endpoint        string `koanf:"r2_endpoint"`
	R2PublicBaseURL   string `koanf:"r2_public_base_url"`

	// Tracing
	TracingEnabled  bool    `koanf:"tracing_enabled"`
	OTLPEndpoint    string  `koanf:"otlp_endpoint"`
	TraceSampling   float64 `koanf:"trace_sampling_rate"`
	TracingInsecure bool    `koanf:"tracing_insecure"`
}

// Configuration validation errors.
var (
	ErrMissingSessionSecret   = errors.New("SESSION_SECRET is required")
	ErrMissingAdminPassword   = errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required")
	ErrMissingR2BucketName    = errors.New("R2_BUCKET_NAME is required")
	ErrMissingR2AccessKeyID   = errors.New("R2_ACCESS_KEY_ID is required")
	ErrMissingR2SecretKey     = errors.New("R2_SECRET_ACCESS_KEY is required")
	ErrMissingR2Endpoint      = errors.New("R2_ENDPOINT is required")
	ErrMissingR2PublicBaseURL = errors.New("R2_PUBLIC_BASE_URL is required")
	ErrInvalidPort            = errors.New("PORT must be a valid integer")
)

// Default values for non-secret configuration.
const (
	DefaultPort            = 3001
	DefaultEnv             = "development"
	DefaultDatabasePath    = "./data/stagehand.db"
	DefaultAdminUsername   = "admin"
	DefaultUploadDir       = "./uploads"
	DefaultMaxUploadSizeMB = 10
	DefaultTraceSampling   = 1.0
)

// DefaultCORSAllowedOrigins covers the local admin console.
var DefaultCORSAllowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

// Load reads configuration from environment variables and an optional config
// file. Environment variables take precedence over file values.
// Returns the loaded config and a slice of validation errors (empty if valid).
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	// Load from YAML file first if provided (lower precedence)
	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	port, portErr := getEnvIntOrDefaultMulti([]string{"STAGEHAND_PORT", "PORT"}, k.Int("port"), DefaultPort)
	if portErr != nil {
		loadErrs = append(loadErrs, portErr)
	}

	maxUploadSize, uploadSizeErr := getEnvIntOrDefault("MAX_UPLOAD_SIZE_MB", k.Int("max_upload_size_mb"), DefaultMaxUploadSizeMB)
	if uploadSizeErr != nil {
		loadErrs = append(loadErrs, uploadSizeErr)
	}

	sampling, samplingErr := getEnvFloatOrDefault("TRACE_SAMPLING_RATE", k.Float64("trace_sampling_rate"), DefaultTraceSampling)
	if samplingErr != nil {
		loadErrs = append(loadErrs, samplingErr)
	}

	cfg := &Config{
		Port:                  port,
		Env:                   getEnvOrDefaultMulti([]string{"STAGEHAND_ENV", "ENV", "GO_ENV"}, k.String("env"), DefaultEnv),
		DatabasePath:          getEnvOrDefault("DATABASE_PATH", k.String("database_path"), DefaultDatabasePath),
		SeedOnStartup:         getEnvBoolOrDefault("SEED_ON_STARTUP", k, "seed_on_startup", true),
		SessionSecret:         getEnvOrKoanf("SESSION_SECRET", k, "session_secret"),
		SessionSecretPrevious: getEnvOrKoanf("SESSION_SECRET_PREVIOUS", k, "session_secret_previous"),
		AdminUsername:         getEnvOrDefault("ADMIN_USERNAME", k.String("admin_username"), DefaultAdminUsername),
		AdminPassword:         getEnvOrKoanf("ADMIN_PASSWORD", k, "admin_password"),
		AdminPasswordHash:     getEnvOrKoanf("ADMIN_PASSWORD_HASH", k, "admin_password_hash"),
		UploadDir:             getEnvOrDefault("UPLOAD_DIR", k.String("upload_dir"), DefaultUploadDir),
		MaxUploadSizeMB:       maxUploadSize,
		SanitizeUploads:       getEnvBoolOrDefault("SANITIZE_UPLOADS", k, "sanitize_uploads", false),
		CORSAllowedOrigins:    getEnvListOrDefault("CORS_ALLOWED_ORIGINS", k.Strings("cors_allowed_origins"), DefaultCORSAllowedOrigins),
		RedisURL:              getEnvOrKoanf("REDIS_URL", k, "redis_url"),
		R2BucketName:          getEnvOrKoanf("R2_BUCKET_NAME", k, "r2_bucket_name"),
		R2AccessKeyID:         getEnvOrKoanf("R2_ACCESS_KEY_ID", k, "r2_access_key_id"),
		R2SecretAccessKey:     getEnvOrKoanf("R2_SECRET_ACCESS_KEY", k, "r2_secret_access_key"),
		R2Endpoint:            getEnvOrKoanf("R2_ENDPOINT", k, "r2_endpoint"),
		R2PublicBaseURL:       getEnvOrKoanf("R2_PUBLIC_BASE_URL", k, "r2_public_base_url"),
		TracingEnabled:        getEnvBoolOrDefault("TRACING_ENABLED", k, "tracing_enabled", false),
		OTLPEndpoint:          getEnvOrKoanf("OTLP_ENDPOINT", k, "otlp_endpoint"),
		TraceSampling:         sampling,
		TracingInsecure:       getEnvBoolOrDefault("TRACING_INSECURE", k, "tracing_insecure", false),
	}

	errs := cfg.Validate()
	errs = append(loadErrs, errs...)

	return cfg, errs
}

// R2Configured reports whether any R2 setting is present.
func (c *Config) R2Configured() bool {
	return c.R2BucketName != "" || c.R2AccessKeyID != "" || c.R2SecretAccessKey != "" ||
		c.R2Endpoint != "" || c.R2PublicBaseURL != ""
}

// Validate checks that all required configuration values are present.
// Returns a slice of validation errors (empty if valid).
func (c *Config) Validate() []error {
	var errs []error

	if c.SessionSecret == "" {
		errs = append(errs, ErrMissingSessionSecret)
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		errs = append(errs, ErrMissingAdminPassword)
	}

	// R2 is optional; when any field is set the whole group is required.
	if c.R2Configured() {
		if c.R2BucketName == "" {
			errs = append(errs, ErrMissingR2BucketName)
		}
		if c.R2AccessKeyID == "" {
			errs = append(errs, ErrMissingR2AccessKeyID)
		}
		if c.R2SecretAccessKey == "" {
			errs = append(errs, ErrMissingR2SecretKey)
		}
		if c.R2Endpoint == "" {
			errs = append(errs, ErrMissingR2Endpoint)
		}
		if c.R2PublicBaseURL == "" {
			errs = append(errs, ErrMissingR2PublicBaseURL)
		}
	}

	return errs
}

// LogSummary returns a summary of the configuration suitable for logging.
// All secrets are masked to prevent accidental exposure.
func (c *Config) LogSummary() map[string]string {
	return map[string]string{
		"port":                 fmt.Sprintf("%d", c.Port),
		"env":                  c.Env,
		"database_path":        c.DatabasePath,
		"seed_on_startup":      fmt.Sprintf("%t", c.SeedOnStartup),
		"session_secret":       maskSecret(c.SessionSecret),
		"admin_username":       c.AdminUsername,
		"admin_password":       maskSecret(c.AdminPassword),
		"admin_password_hash":  maskSecret(c.AdminPasswordHash),
		"upload_dir":           c.UploadDir,
		"max_upload_size_mb":   fmt.Sprintf("%d", c.MaxUploadSizeMB),
		"sanitize_uploads":     fmt.Sprintf("%t", c.SanitizeUploads),
		"cors_allowed_origins": strings.Join(c.CORSAllowedOrigins, ","),
		"redis_url":            maskSecret(c.RedisURL),
		"r2_bucket_name":       c.R2BucketName,
		"r2_access_key_id":     maskSecret(c.R2AccessKeyID),
		"r2_secret_access_key": maskSecret(c.R2SecretAccessKey),
		"r2_endpoint":          c.R2Endpoint,
		"r2_public_base_url":   c.R2PublicBaseURL,
		"tracing_enabled":      fmt.Sprintf("%t", c.TracingEnabled),
		"otlp_endpoint":        c.OTLPEndpoint,
		"trace_sampling_rate":  fmt.Sprintf("%g", c.TraceSampling),
	}
}

// getEnvOrKoanf returns the environment variable value if set, otherwise the koanf value.
func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return k.String(koanfKey)
}

// getEnvOrDefault returns the environment variable value if set, otherwise the koanf value, or default.
func getEnvOrDefault(envKey string, koanfVal string, defaultVal string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvOrDefaultMulti tries multiple environment variable keys in order.
func getEnvOrDefaultMulti(envKeys []string, koanfVal string, defaultVal string) string {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvIntOrDefault returns the environment variable as int if set, otherwise the koanf value, or default.
// Returns an error if the environment variable is set but cannot be parsed as an integer.
func getEnvIntOrDefault(envKey string, koanfVal int, defaultVal int) (int, error) {
	if val := os.Getenv(envKey); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid integer: %w", envKey, ErrInvalidPort)
		}
		return i, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvIntOrDefaultMulti tries multiple environment variable keys in order.
func getEnvIntOrDefaultMulti(envKeys []string, koanfVal int, defaultVal int) (int, error) {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			i, err := strconv.Atoi(val)
			if err != nil {
				return 0, fmt.Errorf("%s must be a valid integer: %w", key, ErrInvalidPort)
			}
			return i, nil
		}
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvFloatOrDefault returns the environment variable as float64 if set, otherwise the koanf value, or default.
func getEnvFloatOrDefault(envKey string, koanfVal float64, defaultVal float64) (float64, error) {
	if val := os.Getenv(envKey); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid float: %w", envKey, err)
		}
		return f, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvBoolOrDefault returns the environment variable as bool if set,
// otherwise the koanf value, or default. Env vars accept true/1/yes/on and
// false/0/no/off.
func getEnvBoolOrDefault(envKey string, k *koanf.Koanf, koanfKey string, defaultVal bool) bool {
	if val := os.Getenv(envKey); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	if k.Exists(koanfKey) {
		return k.Bool(koanfKey)
	}
	return defaultVal
}

// getEnvListOrDefault returns the environment variable split on commas if
// set, otherwise the koanf value, or default.
func getEnvListOrDefault(envKey string, koanfVal []string, defaultVal []string) []string {
	if val := os.Getenv(envKey); val != "" {
		parts := strings.Split(val, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	}
	if len(koanfVal) > 0 {
		return koanfVal
	}
	return defaultVal
}

// maskSecret masks a secret value, showing only the first 4 characters
// followed by ****. Secrets shorter than 8 characters are fully masked.
func maskSecret(s string) string {
	if s == "" {
		return "<not set>"
	}
	if len(s) < 8 {
		return "****"
	}
	return s[:4] + "****"
}
