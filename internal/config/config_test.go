package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// clearEnv blanks every variable Load consults so tests only see what they
// set themselves.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"STAGEHAND_PORT", "PORT", "STAGEHAND_ENV", "ENV", "GO_ENV",
		"DATABASE_PATH", "SEED_ON_STARTUP",
		"SESSION_SECRET", "SESSION_SECRET_PREVIOUS",
		"ADMIN_USERNAME", "ADMIN_PASSWORD", "ADMIN_PASSWORD_HASH",
		"UPLOAD_DIR", "MAX_UPLOAD_SIZE_MB", "SANITIZE_UPLOADS",
		"CORS_ALLOWED_ORIGINS", "REDIS_URL",
		"R2_BUCKET_NAME", "R2_ACCESS_KEY_ID", "R2_SECRET_ACCESS_KEY",
		"R2_ENDPOINT", "R2_PUBLIC_BASE_URL",
		"TRACING_ENABLED", "OTLP_ENDPOINT", "TRACE_SAMPLING_RATE", "TRACING_INSECURE",
	}
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "test-session-secret")
	t.Setenv("ADMIN_PASSWORD", "hunter2")

	cfg, errs := Load("")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.Env != DefaultEnv {
		t.Errorf("Env = %q, want %q", cfg.Env, DefaultEnv)
	}
	if cfg.DatabasePath != DefaultDatabasePath {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
	if cfg.AdminUsername != DefaultAdminUsername {
		t.Errorf("AdminUsername = %q", cfg.AdminUsername)
	}
	if cfg.MaxUploadSizeMB != DefaultMaxUploadSizeMB {
		t.Errorf("MaxUploadSizeMB = %d", cfg.MaxUploadSizeMB)
	}
	if !cfg.SeedOnStartup {
		t.Error("SeedOnStartup default should be true")
	}
	if cfg.SanitizeUploads {
		t.Error("SanitizeUploads default should be false")
	}
	if cfg.TraceSampling != DefaultTraceSampling {
		t.Errorf("TraceSampling = %g", cfg.TraceSampling)
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		t.Error("CORSAllowedOrigins default is empty")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	clearEnv(t)

	_, errs := Load("")
	if len(errs) == 0 {
		t.Fatal("expected validation errors")
	}

	var hasSecret, hasPassword bool
	for _, err := range errs {
		if errors.Is(err, ErrMissingSessionSecret) {
			hasSecret = true
		}
		if errors.Is(err, ErrMissingAdminPassword) {
			hasPassword = true
		}
	}
	if !hasSecret || !hasPassword {
		t.Errorf("errors = %v, want session secret and admin password errors", errs)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "port: 4000\nsession_secret: file-secret\nadmin_password: file-pass\nupload_dir: /from/file\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("PORT", "5000")
	t.Setenv("SESSION_SECRET", "env-secret")

	cfg, errs := Load(path)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if cfg.Port != 5000 {
		t.Errorf("Port = %d, env should win over file", cfg.Port)
	}
	if cfg.SessionSecret != "env-secret" {
		t.Errorf("SessionSecret = %q, env should win", cfg.SessionSecret)
	}
	if cfg.UploadDir != "/from/file" {
		t.Errorf("UploadDir = %q, file value should apply", cfg.UploadDir)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "s")
	t.Setenv("ADMIN_PASSWORD", "p")
	t.Setenv("PORT", "not-a-number")

	_, errs := Load("")
	found := false
	for _, err := range errs {
		if errors.Is(err, ErrInvalidPort) {
			found = true
		}
	}
	if !found {
		t.Errorf("errors = %v, want ErrInvalidPort", errs)
	}
}

func TestLoad_PartialR2(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "s")
	t.Setenv("ADMIN_PASSWORD", "p")
	t.Setenv("R2_BUCKET_NAME", "stagehand-uploads")

	_, errs := Load("")
	var hasEndpoint bool
	for _, err := range errs {
		if errors.Is(err, ErrMissingR2Endpoint) {
			hasEndpoint = true
		}
	}
	if !hasEndpoint {
		t.Errorf("errors = %v, want the rest of the R2 group required", errs)
	}
}

func TestLoad_CORSListFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "s")
	t.Setenv("ADMIN_PASSWORD", "p")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, errs := Load("")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestLogSummary_MasksSecrets(t *testing.T) {
	cfg := &Config{
		SessionSecret: "super-secret-session-key",
		AdminPassword: "hunter2",
	}
	summary := cfg.LogSummary()

	if summary["session_secret"] != "supe****" {
		t.Errorf("session_secret = %q", summary["session_secret"])
	}
	if summary["admin_password"] != "****" {
		t.Errorf("admin_password = %q", summary["admin_password"])
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "<not set>"},
		{"short", "****"},
		{"longersecret", "long****"},
	}
	for _, tt := range tests {
		if got := maskSecret(tt.in); got != tt.want {
			t.Errorf("maskSecret(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
