package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected shutdown timeout 10s, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.JWT.AccessTokenExpire != 12*time.Hour {
		t.Errorf("expected access token expiry 12h, got %v", cfg.JWT.AccessTokenExpire)
	}
	if cfg.Alert.MaxShiftHours != 12 {
		t.Errorf("expected max shift 12h, got %v", cfg.Alert.MaxShiftHours)
	}
	if cfg.MinIO.Bucket != "sitestock" {
		t.Errorf("expected bucket sitestock, got %q", cfg.MinIO.Bucket)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("MINIO_BUCKET", "site-files")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("DB_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("expected DB_HOST override, got %q", cfg.Database.Host)
	}
	if cfg.Database.Port != 6543 {
		t.Errorf("expected DB_PORT override, got %d", cfg.Database.Port)
	}
	if cfg.JWT.Secret != "s3cret" {
		t.Errorf("expected JWT_SECRET override, got %q", cfg.JWT.Secret)
	}
	if cfg.MinIO.Bucket != "site-files" {
		t.Errorf("expected MINIO_BUCKET override, got %q", cfg.MinIO.Bucket)
	}

	if got := cfg.Server.AllowedOrigins; len(got) != 2 || got[1] != "https://b.example.com" {
		t.Errorf("expected two allowed origins, got %v", got)
	}

	want := "host=db.internal port=6543 user=sitestock password= dbname=sitestock sslmode=disable"
	if got := cfg.Database.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}
