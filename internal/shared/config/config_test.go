package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("OBJECT_STORE", "")
	t.Setenv("BCRYPT_COST", "")

	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("expected env dev, got %s", cfg.Env)
	}
	if cfg.JWTSecret != devJWTSecret {
		t.Fatalf("expected dev secret fallback, got %q", cfg.JWTSecret)
	}
	if cfg.JWTTTL != time.Hour {
		t.Fatalf("expected 1h token ttl, got %s", cfg.JWTTTL)
	}
	if cfg.ObjectStoreType != "local" {
		t.Fatalf("expected local store, got %s", cfg.ObjectStoreType)
	}
	if cfg.BcryptCost != defaultBcryptCost {
		t.Fatalf("expected bcrypt cost %d, got %d", defaultBcryptCost, cfg.BcryptCost)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("OBJECT_STORE", "MinIO")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("CORS_ALLOW_ORIGINS", " http://a.test , ,http://b.test")

	cfg := Load()
	if cfg.Env != "production" {
		t.Fatalf("expected production, got %s", cfg.Env)
	}
	if cfg.JWTSecret != "s3cret" {
		t.Fatalf("unexpected secret %q", cfg.JWTSecret)
	}
	if cfg.JWTTTL != 30*time.Minute {
		t.Fatalf("unexpected ttl %s", cfg.JWTTTL)
	}
	if cfg.ObjectStoreType != "minio" || !cfg.MinioUseSSL {
		t.Fatalf("unexpected minio settings: %s ssl=%v", cfg.ObjectStoreType, cfg.MinioUseSSL)
	}
	if cfg.MaxUploadBytes != 2048 {
		t.Fatalf("unexpected max upload %d", cfg.MaxUploadBytes)
	}
	if len(cfg.CORSAllowOrigin) != 2 || cfg.CORSAllowOrigin[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowOrigin)
	}
}

func TestProductionWithoutSecretLeavesItEmpty(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	cfg := Load()
	if cfg.JWTSecret != "" {
		t.Fatalf("expected no fallback secret in production, got %q", cfg.JWTSecret)
	}
}
