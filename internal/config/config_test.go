// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"testing"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	// Clear environment and set only required var
	os.Clearenv()
	setEnv(t, "CANOPY_SESSION_SECRET", "test-secret-key-32-bytes-long!!!")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Check defaults
	if cfg.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("MongoURI = %q, want %q", cfg.MongoURI, "mongodb://localhost:27017")
	}
	if cfg.MongoDatabase != "canopy" {
		t.Errorf("MongoDatabase = %q, want %q", cfg.MongoDatabase, "canopy")
	}
	if cfg.ServerHost != "localhost" {
		t.Errorf("ServerHost = %q, want %q", cfg.ServerHost, "localhost")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want %q", cfg.Env, "development")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.PurgeRetentionDays != 30 {
		t.Errorf("PurgeRetentionDays = %d, want 30", cfg.PurgeRetentionDays)
	}
	if cfg.UseRedisSessions() {
		t.Error("UseRedisSessions() = true with no CANOPY_REDIS_URL set")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	customSecret := "custom-secret-key-32-bytes-long!"
	setEnv(t, "CANOPY_SESSION_SECRET", customSecret)
	setEnv(t, "CANOPY_MONGO_URI", "mongodb://db.internal:27017")
	setEnv(t, "CANOPY_MONGO_DB", "canopy_test")
	setEnv(t, "CANOPY_SERVER_HOST", "0.0.0.0")
	setEnv(t, "CANOPY_SERVER_PORT", "3000")
	setEnv(t, "CANOPY_ENV", "production")
	setEnv(t, "CANOPY_LOG_LEVEL", "debug")
	setEnv(t, "CANOPY_REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.SessionSecret != customSecret {
		t.Errorf("SessionSecret = %q, want %q", cfg.SessionSecret, customSecret)
	}
	if cfg.MongoURI != "mongodb://db.internal:27017" {
		t.Errorf("MongoURI = %q, want %q", cfg.MongoURI, "mongodb://db.internal:27017")
	}
	if cfg.MongoDatabase != "canopy_test" {
		t.Errorf("MongoDatabase = %q, want %q", cfg.MongoDatabase, "canopy_test")
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "0.0.0.0:3000")
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true for production env")
	}
	if !cfg.UseRedisSessions() {
		t.Error("UseRedisSessions() = false with CANOPY_REDIS_URL set")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() succeeded without CANOPY_SESSION_SECRET")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	os.Clearenv()
	setEnv(t, "CANOPY_SESSION_SECRET", "too-short")

	if _, err := Load(); err == nil {
		t.Fatal("Load() succeeded with a short session secret")
	}
}

func TestLoad_WeakSecret(t *testing.T) {
	os.Clearenv()
	setEnv(t, "CANOPY_SESSION_SECRET", "change-me-to-32-byte-secret-key!")

	if _, err := Load(); err == nil {
		t.Fatal("Load() succeeded with a known default secret")
	}
}

func TestAPISecret_Fallback(t *testing.T) {
	cfg := Config{SessionSecret: "session-secret"}
	if got := cfg.APISecret(); got != "session-secret" {
		t.Errorf("APISecret() = %q, want session secret fallback", got)
	}

	cfg.APITokenSecret = "api-secret"
	if got := cfg.APISecret(); got != "api-secret" {
		t.Errorf("APISecret() = %q, want %q", got, "api-secret")
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{"abcdefgh", false},
		{"abcDEF123", true},
		{"abc123!@#", true},
		{"ABCDEF123456", false},
		{"aB3!", true},
	}

	for _, tt := range tests {
		if got := hasMinimumEntropy(tt.secret); got != tt.want {
			t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.secret, got, tt.want)
		}
	}
}
