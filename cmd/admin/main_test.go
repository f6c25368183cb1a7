package main

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"portfolio/internal/auth"
	"portfolio/internal/database"
	"portfolio/internal/repository"
)

func clearDatabaseEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DATABASE_URL", "DATABASE_HOST", "DATABASE_PORT", "POSTGRES_DB", "POSTGRES_USER", "POSTGRES_PASSWORD", "DATABASE_SSLMODE"} {
		t.Setenv(key, "")
	}
}

func TestLoadDatabaseConfigPrefersURL(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/site")

	cfg, err := loadDatabaseConfig(dbFlags{host: "ignored"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DSN() != "postgres://u:p@db:5432/site" {
		t.Fatalf("unexpected dsn %q", cfg.DSN())
	}
}

func TestLoadDatabaseConfigFlagsOverrideEnv(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("POSTGRES_DB", "env-db")
	t.Setenv("POSTGRES_USER", "env-user")
	t.Setenv("POSTGRES_PASSWORD", "env-pass")

	cfg, err := loadDatabaseConfig(dbFlags{name: "flag-db", port: 6543})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Name != "flag-db" || cfg.User != "env-user" || cfg.Port != 6543 || cfg.Host != "localhost" || cfg.SSLMode != "disable" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadDatabaseConfigRequiresCredentials(t *testing.T) {
	clearDatabaseEnv(t)
	if _, err := loadDatabaseConfig(dbFlags{name: "db"}); err == nil {
		t.Fatalf("expected error without user")
	}
	t.Setenv("DATABASE_PORT", "not-a-number")
	if _, err := loadDatabaseConfig(dbFlags{}); err == nil {
		t.Fatalf("expected error for bad port")
	}
}

func TestCreateAdmin(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	users := repository.NewAdminUserRepository(db)
	ctx := context.Background()

	password, err := createAdmin(ctx, users, "admin")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	user, err := users.FindByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("find admin: %v", err)
	}
	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		t.Fatalf("stored hash does not match printed password")
	}

	if _, err := createAdmin(ctx, users, "admin"); err == nil {
		t.Fatalf("expected duplicate username error")
	}
}

func TestGenerateRandomPassword(t *testing.T) {
	a, err := generateRandomPassword(0)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, _ := generateRandomPassword(24)
	if len(a) != 32 || a == b {
		t.Fatalf("unexpected passwords %q %q", a, b)
	}
}
