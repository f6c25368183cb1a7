package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoginGuardRateLimit(t *testing.T) {
	ctx := context.Background()
	guard := NewLoginGuard(NewMemoryStore(), 2, 5, time.Minute)

	for i := 0; i < 2; i++ {
		if err := guard.Allow(ctx, "1.2.3.4", "Admin"); err != nil {
			t.Fatalf("attempt %d: unexpected error %v", i+1, err)
		}
	}
	if err := guard.Allow(ctx, "1.2.3.4", "admin"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited got %v", err)
	}
	if err := guard.Allow(ctx, "5.6.7.8", "admin"); err != nil {
		t.Fatalf("other ip should not be limited: %v", err)
	}
}

func TestLoginGuardLocksAfterFailures(t *testing.T) {
	ctx := context.Background()
	guard := NewLoginGuard(NewMemoryStore(), 100, 3, time.Minute)

	for i := 0; i < 3; i++ {
		if err := guard.RecordFailure(ctx, "admin"); err != nil {
			t.Fatalf("record failure: %v", err)
		}
	}
	if err := guard.Allow(ctx, "1.2.3.4", "ADMIN"); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked got %v", err)
	}
}

func TestLoginGuardResetClearsFailures(t *testing.T) {
	ctx := context.Background()
	guard := NewLoginGuard(NewMemoryStore(), 100, 2, time.Minute)

	if err := guard.RecordFailure(ctx, "admin"); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	if err := guard.Reset(ctx, "admin"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := guard.RecordFailure(ctx, "admin"); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	if err := guard.Allow(ctx, "1.2.3.4", "admin"); err != nil {
		t.Fatalf("expected no lock after reset, got %v", err)
	}
}

func TestMemoryStoreIncr(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for want := int64(1); want <= 3; want++ {
		got, err := store.Incr(ctx, "k", time.Minute)
		if err != nil {
			t.Fatalf("incr: %v", err)
		}
		if got != want {
			t.Fatalf("expected %d got %d", want, got)
		}
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if ok, _ := store.Exists(ctx, "k"); ok {
		t.Fatalf("expected key to be deleted")
	}
}
