package cache

import (
	"context"
	"strconv"
	"testing"

	"github.com/shopcore-next/internal/config"
	"github.com/shopcore-next/internal/models"

	"github.com/alicebob/miniredis/v2"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if Enabled() || Client() != nil {
		t.Fatalf("cache should be disabled")
	}
	ctx := context.Background()
	if err := SetUserAuthState(ctx, BuildUserAuthState(&models.User{ID: 1, Status: "active"})); err != nil {
		t.Fatalf("set should be noop: %v", err)
	}
	state, hit, err := GetUserAuthState(ctx, 1)
	if err != nil || hit || state != nil {
		t.Fatalf("disabled cache must miss, got state=%v hit=%v err=%v", state, hit, err)
	}
	if err := Ping(ctx); err != nil {
		t.Fatalf("ping should be noop: %v", err)
	}
}

func TestBuildKeyUsesPrefix(t *testing.T) {
	redisPrefix = "shop"
	if got := BuildKey(" auth:user:1 "); got != "shop:auth:user:1" {
		t.Fatalf("unexpected key %s", got)
	}
	if got := BuildKey(""); got != "shop" {
		t.Fatalf("empty key should map to prefix, got %s", got)
	}
}

func TestBuildAdminAuthState(t *testing.T) {
	state := BuildAdminAuthState(&models.Admin{ID: 3, Username: "root", TokenVersion: 2, IsSuper: true})
	if state.AdminID != 3 || state.TokenVersion != 2 || !state.IsSuper {
		t.Fatalf("unexpected state %+v", state)
	}
	if BuildAdminAuthState(nil) != nil {
		t.Fatalf("nil admin should build nil state")
	}
}

func TestAuthStateRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	if err != nil {
		t.Fatalf("parse port failed: %v", err)
	}
	if err := InitRedis(&config.RedisConfig{Enabled: true, Host: mr.Host(), Port: port, Prefix: "shoptest"}); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	defer Close()

	ctx := context.Background()
	if err := Ping(ctx); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	if err := SetUserAuthState(ctx, BuildUserAuthState(&models.User{ID: 5, Status: "active", TokenVersion: 3})); err != nil {
		t.Fatalf("set user state failed: %v", err)
	}
	if !mr.Exists("shoptest:auth:user:5") {
		t.Fatalf("user state should be stored under prefixed key")
	}
	if ttl := mr.TTL("shoptest:auth:user:5"); ttl != authStateCacheTTL {
		t.Fatalf("unexpected ttl %s", ttl)
	}
	state, hit, err := GetUserAuthState(ctx, 5)
	if err != nil || !hit || state.TokenVersion != 3 || state.Status != "active" {
		t.Fatalf("unexpected user state %+v hit=%v err=%v", state, hit, err)
	}

	if err := Del(ctx, "auth:user:5"); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, hit, _ := GetUserAuthState(ctx, 5); hit {
		t.Fatalf("deleted state must miss")
	}

	mr.Set("shoptest:auth:admin:9", "{broken")
	if _, _, err := GetAdminAuthState(ctx, 9); err == nil {
		t.Fatalf("corrupt payload should return error")
	}
}
