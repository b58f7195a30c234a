package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/aligner/component"
	"github.com/kbukum/aligner/logger"
)

type cachedWords struct {
	Language string   `json:"language"`
	Words    []string `json:"words"`
}

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)
	client, err := New(Config{Enabled: true, Addr: mini.Addr()}, logger.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client, mini
}

func TestTypedStore_SaveLoadDelete(t *testing.T) {
	client, mini := newTestClient(t)
	store := NewTypedStore[cachedWords](client, "words")
	ctx := context.Background()

	in := cachedWords{Language: "en", Words: []string{"hello", "world"}}
	if err := store.Save(ctx, "replicate:en:abc", &in, 0); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !mini.Exists("words:replicate:en:abc") {
		t.Fatal("expected prefixed key in redis")
	}

	got, err := store.Load(ctx, "replicate:en:abc")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil || got.Language != "en" || len(got.Words) != 2 || got.Words[1] != "world" {
		t.Errorf("unexpected value %+v", got)
	}

	if err := store.Delete(ctx, "replicate:en:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err = store.Load(ctx, "replicate:en:abc")
	if err != nil || got != nil {
		t.Errorf("expected (nil, nil) after delete, got (%v, %v)", got, err)
	}
}

func TestTypedStore_TTL(t *testing.T) {
	client, mini := newTestClient(t)
	store := NewTypedStore[cachedWords](client, "words")
	ctx := context.Background()

	if err := store.Save(ctx, "k", &cachedWords{Language: "de"}, time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if ttl := mini.TTL("words:k"); ttl != time.Hour {
		t.Errorf("ttl = %s, want 1h", ttl)
	}

	mini.FastForward(2 * time.Hour)
	got, err := store.Load(ctx, "k")
	if err != nil || got != nil {
		t.Errorf("expected expiry, got (%v, %v)", got, err)
	}
}

func TestTypedStore_CorruptValue(t *testing.T) {
	client, mini := newTestClient(t)
	store := NewTypedStore[cachedWords](client, "")
	_ = mini.Set("k", "{not json")

	if _, err := store.Load(context.Background(), "k"); err == nil {
		t.Error("expected unmarshal error")
	}
}

func TestClient_GetMissing(t *testing.T) {
	client, _ := newTestClient(t)
	if _, err := client.Get(context.Background(), "absent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestNew_Disabled(t *testing.T) {
	if _, err := New(Config{}, logger.Nop()); err == nil {
		t.Error("expected error for disabled config")
	}
}

func TestComponent_Lifecycle(t *testing.T) {
	mini := miniredis.RunT(t)
	c, err := NewComponent(Config{Enabled: true, Addr: mini.Addr()}, logger.Nop())
	if err != nil {
		t.Fatalf("NewComponent: %v", err)
	}
	ctx := context.Background()

	if h := c.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("before start: %+v", h)
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("after start: %+v", h)
	}

	mini.Close()
	if h := c.Health(ctx); h.Status != component.StatusDegraded {
		t.Errorf("after redis went away: %+v", h)
	}
	if err := c.Stop(ctx); err != nil {
		t.Errorf("Stop: %v", err)
	}
}

func TestComponent_StartsDegradedWithoutServer(t *testing.T) {
	mini := miniredis.RunT(t)
	addr := mini.Addr()
	mini.Close()

	c, err := NewComponent(Config{Enabled: true, Addr: addr, DialTimeout: 100 * time.Millisecond, MaxRetries: 1}, logger.Nop())
	if err != nil {
		t.Fatalf("NewComponent: %v", err)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("an unreachable cache must not fail startup: %v", err)
	}
	if h := c.Health(context.Background()); h.Status != component.StatusDegraded {
		t.Errorf("health = %+v, want degraded", h)
	}
}

func TestNewComponent_Disabled(t *testing.T) {
	if _, err := NewComponent(Config{}, logger.Nop()); err == nil {
		t.Error("expected error for disabled config")
	}
}
