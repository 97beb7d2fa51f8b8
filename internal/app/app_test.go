package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/MrSnakeDoc/klotho/internal/cli"
	"github.com/MrSnakeDoc/klotho/internal/config"
	"github.com/MrSnakeDoc/klotho/internal/domain"
	"github.com/MrSnakeDoc/klotho/internal/logger"
	"github.com/MrSnakeDoc/klotho/internal/storage"
)

func setTestEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("KLOTHO_DB_PATH", filepath.Join(dir, "db", "klotho.db"))
	t.Setenv("KLOTHO_STORAGE_DIR", filepath.Join(dir, "blobs"))
	t.Setenv("KLOTHO_LOG_LEVEL", "error")
	t.Setenv("KLOTHO_PRETTY_LOG", "false")
	t.Setenv("KLOTHO_LISTEN_PORT", "127.0.0.1:0")
	t.Setenv("KLOTHO_CONNECT_TIMEOUT", "2s")
	t.Setenv("KLOTHO_RETRY_INTERVAL", "10ms")
	return dir
}

func TestRunMetaCommands(t *testing.T) {
	var out bytes.Buffer
	if err := Run(context.Background(), []string{"version"}, nil, &out, &out); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out.String(), "klotho ") {
		t.Errorf("version output = %q", out.String())
	}

	out.Reset()
	if err := Run(context.Background(), []string{"help"}, nil, &out, &out); err != nil {
		t.Fatalf("help: %v", err)
	}
	if !strings.Contains(out.String(), "register") {
		t.Errorf("help output = %q", out.String())
	}

	if err := Run(context.Background(), []string{"nope"}, nil, &out, &out); !errors.Is(err, cli.ErrUsage) {
		t.Errorf("unknown command error = %v, want ErrUsage", err)
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	setTestEnv(t)
	t.Setenv("KLOTHO_DB_DRIVER", "postgres")

	err := Run(context.Background(), []string{"fetch", "1"}, nil, &bytes.Buffer{}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("error = %v, want invalid configuration", err)
	}
}

func TestRunSubcommand(t *testing.T) {
	setTestEnv(t)

	var out bytes.Buffer
	if err := Run(context.Background(), []string{"register", "--title", "Go"}, nil, &out, &bytes.Buffer{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	var b domain.Bookmark
	if err := json.Unmarshal(out.Bytes(), &b); err != nil || b.ID != 1 {
		t.Fatalf("register output = %s, %v", out.String(), err)
	}

	// A second process sees the same database.
	out.Reset()
	if err := Run(context.Background(), []string{"fetch", "1"}, nil, &out, &bytes.Buffer{}); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !strings.Contains(out.String(), `"title": "Go"`) {
		t.Errorf("fetch output = %s", out.String())
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	setTestEnv(t)
	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}

	a, err := New(context.Background(), cfg, logger.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

func TestNewWithRedisBackend(t *testing.T) {
	setTestEnv(t)
	mr := miniredis.RunT(t)
	t.Setenv("KLOTHO_STORAGE_BACKEND", "redis")
	t.Setenv("KLOTHO_REDIS_ADDR", mr.Addr())

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	a, err := New(context.Background(), cfg, logger.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	if _, ok := a.store.(*storage.Redis); !ok {
		t.Fatalf("store = %T, want *storage.Redis", a.store)
	}
	key, err := a.store.Store(context.Background(), []byte("blob"), ".bin")
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if !mr.Exists(cfg.RedisPrefix + key) {
		t.Errorf("key %q not written to redis", cfg.RedisPrefix+key)
	}
}
