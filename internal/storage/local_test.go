package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var keyPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\.txt$`)

func newTestLocal(t *testing.T) *LocalFilesystem {
	t.Helper()
	fs, err := NewLocalFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFilesystem() error = %v", err)
	}
	return fs
}

func TestNewLocalFilesystemInvalid(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{name: "missing directory", path: filepath.Join(dir, "missing")},
		{name: "regular file", path: file},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLocalFilesystem(tt.path)
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("NewLocalFilesystem(%s) error = %v, want invalid configuration", tt.path, err)
			}
		})
	}
}

func TestLocalStoreLoadRemove(t *testing.T) {
	fs := newTestLocal(t)
	ctx := context.Background()

	key, err := fs.Store(ctx, []byte("Hello"), ".txt")
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if !keyPattern.MatchString(key) {
		t.Errorf("Store() key = %q, want <uuid>.txt", key)
	}

	path, err := fs.Path(ctx, key)
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	if path != filepath.Join(fs.BaseDir(), key) {
		t.Errorf("Path() = %q, want it inside %s", path, fs.BaseDir())
	}
	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read blob: %v", err)
	}
	if string(onDisk) != "Hello" {
		t.Errorf("blob contents = %q, want Hello", onDisk)
	}

	loaded, err := fs.Load(ctx, key)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !bytes.Equal(loaded, []byte("Hello")) {
		t.Errorf("Load() = %q, want Hello", loaded)
	}

	if err := fs.Remove(ctx, key); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := fs.Load(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() after remove error = %v, want not found", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("blob still on disk after remove: %v", err)
	}
}

func TestLocalStoreWithoutExtension(t *testing.T) {
	fs := newTestLocal(t)

	key, err := fs.Store(context.Background(), []byte{0, 1, 2}, "")
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if strings.Contains(key, ".") || len(key) != 36 {
		t.Errorf("Store() key = %q, want bare uuid", key)
	}
}

func TestLocalStoreRejectsSeparatorsInExtension(t *testing.T) {
	fs := newTestLocal(t)

	for _, ext := range []string{"/../../escape", `\..\x`} {
		_, err := fs.Store(context.Background(), []byte("x"), ext)
		if !errors.Is(err, ErrCannotWrite) {
			t.Errorf("Store(ext=%q) error = %v, want cannot write", ext, err)
		}
	}
}

func TestLocalRemoveMissing(t *testing.T) {
	fs := newTestLocal(t)

	err := fs.Remove(context.Background(), "0d5f3c1e-0000-4000-8000-000000000000.txt")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Remove() error = %v, want not found", err)
	}
}

func TestLocalPathTraversal(t *testing.T) {
	fs := newTestLocal(t)
	ctx := context.Background()

	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "parent segments", key: "../../etc/passwd", want: "passwd"},
		{name: "absolute path", key: "/etc/shadow", want: "shadow"},
		{name: "backslashes", key: `..\..\boot.ini`, want: "boot.ini"},
		{name: "trailing slash", key: "a/b/", want: "b"},
		{name: "plain key", key: "abc.txt", want: "abc.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fs.Path(ctx, tt.key)
			if err != nil {
				t.Fatalf("Path(%q) error = %v", tt.key, err)
			}
			if got != filepath.Join(fs.BaseDir(), tt.want) {
				t.Errorf("Path(%q) = %q, want %q", tt.key, got, filepath.Join(fs.BaseDir(), tt.want))
			}
			if filepath.Dir(got) != fs.BaseDir() {
				t.Errorf("Path(%q) escaped base dir: %q", tt.key, got)
			}
		})
	}
}

func TestLocalMalformedKeys(t *testing.T) {
	fs := newTestLocal(t)
	ctx := context.Background()

	for _, key := range []string{"", ".", "..", "../..", "/", "a/.."} {
		t.Run(key, func(t *testing.T) {
			if _, err := fs.Path(ctx, key); !errors.Is(err, ErrCannotWrite) {
				t.Errorf("Path(%q) error = %v, want cannot write", key, err)
			}
			if err := fs.Remove(ctx, key); !errors.Is(err, ErrCannotWrite) {
				t.Errorf("Remove(%q) error = %v, want cannot write", key, err)
			}
		})
	}
}

func TestLocalRemoveDoesNotEscape(t *testing.T) {
	outer := t.TempDir()
	base := filepath.Join(outer, "blobs")
	if err := os.Mkdir(base, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	victim := filepath.Join(outer, "victim.txt")
	if err := os.WriteFile(victim, []byte("keep me"), 0o644); err != nil {
		t.Fatalf("write victim: %v", err)
	}

	fs, err := NewLocalFilesystem(base)
	if err != nil {
		t.Fatalf("NewLocalFilesystem() error = %v", err)
	}

	if err := fs.Remove(context.Background(), "../victim.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove() error = %v, want not found inside base dir", err)
	}
	if _, err := os.Stat(victim); err != nil {
		t.Errorf("file outside base dir was touched: %v", err)
	}
}

func TestLocalStoreAfterBaseDirRemoved(t *testing.T) {
	base := filepath.Join(t.TempDir(), "blobs")
	if err := os.Mkdir(base, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	fs, err := NewLocalFilesystem(base)
	if err != nil {
		t.Fatalf("NewLocalFilesystem() error = %v", err)
	}
	if err := os.Remove(base); err != nil {
		t.Fatalf("remove base: %v", err)
	}

	if _, err := fs.Store(context.Background(), []byte("x"), ".txt"); !errors.Is(err, ErrCannotWrite) {
		t.Errorf("Store() error = %v, want cannot write", err)
	}
}
