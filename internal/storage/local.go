package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// LocalFilesystem keeps one file per blob in a flat base directory.
type LocalFilesystem struct {
	baseDir string
}

var _ Storage = (*LocalFilesystem)(nil)

// NewLocalFilesystem checks once that baseDir exists and is a directory.
// Later calls do not re-check: a directory removed afterwards surfaces as
// write-class errors.
func NewLocalFilesystem(baseDir string) (*LocalFilesystem, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, newError(KindInvalidConfiguration, fmt.Errorf("resolve %s: %w", baseDir, err))
	}

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, newError(KindInvalidConfiguration,
			fmt.Errorf("path %s is not a directory or accessible", abs))
	}

	return &LocalFilesystem{baseDir: abs}, nil
}

// BaseDir returns the absolute directory blobs are written to.
func (l *LocalFilesystem) BaseDir() string {
	return l.baseDir
}

func (l *LocalFilesystem) Store(ctx context.Context, data []byte, ext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", newError(KindOther, err)
	}

	key, err := newKey(ext)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(filepath.Join(l.baseDir, key), data, 0o644); err != nil {
		if errors.Is(err, syscall.ENOSPC) {
			return "", newError(KindOutOfSpace, err)
		}
		return "", newError(KindCannotWrite, err)
	}
	return key, nil
}

func (l *LocalFilesystem) Path(ctx context.Context, key string) (string, error) {
	name, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.baseDir, name), nil
}

func (l *LocalFilesystem) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, newError(KindOther, err)
	}

	path, err := l.Path(ctx, key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newError(KindNotFound, err)
		}
		return nil, newError(KindOther, err)
	}
	return data, nil
}

func (l *LocalFilesystem) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return newError(KindOther, err)
	}

	path, err := l.Path(ctx, key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newError(KindNotFound, err)
		}
		return newError(KindCannotWrite, err)
	}
	return nil
}
