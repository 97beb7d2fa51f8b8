package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/MrSnakeDoc/klotho/internal/logger"
)

type attachResult struct {
	Key  string `json:"key"`
	Path string `json:"path"`
	Size int    `json:"size"`
}

// runAttach stores a file as a blob. The extension defaults to the file's own.
func runAttach(ctx context.Context, env Env, args []string) error {
	fs := newFlagSet("attach", env)
	file := fs.String("file", "", `file to store, "-" for stdin`)
	ext := fs.String("ext", "", "extension appended to the key (default: the file's)")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("%w: attach requires --file", ErrUsage)
	}

	var (
		data []byte
		err  error
	)
	if *file == "-" {
		data, err = io.ReadAll(env.Stdin)
	} else {
		data, err = os.ReadFile(*file)
		if *ext == "" {
			*ext = filepath.Ext(*file)
		}
	}
	if err != nil {
		return fmt.Errorf("read attachment: %w", err)
	}

	key, err := env.Storage.Store(ctx, data, *ext)
	if err != nil {
		return err
	}
	path, err := env.Storage.Path(ctx, key)
	if err != nil {
		return err
	}
	env.Log.Debug("attachment stored", logger.String("key", key))
	return printJSON(env.Stdout, attachResult{Key: key, Path: path, Size: len(data)})
}

func runDetach(ctx context.Context, env Env, args []string) error {
	pos, err := parse(newFlagSet("detach", env), args, 1)
	if err != nil {
		return err
	}
	if err := env.Storage.Remove(ctx, pos[0]); err != nil {
		return err
	}
	return printJSON(env.Stdout, map[string]string{"removed": pos[0]})
}

func runPath(ctx context.Context, env Env, args []string) error {
	pos, err := parse(newFlagSet("path", env), args, 1)
	if err != nil {
		return err
	}
	path, err := env.Storage.Path(ctx, pos[0])
	if err != nil {
		return err
	}
	return printJSON(env.Stdout, map[string]string{"key": pos[0], "path": path})
}
