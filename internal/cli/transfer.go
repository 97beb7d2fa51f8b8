package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/MrSnakeDoc/klotho/internal/domain"
	"github.com/MrSnakeDoc/klotho/internal/logger"
	"github.com/MrSnakeDoc/klotho/internal/sources/yamlfile"
)

// runImport creates one bookmark per entry of a YAML file. The whole file is
// validated before anything is written.
func runImport(ctx context.Context, env Env, args []string) error {
	fs := newFlagSet("import", env)
	file := fs.String("file", "", `YAML file to import, "-" for stdin`)
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("%w: import requires --file", ErrUsage)
	}

	loader := yamlfile.NewLoader(*file)
	var (
		doc yamlfile.Document
		err error
	)
	if *file == "-" {
		var data []byte
		if data, err = io.ReadAll(env.Stdin); err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		doc, err = loader.Parse(data)
	} else {
		doc, err = loader.Load()
	}
	if err != nil {
		return err
	}

	reqs, err := yamlfile.ToCreateRequests(doc)
	if err != nil {
		return err
	}

	created := make([]domain.Bookmark, 0, len(reqs))
	for _, req := range reqs {
		b, err := env.Repo.Create(ctx, req)
		if err != nil {
			return fmt.Errorf("import stopped after %d of %d bookmarks: %w", len(created), len(reqs), err)
		}
		created = append(created, b)
	}
	env.Log.Info("import finished", logger.Int("count", len(created)))
	return printJSON(env.Stdout, created)
}

func runExport(ctx context.Context, env Env, args []string) (err error) {
	var r rangeFlags
	fs := newFlagSet("export", env)
	r.bind(fs)
	file := fs.String("file", "", "destination file (default stdout)")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	rng, err := r.toRange()
	if err != nil {
		return err
	}

	list, err := env.Repo.FetchRange(ctx, rng)
	if err != nil {
		return err
	}

	out := env.Stdout
	if *file != "" && *file != "-" {
		f, createErr := os.Create(*file)
		if createErr != nil {
			return fmt.Errorf("create export file: %w", createErr)
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		out = f
	}
	return yamlfile.Write(out, list)
}
