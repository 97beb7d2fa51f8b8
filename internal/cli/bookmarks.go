package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/klotho/internal/domain"
	"github.com/MrSnakeDoc/klotho/internal/logger"
)

type contentFlags struct {
	title, url, description optionalString
}

func (c *contentFlags) bind(fs *flag.FlagSet) {
	fs.Var(&c.title, "title", "bookmark title")
	fs.Var(&c.title, "t", "shorthand for --title")
	fs.Var(&c.url, "url", "page URL")
	fs.Var(&c.url, "u", "shorthand for --url")
	fs.Var(&c.description, "description", "description in CommonMark")
	fs.Var(&c.description, "d", "shorthand for --description")
}

func runRegister(ctx context.Context, env Env, args []string) error {
	var c contentFlags
	fs := newFlagSet("register", env)
	c.bind(fs)
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	req := domain.NewCreateRequest(c.title.value)
	if c.url.set {
		req = req.WithURL(c.url.value)
	}
	if c.description.set {
		req = req.WithDescription(c.description.value)
	}

	b, err := env.Repo.Create(ctx, req)
	if err != nil {
		return err
	}
	env.Log.Debug("bookmark registered", logger.Int64("id", b.ID))
	return printJSON(env.Stdout, b)
}

// runUpdate overwrites only the fields given on the command line; the
// others keep their stored value.
func runUpdate(ctx context.Context, env Env, args []string) error {
	var c contentFlags
	fs := newFlagSet("update", env)
	c.bind(fs)
	pos, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	id, err := parseID(pos[0])
	if err != nil {
		return err
	}

	current, err := env.Repo.Fetch(ctx, id)
	if err != nil {
		return err
	}
	req := domain.UpdateFrom(current)
	if c.title.set {
		req = req.WithTitle(c.title.value)
	}
	if c.url.set {
		req = req.WithURL(c.url.value)
	}
	if c.description.set {
		req = req.WithDescription(c.description.value)
	}

	b, err := env.Repo.Update(ctx, req)
	if err != nil {
		return err
	}
	return printJSON(env.Stdout, b)
}

func runDelete(ctx context.Context, env Env, args []string) error {
	id, err := idArg("delete", env, args)
	if err != nil {
		return err
	}
	b, err := env.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	return printJSON(env.Stdout, b)
}

func runFetch(ctx context.Context, env Env, args []string) error {
	id, err := idArg("fetch", env, args)
	if err != nil {
		return err
	}
	b, err := env.Repo.Fetch(ctx, id)
	if err != nil {
		return err
	}
	return printJSON(env.Stdout, b)
}

func idArg(name string, env Env, args []string) (int64, error) {
	pos, err := parse(newFlagSet(name, env), args, 1)
	if err != nil {
		return 0, err
	}
	return parseID(pos[0])
}

type rangeFlags struct {
	since, until optionalString
	desc         bool
}

func (r *rangeFlags) bind(fs *flag.FlagSet) {
	fs.Var(&r.since, "since", "lower bound on creation time (RFC3339 or YYYY-MM-DD)")
	fs.Var(&r.until, "until", "upper bound on creation time (RFC3339 or YYYY-MM-DD)")
}

func (r *rangeFlags) toRange() (domain.Range, error) {
	rng := domain.Range{Descending: r.desc}
	var err error
	if r.since.set {
		if rng.Since, err = parseTime(r.since.value); err != nil {
			return rng, err
		}
	}
	if r.until.set {
		if rng.Until, err = parseTime(r.until.value); err != nil {
			return rng, err
		}
	}
	return rng, nil
}

// parseTime accepts RFC3339 timestamps or bare dates, read as midnight UTC.
func parseTime(raw string) (*time.Time, error) {
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: invalid time %q, expected RFC3339 or YYYY-MM-DD", ErrUsage, raw)
}

func runList(ctx context.Context, env Env, args []string) error {
	var r rangeFlags
	fs := newFlagSet("list", env)
	r.bind(fs)
	fs.BoolVar(&r.desc, "desc", false, "newest first")
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
	if list == nil {
		list = []domain.Bookmark{}
	}
	return printJSON(env.Stdout, list)
}
