// Package cli implements the non-server subcommands of the klotho binary.
// Every subcommand prints JSON on stdout, except export which prints YAML.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/klotho/internal/logger"
	"github.com/MrSnakeDoc/klotho/internal/repository"
	"github.com/MrSnakeDoc/klotho/internal/storage"
)

// ErrUsage is returned for malformed command lines.
var ErrUsage = errors.New("usage error")

// Env carries the dependencies and streams shared by all subcommands.
type Env struct {
	Repo    repository.BookmarkRepository
	Storage storage.Storage
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Log     logger.Logger
}

type command struct {
	usage string
	run   func(ctx context.Context, env Env, args []string) error
}

var commands = map[string]command{
	"register": {usage: "register --title T [--url U] [--description D]", run: runRegister},
	"update":   {usage: "update <id> [--title T] [--url U] [--description D]", run: runUpdate},
	"delete":   {usage: "delete <id>", run: runDelete},
	"fetch":    {usage: "fetch <id>", run: runFetch},
	"list":     {usage: "list [--since TIME] [--until TIME] [--desc]", run: runList},
	"import":   {usage: "import --file PATH|-", run: runImport},
	"export":   {usage: "export [--since TIME] [--until TIME] [--file PATH]", run: runExport},
	"attach":   {usage: "attach --file PATH [--ext .EXT]", run: runAttach},
	"detach":   {usage: "detach <key>", run: runDetach},
	"path":     {usage: "path <key>", run: runPath},
}

// Known reports whether name is a subcommand handled by Run.
func Known(name string) bool {
	_, ok := commands[name]
	return ok
}

// Run executes args[0] with the remaining arguments.
func Run(ctx context.Context, env Env, args []string) error {
	if len(args) == 0 {
		Usage(env.Stderr)
		return ErrUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		Usage(env.Stderr)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	if env.Log == nil {
		env.Log = logger.Nop()
	}
	return cmd.run(ctx, env, args[1:])
}

// Usage prints the list of subcommands.
func Usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "Usage: klotho [serve]")
	for _, name := range names {
		fmt.Fprintf(w, "       klotho %s\n", commands[name].usage)
	}
}

func newFlagSet(name string, env Env) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	return fs
}

// parse accepts flags before or after a leading positional argument,
// so both "update 3 --title x" and "update --title x 3" work.
func parse(fs *flag.FlagSet, args []string, positional int) ([]string, error) {
	var pos []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUsage, err)
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		pos = append(pos, args[0])
		args = args[1:]
	}
	if len(pos) != positional {
		return nil, fmt.Errorf("%w: %s expects %d argument(s), got %d", ErrUsage, fs.Name(), positional, len(pos))
	}
	return pos, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid bookmark id %q", ErrUsage, raw)
	}
	return id, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// optionalString tracks whether a string flag was given at all.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(v string) error {
	o.value, o.set = v, true
	return nil
}
