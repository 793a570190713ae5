// Package main provides the CLI entrypoint for caster-planner.
//
// caster-planner resolves how every configured pair of Go types maps onto
// each other and prints the resulting plan graph:
//   - Loads Go packages (go/types) into a type graph
//   - Reads the YAML mapping file and validates it against the graph
//   - Plans every configured pair and reports mapping diagnostics
//
// Usage:
//
//	caster-planner [-mapping caster.yaml] [-watch] [-v] <package patterns...>
//	caster-planner schema
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"caster-planner/internal/analyze"
	"caster-planner/internal/diagnostic"
	"caster-planner/internal/mapping"
	"caster-planner/internal/plan"
)

// errMappingFailed is returned when a run reports error diagnostics.
var errMappingFailed = errors.New("mapping has errors")

// settleDelay collapses the burst of events editors produce on save.
const settleDelay = 100 * time.Millisecond

type cli struct {
	mapping  string
	patterns []string
	watch    bool
	verbose  bool
	maxDepth int

	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errMappingFailed) {
			fmt.Fprintln(os.Stderr, "caster-planner:", err)
		}

		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 && args[0] == "schema" {
		data, err := mapping.SchemaJSON()
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(stdout, string(data))

		return err
	}

	env, err := loadEnv()
	if err != nil {
		return err
	}

	c := &cli{stdout: stdout, stderr: stderr, maxDepth: env.MaxDepth}

	fs := flag.NewFlagSet("caster-planner", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&c.mapping, "mapping", env.Mapping, "path to the YAML mapping file")
	fs.BoolVar(&c.watch, "watch", false, "re-plan whenever the mapping file changes")
	fs.BoolVar(&c.verbose, "v", false, "print every diagnostic including infos")
	level := fs.String("log-level", env.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	c.patterns = fs.Args()
	if len(c.patterns) == 0 {
		c.patterns = []string{"./..."}
	}

	lvl, err := parseLevel(*level)
	if err != nil {
		return err
	}

	c.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: lvl}))

	if !c.watch {
		return c.once()
	}

	return c.watchLoop(ctx)
}

// once loads the packages and the mapping file, then plans every configured pair.
func (c *cli) once() error {
	graph, err := analyze.NewAnalyzer().LoadPackages(c.patterns...)
	if err != nil {
		return err
	}

	mf, err := mapping.LoadFile(c.mapping)
	if err != nil {
		return err
	}

	if c.maxDepth > 0 && mf.Options.MaxDepth == nil {
		mf.Options.MaxDepth = &c.maxDepth
	}

	diags := mapping.Validate(mf, graph)
	if diags.HasErrors() {
		c.report(diags)
		return errMappingFailed
	}

	cfg, buildDiags := mapping.Build(mf, graph)
	diags.Merge(*buildDiags)

	res, err := plan.NewPlanner(cfg, plan.WithLogger(c.logger)).Run()
	if err != nil {
		return err
	}

	diags.Merge(*res.Diagnostics)

	fmt.Fprint(c.stdout, plan.Dump(res))
	c.report(diags)

	if diags.HasErrors() {
		return errMappingFailed
	}

	return nil
}

func (c *cli) report(diags *diagnostic.Diagnostics) {
	for _, d := range diags.All() {
		if d.Severity == diagnostic.DiagnosticInfo && !c.verbose {
			continue
		}

		fmt.Fprintf(c.stderr, "%s: %s\n", d.Severity, d)
	}
}

// watchLoop plans once, then again after every change of the mapping file
// until ctx is done. Failed runs are reported and do not stop the loop.
func (c *cli) watchLoop(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Close()

	// Editors replace files on save, so the directory is watched instead.
	abs, err := filepath.Abs(c.mapping)
	if err != nil {
		return err
	}

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", c.mapping, err)
	}

	c.replan()

	var settle <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}

			c.logger.Debug("mapping file changed", "op", ev.Op.String())
			settle = time.After(settleDelay)

		case <-settle:
			settle = nil
			c.replan()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			c.logger.Warn("watcher error", "err", err)
		}
	}
}

func (c *cli) replan() {
	if err := c.once(); err != nil && !errors.Is(err, errMappingFailed) {
		c.logger.Error("planning failed", "err", err)
	}

	fmt.Fprintln(c.stdout, "---")
}
