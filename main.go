//go:build !lambda

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
)

const usage = `Usage: housing-optimizer [flags] [catalog] [policy.yaml]

Positional arguments:
  catalog       NPC catalog, JSON or wiki table (default data/npcs.json)
  policy.yaml   Placement policy (default: built-in restrictions)

Environment:
  HOUSING_MAX_FRONTIER, HOUSING_TIME_LIMIT, HOUSING_VERBOSE, HOUSING_PROGRESS_EVERY

Flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns its exit code. Deferred cleanup, the
// archive included, completes before main exits.
func run(args []string, stdout, stderr io.Writer) int {
	fail := func(err error) int {
		fmt.Fprintf(stderr, "error: %v\n", err)
		if errors.Is(err, ErrInvalidInput) {
			return 2
		}
		return 1
	}

	cfg, err := LoadConfig()
	if err != nil {
		return fail(err)
	}

	fs := flag.NewFlagSet("housing-optimizer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	jsonOut := fs.Bool("json", false, "Output results as JSON")
	verbose := fs.Bool("verbose", cfg.Verbose, "Print detailed search progress to stderr")
	quiet := fs.Bool("quiet", false, "Do not print the progress table")
	dbPath := fs.String("db", "", "Archive solved runs in this sqlite file and reuse them")
	timeLimit := fs.Duration("time-limit", cfg.TimeLimit, "Stop after this long and report the best partial layout")
	maxFrontier := fs.Int("max-frontier", cfg.MaxFrontier, "Cap on queued states (0 = unbounded)")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	cfg.Verbose = *verbose
	cfg.TimeLimit = *timeLimit
	cfg.MaxFrontier = *maxFrontier

	if fs.NArg() > 2 {
		fs.Usage()
		return 1
	}
	catalogPath := "data/npcs.json"
	if fs.NArg() > 0 {
		catalogPath = fs.Arg(0)
	}

	cat, err := LoadCatalog(catalogPath)
	if err != nil {
		return fail(err)
	}
	pol := DefaultPolicy()
	if fs.NArg() > 1 {
		if pol, err = LoadPolicy(fs.Arg(1)); err != nil {
			return fail(err)
		}
	}
	fmt.Fprintf(stderr, "Loaded %d npcs from %s\n", cat.Len(), catalogPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var archive *Archive
	fp := Fingerprint(cat, pol)
	if *dbPath != "" {
		if archive, err = OpenArchive(*dbPath); err != nil {
			return fail(err)
		}
		defer func() {
			if err := archive.Close(); err != nil {
				fmt.Fprintf(stderr, "close archive: %v\n", err)
			}
		}()
		if res, ok, err := archive.Lookup(ctx, fp); err != nil {
			return fail(err)
		} else if ok {
			fmt.Fprintf(stderr, "Reusing archived run %s\n", fp[:12])
			return printResult(stdout, res, *jsonOut, fail)
		}
	}

	opt, err := NewOptimizer(cat, pol, cfg)
	if err != nil {
		return fail(err)
	}
	if !*quiet {
		fmt.Fprintf(stderr, "%10s %10s %12s\n", "Time", "Happiness", "Queue size")
		opt.OnProgress = func(p Progress) {
			fmt.Fprintf(stderr, "%9.1fs %10.2f %12s\n", p.Elapsed.Seconds(), p.Happiness, humanize.Comma(int64(p.Frontier)))
		}
	}

	res, err := opt.Optimize(ctx)
	if errors.Is(err, ErrCanceled) || errors.Is(err, ErrTruncated) {
		fmt.Fprintf(stderr, "search stopped: %v\n", err)
		if code := printResult(stdout, res, *jsonOut, fail); code != 0 {
			return code
		}
		return 3
	}
	if err != nil {
		return fail(err)
	}

	if archive != nil {
		id, err := archive.Save(ctx, fp, res)
		if err != nil {
			return fail(err)
		}
		fmt.Fprintf(stderr, "Archived run %s\n", id)
	}
	return printResult(stdout, res, *jsonOut, fail)
}

func printResult(w io.Writer, res *Result, jsonOut bool, fail func(error) int) int {
	if jsonOut {
		if err := WriteJSON(w, res); err != nil {
			return fail(err)
		}
		return 0
	}
	fmt.Fprint(w, FormatResult(res))
	return 0
}
