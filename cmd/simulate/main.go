// Command simulate plays levels headless with scripted shots and prints one
// result line per level.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/milk9111/bombbreaker/game"
	"github.com/milk9111/bombbreaker/prefabs"
	"golang.org/x/sync/errgroup"
)

type config struct {
	levels   []string
	shots    []game.Shot
	seed     uint64
	maxTicks int
	parallel int
	json     bool
}

// record is the JSON form of one level's outcome.
type record struct {
	RunID string `json:"run_id"`
	Seed  uint64 `json:"seed"`
	game.Result
	Error string `json:"error,omitempty"`
}

func main() {
	levels := flag.String("levels", "", "comma separated level names (default: every level)")
	shots := flag.String("shots", "", "comma separated angle:power shots, cycled (default: one lob)")
	seed := flag.Uint64("seed", 1, "random seed")
	maxTicks := flag.Int("ticks", 60*60*10, "give up on a level after this many ticks")
	parallel := flag.Int("parallel", 4, "levels simulated at once")
	asJSON := flag.Bool("json", false, "print JSON lines and log as JSON")
	verbose := flag.Bool("v", false, "debug logging")
	embedded := flag.Bool("embedded", false, "ignore prefab files on disk")
	flag.Parse()

	runID := uuid.NewString()
	slog.SetDefault(newLogger(os.Stderr, *asJSON, *verbose).With("run_id", runID))

	if *embedded {
		prefabs.DiskRoot = ""
	}

	cfg := config{seed: *seed, maxTicks: *maxTicks, parallel: *parallel, json: *asJSON}
	var err error
	if cfg.shots, err = game.ParseShots(*shots); err != nil {
		log.Fatal(err)
	}
	if cfg.levels, err = levelList(*levels); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	records, err := run(ctx, cfg, runID)
	if err != nil {
		stop()
		log.Fatal(err)
	}
	if err := write(os.Stdout, records, cfg.json); err != nil {
		stop()
		log.Fatal(err)
	}
}

func newLogger(w io.Writer, asJSON, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func levelList(flagValue string) ([]string, error) {
	if strings.TrimSpace(flagValue) == "" {
		return prefabs.LevelNames()
	}
	var names []string
	for _, name := range strings.Split(flagValue, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// run simulates every level, at most cfg.parallel at a time. A level that
// fails to load or hits the tick limit is reported in its record; only
// cancellation aborts the run.
func run(ctx context.Context, cfg config, runID string) ([]record, error) {
	opts, err := game.LoadOptions(cfg.seed)
	if err != nil {
		return nil, err
	}

	records := make([]record, len(cfg.levels))
	g, ctx := errgroup.WithContext(ctx)
	if cfg.parallel > 0 {
		g.SetLimit(cfg.parallel)
	}
	for i, name := range cfg.levels {
		g.Go(func() error {
			start := time.Now()
			res, err := simulate(ctx, name, opts, cfg)
			records[i] = record{RunID: runID, Seed: cfg.seed, Result: res}
			if err != nil {
				if ctx.Err() != nil {
					return err
				}
				records[i].Error = err.Error()
				slog.Warn("level failed", "level", name, "err", err)
				return nil
			}
			slog.Debug("level simulated", "level", name, "outcome", res.Status, "elapsed", time.Since(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func simulate(ctx context.Context, name string, opts game.Options, cfg config) (game.Result, error) {
	s, err := game.LoadSession(name, opts)
	if err != nil {
		return game.Result{Level: name}, err
	}
	return s.Play(ctx, cfg.shots, cfg.maxTicks)
}

func write(w io.Writer, records []record, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		for _, r := range records {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range records {
		line := r.Result.String()
		if r.Error != "" {
			line += " error=" + r.Error
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
