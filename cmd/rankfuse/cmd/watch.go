package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/rankfuse/internal/config"
	rferrors "github.com/Aman-CERP/rankfuse/internal/errors"
	"github.com/Aman-CERP/rankfuse/internal/output"
	"github.com/Aman-CERP/rankfuse/internal/rankfile"
	"github.com/Aman-CERP/rankfuse/internal/watch"
	"github.com/Aman-CERP/rankfuse/pkg/rbc"
)

// watchOptions extends the fusion flags with watch-specific ones.
type watchOptions struct {
	fuseOptions
	debounce time.Duration
}

func newWatchCmd() *cobra.Command {
	var opts watchOptions

	cmd := &cobra.Command{
		Use:   "watch [files...]",
		Short: "Re-fuse rankings whenever an input file changes",
		Long: `Watch ranking files and re-fuse on every change.

The fused ranking is printed once at startup and again each time a
watched file is written. Rapid bursts of file events, like an editor
writing a temp file and renaming it over the original, are coalesced
within the debounce window so each save triggers one re-fusion.

Inline --ranking lists are fused alongside the files but are fixed for
the lifetime of the watch. Runs until interrupted.`,
		Example: `  rankfuse watch systemA.txt systemB.txt
  rankfuse watch -p 0.7 --top 5 *.ranks
  rankfuse watch --debounce 1s --format json -o fused.json systemA.txt systemB.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, args, opts)
		},
	}

	addFusionFlags(cmd, &opts.fuseOptions)
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 300*time.Millisecond, "How long to coalesce file events before re-fusing")

	return cmd
}

// watchSession carries what a running watch needs to re-fuse on change.
type watchSession struct {
	cmd      *cobra.Command
	cfg      *config.Config
	cache    *rankfile.Cache
	files    []string
	inline   []rankfile.Ranking
	fuseOpts []rbc.Option
	output   string
}

func runWatch(ctx context.Context, cmd *cobra.Command, args []string, opts watchOptions) error {
	cfg := *rootConfig()
	applyFusionFlags(cmd, &cfg, opts.fuseOptions)

	if err := checkFormat(cfg.Format); err != nil {
		return err
	}

	debounce := cfg.DebounceDuration()
	if cmd.Flags().Changed("debounce") {
		debounce = opts.debounce
	}
	if debounce <= 0 {
		return rferrors.New(rferrors.ErrCodeConfigInvalid,
			fmt.Sprintf("debounce must be positive, got %s", debounce), nil)
	}

	fuseOpts, err := fusionOptions(opts.weights, cfg.Concurrency)
	if err != nil {
		return err
	}

	watcher, err := watch.New(args, watch.Options{DebounceWindow: debounce})
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return rferrors.New(rferrors.ErrCodeFileNotFound, err.Error(), err).
				WithSuggestion("check the ranking file paths")
		}
		return rferrors.Wrap(rferrors.ErrCodeInternal, err)
	}
	defer func() { _ = watcher.Stop() }()

	session := &watchSession{
		cmd:      cmd,
		cfg:      &cfg,
		cache:    rankfile.NewCache(0),
		files:    args,
		inline:   inlineRankings(opts.rankings),
		fuseOpts: fuseOpts,
		output:   opts.output,
	}

	// The first fusion validates the inputs; failures here are fatal,
	// before any watching starts.
	if err := session.fuseAndRender(); err != nil {
		return err
	}

	out := output.New(cmd.OutOrStdout())
	if session.output == "" {
		out.Newline()
	}
	out.Statusf("👀", "Watching %d file(s), debounce %s. Press Ctrl-C to stop.", len(args), debounce)

	slog.Info("watch_started",
		slog.Int("files", len(args)),
		slog.Duration("debounce", debounce))

	runErr := make(chan error, 1)
	go func() { runErr <- watcher.Run(ctx) }()

	eventsCh := watcher.Events()
	errorsCh := watcher.Errors()

	for {
		select {
		case events, ok := <-eventsCh:
			if !ok {
				eventsCh = nil
				continue
			}
			for _, ev := range events {
				slog.Info("watch_event",
					slog.String("path", ev.Path),
					slog.String("op", ev.Operation.String()))
			}
			if session.output == "" {
				out.Newline()
			}
			if err := session.fuseAndRender(); err != nil {
				// A save can race the reload (file truncated or mid-write);
				// keep watching and report instead of exiting.
				slog.Warn("watch_refused", slog.String("error", err.Error()))
				out.Warningf("fusion skipped: %v", err)
			}

		case werr, ok := <-errorsCh:
			if !ok {
				errorsCh = nil
				continue
			}
			slog.Warn("watch_error", slog.String("error", werr.Error()))

		case err := <-runErr:
			if err != nil && !errors.Is(err, context.Canceled) {
				return rferrors.Wrap(rferrors.ErrCodeInternal, err)
			}
			return nil
		}
	}
}

// fuseAndRender reloads the inputs, fuses them, and writes the result.
// Unchanged files are served from the cache by their mtime+size
// fingerprint, so a burst touching one file re-parses only that file.
func (s *watchSession) fuseAndRender() error {
	rankings := make([]rankfile.Ranking, 0, len(s.files)+len(s.inline))
	for _, path := range s.files {
		r, err := s.cache.Get(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return rferrors.New(rferrors.ErrCodeFileNotFound, err.Error(), err).
					WithSuggestion("check the ranking file paths")
			}
			return rferrors.New(rferrors.ErrCodeFileRead, err.Error(), err)
		}
		rankings = append(rankings, r)
	}
	rankings = append(rankings, s.inline...)

	lists := make([][]string, len(rankings))
	for i, r := range rankings {
		lists[i] = r.Items
	}

	results, err := rbc.Fuse(lists, s.cfg.Persistence, s.fuseOpts...)
	if err != nil {
		return mapFusionError(err)
	}
	slog.Info("fusion_completed", slog.Int("items", len(results)))

	w := s.cmd.OutOrStdout()
	if s.output != "" {
		f, err := os.Create(s.output)
		if err != nil {
			return rferrors.New(rferrors.ErrCodeOutputWrite, err.Error(), err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if err := renderResults(w, s.cfg, results, len(lists)); err != nil {
		return rferrors.New(rferrors.ErrCodeOutputWrite, err.Error(), err)
	}
	return nil
}
