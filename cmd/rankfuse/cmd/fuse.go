package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/rankfuse/internal/config"
	rferrors "github.com/Aman-CERP/rankfuse/internal/errors"
	"github.com/Aman-CERP/rankfuse/internal/output"
	"github.com/Aman-CERP/rankfuse/internal/rankfile"
	"github.com/Aman-CERP/rankfuse/pkg/rbc"
)

// fuseOptions holds the CLI flags shared by fuse and watch.
type fuseOptions struct {
	rankings    []string // inline -r lists
	persistence float64
	weights     string // comma-separated multipliers
	top         int
	itemsOnly   bool
	format      string // "text", "json"
	output      string // output file, empty = stdout
	concurrency int
}

func newFuseCmd() *cobra.Command {
	var opts fuseOptions

	cmd := &cobra.Command{
		Use:   "fuse [files...]",
		Short: "Fuse rankings into a consensus ranking",
		Long: `Fuse rankings into a single consensus ranking.

Each input is an ordered list of items, best first: a text file with one
item per line (# starts a comment), or an inline comma-separated list
given with --ranking. Inline lists are fused after the files.

Rank x contributes (1-p)*p^(x-1) to an item's score, where p is the
persistence: higher p rewards depth, lower p concentrates on the top
ranks, and p=0 counts only first places. The output covers every item
that appears in any input, best consensus first.`,
		Example: `  rankfuse fuse systemA.txt systemB.txt
  rankfuse fuse -p 0.7 --top 10 systemA.txt systemB.txt
  rankfuse fuse -r "A,B,C" -r "B,A,D" --format json
  rankfuse fuse --weights "2,1" trusted.txt experimental.txt`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFuse(cmd.Context(), cmd, args, opts)
		},
	}

	addFusionFlags(cmd, &opts)

	return cmd
}

// addFusionFlags registers the flags shared by the fuse and watch commands.
func addFusionFlags(cmd *cobra.Command, opts *fuseOptions) {
	cmd.Flags().StringArrayVarP(&opts.rankings, "ranking", "r", nil, `Inline ranking as a comma-separated list (repeatable, e.g. -r "A,B,C")`)
	cmd.Flags().Float64VarP(&opts.persistence, "persistence", "p", rbc.DefaultPersistence, "Persistence in [0,1): rank weight decay")
	cmd.Flags().StringVar(&opts.weights, "weights", "", "Per-ranking weight multipliers, comma-separated")
	cmd.Flags().IntVar(&opts.top, "top", 0, "Keep only the best N items (0 = all)")
	cmd.Flags().BoolVar(&opts.itemsOnly, "items-only", false, "Print bare items without scores, one per line")
	cmd.Flags().StringVar(&opts.format, "format", config.FormatText, "Output format: text, json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write results to this file instead of stdout")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "Worker count for loading and fusing (0 = sequential)")
}

// applyFusionFlags overlays explicitly-set flags onto the loaded config.
// Flags left at their defaults keep the config file's values.
func applyFusionFlags(cmd *cobra.Command, cfg *config.Config, opts fuseOptions) {
	if cmd.Flags().Changed("persistence") {
		cfg.Persistence = opts.persistence
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = opts.format
	}
	if cmd.Flags().Changed("top") {
		cfg.Top = opts.top
	}
	if cmd.Flags().Changed("items-only") {
		cfg.ItemsOnly = opts.itemsOnly
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = opts.concurrency
	}
}

func runFuse(ctx context.Context, cmd *cobra.Command, args []string, opts fuseOptions) error {
	cfg := *rootConfig()
	applyFusionFlags(cmd, &cfg, opts)

	if err := checkFormat(cfg.Format); err != nil {
		return err
	}

	rankings, err := loadFusionInputs(ctx, args, opts.rankings, cfg.Concurrency)
	if err != nil {
		return err
	}
	if len(rankings) == 0 {
		return rferrors.New(rferrors.ErrCodeNoRankings, "no rankings to fuse", nil).
			WithSuggestion("pass ranking files as arguments or inline lists with --ranking")
	}
	slog.Info("rankings_loaded",
		slog.Int("files", len(args)),
		slog.Int("inline", len(opts.rankings)))

	fuseOpts, err := fusionOptions(opts.weights, cfg.Concurrency)
	if err != nil {
		return err
	}

	lists := make([][]string, len(rankings))
	for i, r := range rankings {
		lists[i] = r.Items
	}

	slog.Info("fusion_started",
		slog.Float64("persistence", cfg.Persistence),
		slog.Int("rankings", len(lists)))
	results, err := rbc.Fuse(lists, cfg.Persistence, fuseOpts...)
	if err != nil {
		return mapFusionError(err)
	}
	slog.Info("fusion_completed", slog.Int("items", len(results)))

	w := cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return rferrors.New(rferrors.ErrCodeOutputWrite, err.Error(), err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if err := renderResults(w, &cfg, results, len(lists)); err != nil {
		return rferrors.New(rferrors.ErrCodeOutputWrite, err.Error(), err)
	}
	return nil
}

// checkFormat rejects output formats the renderer does not know.
func checkFormat(format string) error {
	switch format {
	case config.FormatText, config.FormatJSON:
		return nil
	default:
		return rferrors.New(rferrors.ErrCodeInvalidFormat, fmt.Sprintf("invalid output format %q", format), nil).
			WithSuggestion("use 'text' or 'json'")
	}
}

// loadFusionInputs loads ranking files and appends the inline lists after
// them, so positions in the concatenated input stay stable for tie-breaks.
func loadFusionInputs(ctx context.Context, files, inline []string, concurrency int) ([]rankfile.Ranking, error) {
	rankings, err := rankfile.LoadAll(ctx, files, concurrency)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, rferrors.New(rferrors.ErrCodeFileNotFound, err.Error(), err).
				WithSuggestion("check the ranking file paths")
		}
		return nil, rferrors.New(rferrors.ErrCodeFileRead, err.Error(), err)
	}

	return append(rankings, inlineRankings(inline)...), nil
}

// inlineRankings converts -r flag values into named rankings.
func inlineRankings(lists []string) []rankfile.Ranking {
	rankings := make([]rankfile.Ranking, 0, len(lists))
	for i, list := range lists {
		rankings = append(rankings, rankfile.Ranking{
			Name:  fmt.Sprintf("inline-%d", i+1),
			Items: rankfile.ParseList(list),
		})
	}
	return rankings
}

// fusionOptions assembles the rbc options from the weight flag and the
// effective concurrency.
func fusionOptions(weightSpec string, concurrency int) ([]rbc.Option, error) {
	opts := []rbc.Option{rbc.WithConcurrency(concurrency)}
	if weightSpec == "" {
		return opts, nil
	}

	weights, err := parseWeights(weightSpec)
	if err != nil {
		return nil, rferrors.New(rferrors.ErrCodeInvalidWeights, err.Error(), err).
			WithSuggestion(`--weights takes one non-negative number per ranking, e.g. --weights "2,1"`)
	}
	return append(opts, rbc.WithRankingWeights(weights)), nil
}

// parseWeights parses a comma-separated weight list like "1,0.5,0.25".
func parseWeights(s string) ([]float64, error) {
	parts := rankfile.ParseList(s)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty weight list")
	}

	weights := make([]float64, len(parts))
	for i, part := range parts {
		w, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("weight %q is not a number", part)
		}
		weights[i] = w
	}
	return weights, nil
}

// mapFusionError translates core fusion sentinels into coded CLI errors.
func mapFusionError(err error) error {
	switch {
	case errors.Is(err, rbc.ErrInvalidPersistence):
		return rferrors.New(rferrors.ErrCodeInvalidPersistence, err.Error(), err).
			WithSuggestion("persistence must be at least 0 and strictly below 1")
	case errors.Is(err, rbc.ErrDuplicateItem):
		return rferrors.New(rferrors.ErrCodeDuplicateItem, err.Error(), err).
			WithSuggestion("each ranking may list an item only once; duplicates across rankings are fine")
	case errors.Is(err, rbc.ErrInvalidWeights):
		return rferrors.New(rferrors.ErrCodeInvalidWeights, err.Error(), err).
			WithSuggestion(`--weights takes one non-negative number per ranking, e.g. --weights "2,1"`)
	case errors.Is(err, rbc.ErrNoRankings):
		return rferrors.New(rferrors.ErrCodeNoRankings, err.Error(), err).
			WithSuggestion("pass ranking files as arguments or inline lists with --ranking")
	default:
		return rferrors.Wrap(rferrors.ErrCodeInternal, err)
	}
}

// renderResults truncates to the configured top N and writes the results
// in the configured format.
func renderResults(w io.Writer, cfg *config.Config, results []rbc.ScoredItem[string], rankings int) error {
	if cfg.Top > 0 && cfg.Top < len(results) {
		results = results[:cfg.Top]
	}

	r := output.NewRenderer(w, cfg.Output.Color)
	switch {
	case cfg.ItemsOnly:
		return r.ItemsOnly(results)
	case cfg.Format == config.FormatJSON:
		return r.JSON(results, cfg.Persistence, rankings)
	default:
		return r.Results(results)
	}
}
