package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Aman-CERP/rankfuse/pkg/rbc"
)

// Renderer formats fused rankings for terminals, pipes, and files.
type Renderer struct {
	out    io.Writer
	styles Styles
}

// NewRenderer creates a result renderer. colorMode is auto, always, or never.
func NewRenderer(out io.Writer, colorMode string) *Renderer {
	return &Renderer{
		out:    out,
		styles: GetStyles(!ShouldColor(out, colorMode)),
	}
}

// Results renders a rank / item / score table.
func (r *Renderer) Results(results []rbc.ScoredItem[string]) error {
	itemWidth := len("ITEM")
	for _, res := range results {
		if len(res.Item) > itemWidth {
			itemWidth = len(res.Item)
		}
	}

	header := fmt.Sprintf("%4s  %-*s  %s", "RANK", itemWidth, "ITEM", "SCORE")
	if _, err := fmt.Fprintln(r.out, r.styles.Header.Render(header)); err != nil {
		return err
	}

	for i, res := range results {
		rank := r.styles.Dim.Render(fmt.Sprintf("%4d", i+1))
		row := fmt.Sprintf("%s  %-*s  %.4f", rank, itemWidth, res.Item, res.Score)
		if _, err := fmt.Fprintln(r.out, row); err != nil {
			return err
		}
	}

	return nil
}

// ItemsOnly renders one item per line with no decoration, for piping.
func (r *Renderer) ItemsOnly(results []rbc.ScoredItem[string]) error {
	for _, res := range results {
		if _, err := fmt.Fprintln(r.out, res.Item); err != nil {
			return err
		}
	}
	return nil
}

// Report is the JSON output document.
type Report struct {
	Persistence float64        `json:"persistence"`
	Rankings    int            `json:"rankings"`
	Results     []ReportResult `json:"results"`
}

// ReportResult is one fused item in the JSON output.
type ReportResult struct {
	Rank  int     `json:"rank"`
	Item  string  `json:"item"`
	Score float64 `json:"score"`
}

// JSON renders the fused ranking as an indented JSON report.
func (r *Renderer) JSON(results []rbc.ScoredItem[string], persistence float64, rankings int) error {
	report := Report{
		Persistence: persistence,
		Rankings:    rankings,
		Results:     make([]ReportResult, 0, len(results)),
	}
	for i, res := range results {
		report.Results = append(report.Results, ReportResult{
			Rank:  i + 1,
			Item:  res.Item,
			Score: res.Score,
		})
	}

	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
