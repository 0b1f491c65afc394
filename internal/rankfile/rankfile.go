// Package rankfile loads ranked item lists from plain text files.
//
// One file holds one ranking: one item per line, best first. Leading and
// trailing whitespace is trimmed, blank lines are skipped, and # starts a
// comment (full-line or trailing). An empty file is a valid empty ranking.
package rankfile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Ranking is one named, ordered item list.
type Ranking struct {
	Name  string
	Items []string
}

// Parse reads one ranking from r, best item first.
func Parse(r io.Reader) ([]string, error) {
	var items []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ranking: %w", err)
	}

	return items, nil
}

// Load reads one ranking from the file at path. Name is the file basename.
func Load(path string) (Ranking, error) {
	f, err := os.Open(path)
	if err != nil {
		return Ranking{}, fmt.Errorf("failed to open ranking file: %w", err)
	}
	defer func() { _ = f.Close() }()

	items, err := Parse(f)
	if err != nil {
		return Ranking{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return Ranking{Name: filepath.Base(path), Items: items}, nil
}

// LoadAll loads one ranking per path, preserving path order in the result.
// Up to concurrency files are read in parallel; values below 1 load one
// file at a time.
func LoadAll(ctx context.Context, paths []string, concurrency int) ([]Ranking, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if concurrency < 1 {
		concurrency = 1
	}

	rankings := make([]Ranking, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, concurrency)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-gctx.Done():
				return gctx.Err()
			}

			ranking, err := Load(path)
			if err != nil {
				return err
			}
			rankings[i] = ranking
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return rankings, nil
}

// ParseList splits an inline comma-separated ranking like "A,B,C".
// Segments are trimmed and empty segments are dropped.
func ParseList(s string) []string {
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		items = append(items, p)
	}
	return items
}
