//go:build ignore

// Package main generates synthetic ranking files for benchmarking and demos.
// Usage: go run scripts/generate-rankings.go -rankings 20 -pool 500 -output testdata/bench
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	numRankings = flag.Int("rankings", 20, "Number of ranking files to generate")
	poolSize    = flag.Int("pool", 500, "Number of distinct items shared across rankings")
	maxLen      = flag.Int("maxlen", 100, "Maximum items per ranking file")
	outputDir   = flag.String("output", "testdata/bench", "Output directory")
	seed        = flag.Int64("seed", 42, "Random seed for reproducibility")
	noise       = flag.Float64("noise", 1.0, "How much the rankings disagree (0 = identical order)")
)

// Word pools for generating readable item identifiers
var (
	adjectives = []string{
		"async", "sync", "fast", "smart", "simple",
		"advanced", "basic", "custom", "default", "dynamic",
		"global", "local", "main", "core", "base",
		"internal", "external", "public", "private", "shared",
	}
	nouns = []string{
		"handler", "manager", "service", "controller", "processor",
		"engine", "client", "server", "worker", "factory",
		"builder", "parser", "validator", "formatter", "converter",
		"cache", "store", "queue", "pool", "buffer",
		"router", "dispatcher", "scheduler", "monitor", "logger",
	}
)

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	if *poolSize < 1 || *maxLen < 1 || *numRankings < 1 {
		fmt.Fprintln(os.Stderr, "Error: -rankings, -pool, and -maxlen must all be at least 1")
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	items := buildItemPool(rng, *poolSize)
	relevance := buildRelevance(rng, len(items))

	fmt.Printf("Generating %d ranking files over %d items in %s...\n", *numRankings, len(items), *outputDir)

	generated := 0
	for i := 0; i < *numRankings; i++ {
		if err := generateRankingFile(rng, i, items, relevance); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating ranking %d: %v\n", i, err)
			continue
		}
		generated++
	}

	fmt.Printf("Generated %d files successfully.\n", generated)
	fmt.Printf("Try: go run ./cmd/rankfuse fuse %s\n", filepath.Join(*outputDir, "ranking-*.txt"))
}

// buildItemPool creates poolSize unique adjective-noun identifiers.
func buildItemPool(rng *rand.Rand, size int) []string {
	items := make([]string, size)
	for i := range items {
		adj := adjectives[rng.Intn(len(adjectives))]
		noun := nouns[rng.Intn(len(nouns))]
		items[i] = fmt.Sprintf("%s-%s-%03d", adj, noun, i)
	}
	return items
}

// buildRelevance assigns each item a hidden quality score. Every generated
// ranking is a noisy view of this shared ordering, so fusing the files
// produces a consistent consensus instead of uniform noise.
func buildRelevance(rng *rand.Rand, size int) []float64 {
	relevance := make([]float64, size)
	for i := range relevance {
		relevance[i] = rng.ExpFloat64()
	}
	return relevance
}

// noisyOrder sorts the pool by relevance perturbed with fresh Gaussian noise.
func noisyOrder(rng *rand.Rand, relevance []float64) []int {
	keys := make([]float64, len(relevance))
	idx := make([]int, len(relevance))
	for i := range idx {
		idx[i] = i
		keys[i] = relevance[i] + rng.NormFloat64()**noise
	}
	sort.Slice(idx, func(a, b int) bool { return keys[idx[a]] > keys[idx[b]] })
	return idx
}

func generateRankingFile(rng *rand.Rand, index int, items []string, relevance []float64) error {
	order := noisyOrder(rng, relevance)

	length := 1 + rng.Intn(*maxLen)
	if length > len(order) {
		length = len(order)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# synthetic ranking %d of %d (seed %d)\n", index+1, *numRankings, *seed)
	for _, item := range order[:length] {
		sb.WriteString(items[item])
		sb.WriteByte('\n')
	}

	filename := filepath.Join(*outputDir, fmt.Sprintf("ranking-%02d.txt", index+1))
	return os.WriteFile(filename, []byte(sb.String()), 0644)
}
