package rankfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRanking(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParse_BasicRanking(t *testing.T) {
	// Given: a plain ranking, best item first
	input := "doc-a\ndoc-b\ndoc-c\n"

	// When: parsing
	items, err := Parse(strings.NewReader(input))

	// Then: items come back in file order
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-a", "doc-b", "doc-c"}, items)
}

func TestParse_SkipsBlanksAndComments(t *testing.T) {
	// Given: a ranking with comments and blank lines
	input := `# results for query 42

doc-a
doc-b   # trailing note

# end of file
`

	// When: parsing
	items, err := Parse(strings.NewReader(input))

	// Then: only real items survive
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-a", "doc-b"}, items)
}

func TestParse_TrimsWhitespace(t *testing.T) {
	input := "  doc-a  \n\tdoc-b\t\n"

	items, err := Parse(strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, []string{"doc-a", "doc-b"}, items)
}

func TestParse_EmptyInput_IsValidEmptyRanking(t *testing.T) {
	items, err := Parse(strings.NewReader(""))

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestParse_AllComments_IsValidEmptyRanking(t *testing.T) {
	items, err := Parse(strings.NewReader("# one\n# two\n"))

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestParse_KeepsDuplicates(t *testing.T) {
	// Duplicate detection belongs to the fusion engine; the loader
	// reports what the file says.
	items, err := Parse(strings.NewReader("doc-a\ndoc-a\n"))

	require.NoError(t, err)
	assert.Equal(t, []string{"doc-a", "doc-a"}, items)
}

func TestLoad_NamesRankingAfterFile(t *testing.T) {
	// Given: a ranking file on disk
	dir := t.TempDir()
	path := writeRanking(t, dir, "bm25.txt", "doc-a\ndoc-b\n")

	// When: loading
	ranking, err := Load(path)

	// Then: the ranking carries the file basename and items
	require.NoError(t, err)
	assert.Equal(t, "bm25.txt", ranking.Name)
	assert.Equal(t, []string{"doc-a", "doc-b"}, ranking.Items)
}

func TestLoad_MissingFile_ReportsNotExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.txt"))

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadAll_PreservesPathOrder(t *testing.T) {
	// Given: several ranking files loaded in parallel
	dir := t.TempDir()
	paths := []string{
		writeRanking(t, dir, "r1.txt", "a\n"),
		writeRanking(t, dir, "r2.txt", "b\n"),
		writeRanking(t, dir, "r3.txt", "c\n"),
		writeRanking(t, dir, "r4.txt", "d\n"),
	}

	// When: loading all with parallel workers
	rankings, err := LoadAll(context.Background(), paths, 4)

	// Then: results line up with the input paths
	require.NoError(t, err)
	require.Len(t, rankings, 4)
	assert.Equal(t, "r1.txt", rankings[0].Name)
	assert.Equal(t, []string{"a"}, rankings[0].Items)
	assert.Equal(t, "r2.txt", rankings[1].Name)
	assert.Equal(t, []string{"b"}, rankings[1].Items)
	assert.Equal(t, "r3.txt", rankings[2].Name)
	assert.Equal(t, []string{"c"}, rankings[2].Items)
	assert.Equal(t, "r4.txt", rankings[3].Name)
	assert.Equal(t, []string{"d"}, rankings[3].Items)
}

func TestLoadAll_MissingFile_FailsWholeLoad(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeRanking(t, dir, "r1.txt", "a\n"),
		filepath.Join(dir, "absent.txt"),
	}

	_, err := LoadAll(context.Background(), paths, 2)

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadAll_ConcurrencyBelowOne_StillLoads(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeRanking(t, dir, "r1.txt", "a\n"),
		writeRanking(t, dir, "r2.txt", "b\n"),
	}

	rankings, err := LoadAll(context.Background(), paths, 0)

	require.NoError(t, err)
	require.Len(t, rankings, 2)
	assert.Equal(t, []string{"a"}, rankings[0].Items)
	assert.Equal(t, []string{"b"}, rankings[1].Items)
}

func TestLoadAll_NoPaths_ReturnsNil(t *testing.T) {
	rankings, err := LoadAll(context.Background(), nil, 4)

	require.NoError(t, err)
	assert.Nil(t, rankings)
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple list", "A,B,C", []string{"A", "B", "C"}},
		{"trims segments", " A , B ,C ", []string{"A", "B", "C"}},
		{"drops empty segments", "A,,B,", []string{"A", "B"}},
		{"single item", "alpha", []string{"alpha"}},
		{"empty string", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseList(tt.input))
		})
	}
}
