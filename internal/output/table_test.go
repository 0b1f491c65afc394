package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/rankfuse/pkg/rbc"
)

func TestRenderer_Results_PlainTable(t *testing.T) {
	// Given: a renderer with color disabled
	buf := &bytes.Buffer{}
	r := NewRenderer(buf, ColorNever)

	results := []rbc.ScoredItem[string]{
		{Item: "alpha", Score: 0.5},
		{Item: "beta", Score: 0.25},
	}

	// When: rendering the table
	err := r.Results(results)
	require.NoError(t, err)

	// Then: header and aligned rows with 4-decimal scores
	output := buf.String()
	assert.Contains(t, output, "RANK")
	assert.Contains(t, output, "ITEM")
	assert.Contains(t, output, "SCORE")
	assert.Contains(t, output, "alpha")
	assert.Contains(t, output, "0.5000")
	assert.Contains(t, output, "0.2500")

	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "   1  "), "rank column should be right-aligned: %q", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "   2  "), "rank column should be right-aligned: %q", lines[2])
}

func TestRenderer_Results_NeverMode_NoEscapeCodes(t *testing.T) {
	// Given: a renderer with color disabled
	buf := &bytes.Buffer{}
	r := NewRenderer(buf, ColorNever)

	// When: rendering the table
	err := r.Results([]rbc.ScoredItem[string]{{Item: "x", Score: 1}})
	require.NoError(t, err)

	// Then: no ANSI escape sequences appear
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestRenderer_Results_WidensItemColumn(t *testing.T) {
	// Given: items longer than the ITEM header
	buf := &bytes.Buffer{}
	r := NewRenderer(buf, ColorNever)

	results := []rbc.ScoredItem[string]{
		{Item: "a-rather-long-item-name", Score: 0.5},
		{Item: "b", Score: 0.25},
	}

	// When: rendering the table
	err := r.Results(results)
	require.NoError(t, err)

	// Then: every row is padded to the widest item
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, len(lines[1]), len(lines[2]), "rows should share one width:\n%q\n%q", lines[1], lines[2])
}

func TestRenderer_ItemsOnly_OneItemPerLine(t *testing.T) {
	// Given: fused results
	buf := &bytes.Buffer{}
	r := NewRenderer(buf, ColorNever)

	results := []rbc.ScoredItem[string]{
		{Item: "alpha", Score: 0.5},
		{Item: "beta", Score: 0.25},
		{Item: "gamma", Score: 0.125},
	}

	// When: rendering items only
	err := r.ItemsOnly(results)
	require.NoError(t, err)

	// Then: exactly one undecorated item per line
	assert.Equal(t, "alpha\nbeta\ngamma\n", buf.String())
}

func TestRenderer_JSON_ValidDocument(t *testing.T) {
	// Given: fused results
	buf := &bytes.Buffer{}
	r := NewRenderer(buf, ColorNever)

	results := []rbc.ScoredItem[string]{
		{Item: "alpha", Score: 0.5},
		{Item: "beta", Score: 0.25},
	}

	// When: rendering JSON
	err := r.JSON(results, 0.9, 4)
	require.NoError(t, err)

	// Then: the document round-trips with ranks assigned in order
	var report Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))

	assert.Equal(t, 0.9, report.Persistence)
	assert.Equal(t, 4, report.Rankings)
	require.Len(t, report.Results, 2)
	assert.Equal(t, 1, report.Results[0].Rank)
	assert.Equal(t, "alpha", report.Results[0].Item)
	assert.Equal(t, 0.5, report.Results[0].Score)
	assert.Equal(t, 2, report.Results[1].Rank)
	assert.Equal(t, "beta", report.Results[1].Item)
}

func TestRenderer_JSON_EmptyResults_EmitsEmptyArray(t *testing.T) {
	// Given: no results
	buf := &bytes.Buffer{}
	r := NewRenderer(buf, ColorNever)

	// When: rendering JSON
	err := r.JSON(nil, 0.9, 0)
	require.NoError(t, err)

	// Then: results is [] rather than null
	assert.Contains(t, buf.String(), `"results": []`)
}

func TestShouldColor_Modes(t *testing.T) {
	buf := &bytes.Buffer{}

	tests := []struct {
		name string
		mode string
		want bool
	}{
		{"always forces color", ColorAlways, true},
		{"never disables color", ColorNever, false},
		{"auto is off for non-terminals", ColorAuto, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldColor(buf, tt.mode))
		})
	}
}

func TestShouldColor_NoColorEnv_DisablesAuto(t *testing.T) {
	// Given: NO_COLOR is set
	t.Setenv("NO_COLOR", "1")

	// Then: auto mode yields no color, explicit always still wins
	assert.False(t, ShouldColor(&bytes.Buffer{}, ColorAuto))
	assert.True(t, ShouldColor(&bytes.Buffer{}, ColorAlways))
}

func TestIsTTY_NonFileWriter_False(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
	assert.False(t, IsTTY(nil))
}
