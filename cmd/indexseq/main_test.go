package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/indexseq/pkg/adapters/script"
)

func resetRunFlags(t *testing.T) {
	t.Helper()
	runGlobs, runStrategy, runFormat = nil, "amortized", "text"
	runWatch, runMetrics, runEvents = false, false, false
}

func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunScripts_Text(t *testing.T) {
	resetRunFlags(t)
	dir := t.TempDir()
	writeScript(t, dir, "ok.yaml", "items: [a, b]\nsteps:\n  - op: remove-first\n")

	runGlobs = []string{filepath.Join(dir, "*.yaml")}
	var out, errOut bytes.Buffer
	require.NoError(t, runScripts(context.Background(), &out, &errOut, nil))
	assert.Equal(t, "PASS ok [1..1] [b]\n", out.String())
}

func TestRunScripts_FailingJSON(t *testing.T) {
	resetRunFlags(t)
	dir := t.TempDir()
	path := writeScript(t, dir, "bad.json", `{"steps": [{"op": "append", "value": "a"}, {"op": "remove-first"}, {"op": "remove-last"}]}`)

	runFormat = "json"
	runMetrics = true
	var out, errOut bytes.Buffer
	err := runScripts(context.Background(), &out, &errOut, []string{path})
	assert.ErrorIs(t, err, errScriptsFailed)

	body := out.String()
	end := strings.Index(body, "# HELP")
	require.Positive(t, end)

	var results []script.Result
	require.NoError(t, json.Unmarshal([]byte(body[:end]), &results))
	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.Contains(t, results[0].Steps[2].Error, "index out of range")
	assert.Contains(t, body[end:], "indexseq_sequence_mutations_total")
}

func TestRunScripts_NoMatch(t *testing.T) {
	resetRunFlags(t)
	runGlobs = []string{filepath.Join(t.TempDir(), "*.yaml")}
	err := runScripts(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, nil)
	assert.ErrorContains(t, err, "no scripts match")
}

func TestRunScripts_EventsDoNotChangeOutcome(t *testing.T) {
	resetRunFlags(t)
	items := make([]string, 150)
	for i := range items {
		items[i] = fmt.Sprintf("%q", fmt.Sprint(i))
	}
	dir := t.TempDir()
	path := writeScript(t, dir, "bulk.json",
		`{"name": "bulk", "steps": [{"op": "append", "items": [`+strings.Join(items, ", ")+`]}]}`)

	runEvents = true
	var out, errOut bytes.Buffer
	require.NoError(t, runScripts(context.Background(), &out, &errOut, []string{path}))
	assert.True(t, strings.HasPrefix(out.String(), "PASS bulk [0..149]"))
	assert.Equal(t, 150, strings.Count(errOut.String(), "event INSERT@"))
	assert.Contains(t, errOut.String(), "event INSERT@149\n")
}

func TestLogOptions(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logOptions{verbose: true, format: "json"}.logger(&buf)
	require.NoError(t, err)
	logger.Debug("reallocated", "to", 8)
	assert.Contains(t, buf.String(), `"msg":"reallocated"`)

	buf.Reset()
	logger, err = logOptions{format: "text"}.logger(&buf)
	require.NoError(t, err)
	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	_, err = logOptions{format: "xml"}.logger(&buf)
	assert.ErrorContains(t, err, "unknown log format")
}

func TestRunBench(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runBench(&out, 64, []string{"minimal", "amortized"}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 1+len(workloads)*2)
	assert.Contains(t, lines[0], "REALLOCS")
	assert.Contains(t, out.String(), "queue")

	assert.Error(t, runBench(&out, 64, []string{"fibonacci"}))
	assert.Error(t, runBench(&out, 0, nil))
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "indexseq version "))
}

func TestRunScripts_Examples(t *testing.T) {
	resetRunFlags(t)
	runGlobs = []string{filepath.Join("..", "..", "examples", "scripts", "*.{yaml,json}")}

	var out bytes.Buffer
	require.NoError(t, runScripts(context.Background(), &out, &bytes.Buffer{}, nil))
	assert.NotContains(t, out.String(), "FAIL")
	assert.Equal(t, 3, strings.Count(out.String(), "PASS"))
}
