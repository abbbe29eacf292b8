package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bigocheck/internal/config"
	"bigocheck/internal/models"
	"bigocheck/internal/syntax"
)

func newTestAnalyzer(t *testing.T, cfg *config.Config) *Analyzer {
	t.Helper()
	a := NewAnalyzerWithConfig(cfg)
	a.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return a
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestAnalyzeFiles_Testdata(t *testing.T) {
	a := newTestAnalyzer(t, nil)
	files := []string{
		filepath.Join("..", "..", "testdata", "search.c"),
		filepath.Join("..", "..", "testdata", "sort.cpp"),
		filepath.Join("..", "..", "testdata", "fib.cpp"),
	}

	result, err := a.AnalyzeFiles(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, result.Files, 3)
	assert.Empty(t, result.Failed)

	search := result.Files[0]
	assert.Equal(t, files[0], search.File)
	assert.Equal(t, "c", search.Language)
	assert.Equal(t, "O(n)", search.Label)
	assert.Equal(t, models.SeverityMedium, search.Severity)
	require.Len(t, search.Functions, 2)
	assert.Equal(t, "binary_search", search.Functions[0].Name)
	assert.Equal(t, "O(log n)", search.Functions[0].Label)
	assert.Equal(t, 3, search.Functions[0].Line)
	assert.Equal(t, "linear_search", search.Functions[1].Name)
	assert.Equal(t, "O(n)", search.Functions[1].Label)

	sort := result.Files[1]
	assert.Equal(t, "cpp", sort.Language)
	assert.Equal(t, "O(n^2)", sort.Label)
	assert.Equal(t, models.SeverityHigh, sort.Severity)

	fib := result.Files[2]
	assert.Equal(t, "O(2^n)", fib.Label)
	assert.Equal(t, "O(1)", fib.LoopLabel)
	assert.Equal(t, "O(2^n)", fib.RecursionLabel)
	assert.Equal(t, models.SeverityCritical, fib.Severity)
	require.Len(t, fib.Functions, 2)
	assert.True(t, fib.Functions[1].IsRecursive)
	assert.Equal(t, uint(1), fib.Functions[1].SubtractCount)

	// Default threshold is HIGH: the nested loops and the exponential
	// recursion are reported, the linear ones are not.
	require.Equal(t, 2, result.TotalIssues)
	assert.Equal(t, models.IssueNestedLoops, result.Issues[0].Type)
	assert.Equal(t, "bubble_sort", result.Issues[0].Function)
	assert.Equal(t, models.IssueExponentialRecursion, result.Issues[1].Type)
	assert.Equal(t, "fib", result.Issues[1].Function)
	assert.Equal(t, 1, result.Issues[1].Line)

	assert.Equal(t, 37, result.ComplexityScore)
	assert.Equal(t, models.SeverityCritical, result.MaxSeverity())
	assert.NotEmpty(t, result.AnalysisDuration)
}

func TestAnalyzeFiles_SkipsFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "ok.c", "int main(void) { return 0; }\n")
	unsupported := writeFile(t, dir, "script.py", "print('hi')\n")
	missing := filepath.Join(dir, "missing.cpp")

	a := newTestAnalyzer(t, nil)
	result, err := a.AnalyzeFiles(context.Background(), []string{unsupported, good, missing})
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, good, result.Files[0].File)
	assert.Equal(t, "O(1)", result.Files[0].Label)

	require.Len(t, result.Failed, 2)
	assert.Equal(t, unsupported, result.Failed[0].File)
	assert.Contains(t, result.Failed[0].Error, ErrUnsupportedLanguage.Error())
	assert.Equal(t, missing, result.Failed[1].File)
}

func TestAnalyzeFile_Errors(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Files.MaxFileSize = 1 // KB
	a := newTestAnalyzer(t, cfg)

	big := writeFile(t, dir, "big.c", "int x;\n"+strings.Repeat("// padding\n", 200))
	_, err := a.AnalyzeFile(context.Background(), big)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileTooLarge))

	_, err = a.AnalyzeFile(context.Background(), filepath.Join(dir, "notes.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedLanguage))
}

func TestAnalyzeFiles_Parallel(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Analysis.MaxWorkers = 3

	var files []string
	for i := 0; i < 20; i++ {
		var src string
		if i%2 == 0 {
			src = fmt.Sprintf("void f%d(int n) { for (int i = 0; i < n; i++) { for (int j = 0; j < n; j++) {} } }\n", i)
		} else {
			src = fmt.Sprintf("int g%d(int n) { int c = 0; while (n > 1) { n = n / 2; c++; } return c; }\n", i)
		}
		files = append(files, writeFile(t, dir, fmt.Sprintf("f%02d.cpp", i), src))
	}

	result, err := newTestAnalyzer(t, cfg).AnalyzeFiles(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, result.Files, len(files))
	for i, file := range result.Files {
		assert.Equal(t, files[i], file.File)
		if i%2 == 0 {
			assert.Equal(t, "O(n^2)", file.Label, file.File)
		} else {
			assert.Equal(t, "O(log n)", file.Label, file.File)
		}
	}
	assert.Equal(t, 10, result.TotalIssues)
}

func TestAnalyzeFiles_Canceled(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "a.c", "int main(void) { return 0; }\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestAnalyzer(t, nil).AnalyzeFiles(ctx, []string{file})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestAnalyzeSource(t *testing.T) {
	a := newTestAnalyzer(t, nil)

	res, err := a.AnalyzeSource(context.Background(), "snippet.cpp", syntax.LangCPP,
		[]byte("for (int i=0;i<n;i++) { sum += i; }"))
	require.NoError(t, err)
	assert.Equal(t, "O(n)", res.Label)
	assert.Empty(t, res.Functions)

	res, err = a.AnalyzeSource(context.Background(), "broken.c", syntax.LangC,
		[]byte("int f(int n) { for (;;) { n = n / 2 }"))
	require.NoError(t, err)
	assert.True(t, res.HasSyntaxErrors)

	_, err = a.AnalyzeSource(context.Background(), "x.rs", syntax.Language("rust"), []byte("fn main() {}"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, syntax.ErrUnknownLanguage))
}

func TestAnalyzeSource_TopLevelStatementsDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Analysis.TopLevelStatements = false

	res, err := newTestAnalyzer(t, cfg).AnalyzeSource(context.Background(), "snippet.cpp", syntax.LangCPP,
		[]byte("for (int i=0;i<n;i++) { sum += i; }"))
	require.NoError(t, err)
	assert.Equal(t, "O(1)", res.Label)
}

func TestAnalyzeFile_Cache(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "loop.c", "void f(int n) { for (int i = 0; i < n; i++) {} }\n")
	a := newTestAnalyzer(t, nil)

	first, err := a.AnalyzeFile(context.Background(), path)
	require.NoError(t, err)
	second, err := a.AnalyzeFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	hits, misses := a.CacheStats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	// Changed content misses the cache
	writeFile(t, dir, "loop.c", "void f(int n) { for (int i = 0; i < n; i++) { for (int j = 0; j < n; j++) {} } }\n")
	third, err := a.AnalyzeFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "O(n^2)", third.Label)

	hits, misses = a.CacheStats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 2, misses)
}

func TestAnalyzer_CacheDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Analysis.CacheSize = 0
	a := newTestAnalyzer(t, cfg)

	_, err := a.AnalyzeSource(context.Background(), "a.c", syntax.LangC, []byte("int x;"))
	require.NoError(t, err)
	hits, misses := a.CacheStats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}

func TestAnalyzer_Detectors(t *testing.T) {
	a := NewAnalyzer()
	assert.Equal(t, 2, a.GetDetectorCount())
	assert.Equal(t, []string{"Loop Nesting Detector", "Recursion Shape Detector"}, a.GetDetectorNames())
}

func TestResultCache_IsolatesCopies(t *testing.T) {
	c := newResultCache(2)
	key := fingerprint("a.c", syntax.LangC, []byte("int x;"))
	c.Put(key, models.FileResult{File: "a.c", Functions: []models.FunctionResult{{Name: "f"}}})

	got, ok := c.Get(key)
	require.True(t, ok)
	got.Functions[0].Name = "mutated"

	again, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, "f", again.Functions[0].Name)

	// Evicts the least recently used entry
	c.Put(fingerprint("b.c", syntax.LangC, []byte("1")), models.FileResult{})
	c.Put(fingerprint("c.c", syntax.LangC, []byte("2")), models.FileResult{})
	assert.Equal(t, 2, c.Len())
	_, ok = c.Get(key)
	assert.False(t, ok)
}
