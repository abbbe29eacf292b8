package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"bigocheck/internal/analyzer/detectors"
	"bigocheck/internal/complexity"
	"bigocheck/internal/config"
	"bigocheck/internal/models"
	"bigocheck/internal/syntax"
)

var (
	ErrFileTooLarge        = errors.New("file too large")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// Files above this size are still analyzed but logged.
const warnFileSize = 256 * 1024

type Analyzer struct {
	config    *config.Config
	engine    *complexity.Engine
	detectors []Detector
	cache     *resultCache
	logger    *slog.Logger
}

// Detector turns the estimate of one file into findings.
type Detector interface {
	Name() string
	Detect(filename string, res complexity.Result) []models.Issue
}

func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(config.DefaultConfig())
}

func NewAnalyzerWithConfig(cfg *config.Config) *Analyzer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	analyzer := &Analyzer{
		config: cfg,
		engine: complexity.NewEngine(complexity.Options{
			TopLevelStatements: cfg.Analysis.TopLevelStatements,
		}),
		logger: slog.Default(),
	}

	threshold := cfg.ReportSeverity()
	analyzer.detectors = []Detector{
		detectors.NewLoopDetector(threshold),
		detectors.NewRecursionDetector(threshold),
	}

	if cfg.Analysis.CacheSize > 0 {
		analyzer.cache = newResultCache(cfg.Analysis.CacheSize)
	}

	return analyzer
}

// SetLogger replaces the diagnostics logger (slog.Default by default).
func (a *Analyzer) SetLogger(logger *slog.Logger) {
	if logger != nil {
		a.logger = logger
	}
}

// AnalyzeFiles estimates every file with at most analysis.max_workers files
// in flight. A file that cannot be analyzed is logged, recorded as a failure
// and skipped. Only cancellation of ctx aborts the run.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, filenames []string) (*models.AnalysisResult, error) {
	startTime := time.Now()

	files := make([]models.FileResult, len(filenames))
	errs := make([]error, len(filenames))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.Analysis.MaxWorkers)
	for i, filename := range filenames {
		i, filename := i, filename
		g.Go(func() error {
			res, err := a.AnalyzeFile(gctx, filename)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				errs[i] = err
				return nil
			}
			files[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analysis canceled: %w", err)
	}

	// Results are merged in input order so reports are stable
	result := models.NewAnalysisResult()
	for i, filename := range filenames {
		if errs[i] != nil {
			// Log error but continue with other files
			a.logger.Warn("skipping file",
				slog.String("file", filename),
				slog.String("error", errs[i].Error()))
			result.AddFailure(filename, errs[i])
			continue
		}
		result.AddFile(files[i])
	}

	result.AnalysisDuration = time.Since(startTime).String()
	result.CalculateScore()
	return result, nil
}

// AnalyzeFile reads and estimates one file, picking the grammar by extension.
func (a *Analyzer) AnalyzeFile(ctx context.Context, filename string) (models.FileResult, error) {
	lang, ok := a.config.LanguageFor(filename)
	if !ok {
		return models.FileResult{}, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, filename)
	}

	info, err := os.Stat(filename)
	if err != nil {
		return models.FileResult{}, fmt.Errorf("failed to stat %s: %w", filename, err)
	}
	if limit := a.config.MaxFileBytes(); limit > 0 && info.Size() > limit {
		return models.FileResult{}, fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrFileTooLarge, filename, info.Size(), limit)
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return models.FileResult{}, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	return a.AnalyzeSource(ctx, filename, lang, src)
}

// AnalyzeSource estimates src as a file of the given language. filename is
// only used for reporting and cache keys.
func (a *Analyzer) AnalyzeSource(ctx context.Context, filename string, lang syntax.Language, src []byte) (models.FileResult, error) {
	if len(src) > warnFileSize {
		a.logger.Warn("parsing large file",
			slog.String("file", filename),
			slog.Int("size_bytes", len(src)))
	}

	var key cacheKey
	if a.cache != nil {
		key = fingerprint(filename, lang, src)
		if res, ok := a.cache.Get(key); ok {
			return res, nil
		}
	}

	// Parsers are not safe for concurrent use; each call gets its own
	parser, err := syntax.NewParser(lang)
	if err != nil {
		return models.FileResult{}, err
	}
	defer parser.Close()

	tree, err := parser.Parse(ctx, src)
	if err != nil {
		return models.FileResult{}, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	defer tree.Close()

	estimate := a.engine.Analyze(tree.Root())
	res := a.toFileResult(filename, lang, estimate)
	res.HasSyntaxErrors = tree.HasErrors()
	if res.HasSyntaxErrors {
		a.logger.Debug("syntax errors in file, estimate may be partial",
			slog.String("file", filename))
	}

	for _, detector := range a.detectors {
		res.Issues = append(res.Issues, detector.Detect(filename, estimate)...)
	}

	if a.cache != nil {
		a.cache.Put(key, res)
	}
	return res, nil
}

func (a *Analyzer) toFileResult(filename string, lang syntax.Language, estimate complexity.Result) models.FileResult {
	res := models.FileResult{
		File:           filename,
		Language:       string(lang),
		Label:          estimate.Label,
		LoopLabel:      estimate.LoopLabel,
		RecursionLabel: estimate.RecursionLabel,
		Severity:       models.SeverityForLabel(estimate.Label),
		Functions:      make([]models.FunctionResult, 0, len(estimate.Functions)),
		Issues:         make([]models.Issue, 0),
	}

	for _, fn := range estimate.Functions {
		res.Functions = append(res.Functions, models.FunctionResult{
			Name:          fn.Record.Name,
			Line:          fn.Line,
			Label:         fn.Label,
			LoopLabel:     fn.Loop.String(),
			IsRecursive:   fn.Record.IsRecursive,
			DivideCount:   fn.Record.DivideCount,
			SubtractCount: fn.Record.SubtractCount,
			Severity:      models.SeverityForLabel(fn.Label),
		})
	}
	return res
}

// CacheStats reports result cache hits and misses; both are zero when the
// cache is disabled.
func (a *Analyzer) CacheStats() (hits, misses int) {
	if a.cache == nil {
		return 0, 0
	}
	return a.cache.Stats()
}

// GetDetectorCount returns the number of active detectors
func (a *Analyzer) GetDetectorCount() int {
	return len(a.detectors)
}

// GetDetectorNames returns the names of all active detectors
func (a *Analyzer) GetDetectorNames() []string {
	names := make([]string, len(a.detectors))
	for i, detector := range a.detectors {
		names[i] = detector.Name()
	}
	return names
}
