package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"bigocheck/internal/analyzer"
	"bigocheck/internal/config"
	"bigocheck/internal/models"
	"bigocheck/internal/watcher"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	formatFlag         string
	watchFlag          bool
	configFlag         string
	generateConfigFlag bool
	functionsFlag      bool
	outputFlag         string
	failOnFlag         string
	verboseFlag        bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bigocheck [files or directories]",
	Short: "A static Big-O estimator for C and C++ source",
	Long: `bigocheck estimates the asymptotic time complexity of C and C++ code
from its syntax tree: loop nesting, halving loops and the shape of recursive
calls are combined into one Big-O label per file.

Examples:
  bigocheck .                              # Analyze current directory
  bigocheck sort.cpp search.c              # Analyze specific files
  bigocheck --functions src/               # Show a label per function
  bigocheck --format=json .                # Output results in JSON format
  bigocheck --watch src/                   # Re-run on every change
  bigocheck --config=.bigocheck.yml .      # Use custom config
  bigocheck --generate-config              # Generate sample config file`,
	Run: runAnalysis,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&formatFlag, "format", "f", "console", "Output format (console, json)")
	rootCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch mode for development")
	rootCmd.Flags().StringVarP(&configFlag, "config", "c", "", "Path to configuration file")
	rootCmd.Flags().BoolVar(&generateConfigFlag, "generate-config", false, "Generate sample configuration file")
	rootCmd.Flags().BoolVar(&functionsFlag, "functions", false, "Show the estimate of every function")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write the report to a file")
	rootCmd.Flags().StringVar(&failOnFlag, "fail-on", "", "Exit with status 1 when a file reaches this severity (low, medium, high, critical)")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Show configuration and diagnostics")
}

func runAnalysis(cmd *cobra.Command, args []string) {
	if generateConfigFlag {
		generateConfig()
		return
	}

	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		color.Red("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		color.Red("Invalid options: %v\n", err)
		os.Exit(1)
	}

	if !cfg.Output.Colors {
		color.NoColor = true
	}
	setupLogging(cfg.Output.Verbose)

	if len(args) == 0 {
		args = []string{"."}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := analyzer.NewAnalyzerWithConfig(cfg)
	reportGen := analyzer.NewReportGeneratorWithConfig(cfg)

	result, err := analyze(ctx, cfg, engine, reportGen, args)
	if err != nil {
		color.Red("Analysis failed: %v\n", err)
		os.Exit(1)
	}

	if watchFlag {
		if err := watch(ctx, cfg, engine, reportGen, args); err != nil {
			color.Red("Watch failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if result != nil && failOnReached(cfg, result) {
		os.Exit(1)
	}
}

// applyFlags lets explicitly set flags override the configuration file.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = formatFlag
	}
	if flags.Changed("functions") {
		cfg.Output.ShowFunctions = functionsFlag
	}
	if flags.Changed("output") {
		cfg.Output.OutputFile = outputFlag
	}
	if flags.Changed("fail-on") {
		cfg.Analysis.FailOn = failOnFlag
	}
	if flags.Changed("verbose") {
		cfg.Output.Verbose = verboseFlag
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// analyze runs one pass over the files under paths and emits the report.
// It returns a nil result when there was nothing to analyze.
func analyze(ctx context.Context, cfg *config.Config, engine *analyzer.Analyzer, reportGen *analyzer.ReportGenerator, paths []string) (*models.AnalysisResult, error) {
	files := collectFiles(cfg, paths)
	console := cfg.Output.Format == "console"

	if len(files) == 0 {
		if console {
			color.Yellow("⚠️  No C/C++ files found to analyze\n")
		}
		return nil, nil
	}

	if console {
		if cfg.Output.Verbose {
			color.Cyan("🔍 Analyzing %d C/C++ files with %d detectors...\n", len(files), engine.GetDetectorCount())
			if configFlag != "" {
				color.Cyan("📋 Using configuration: %s\n", configFlag)
			}
			fmt.Println()
		} else {
			color.Cyan("🔍 Analyzing %d C/C++ files...\n\n", len(files))
		}
	}

	result, err := engine.AnalyzeFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	hits, misses := engine.CacheStats()
	slog.Debug("result cache", slog.Int("hits", hits), slog.Int("misses", misses))

	report := reportGen.Generate(result)
	if cfg.Output.OutputFile != "" {
		if err := writeReportToFile(report, cfg.Output.OutputFile); err != nil {
			color.Red("Failed to write report to file: %v\n", err)
		} else if console {
			color.Green("📄 Report saved to: %s\n", cfg.Output.OutputFile)
		}
	} else {
		fmt.Print(report)
	}

	return result, nil
}

func watch(ctx context.Context, cfg *config.Config, engine *analyzer.Analyzer, reportGen *analyzer.ReportGenerator, paths []string) error {
	fw, err := watcher.NewFileWatcher(cfg)
	if err != nil {
		return err
	}
	defer fw.Close()

	err = fw.Watch(paths, func(changed []string) error {
		color.Cyan("\n🔄 %d file(s) changed, re-analyzing...\n", len(changed))
		// Unchanged files are served from the result cache
		_, err := analyze(ctx, cfg, engine, reportGen, paths)
		return err
	})
	if err != nil {
		return err
	}

	color.Green("👀 Watching %d directories for changes (Ctrl+C to stop)\n", len(fw.GetWatchedPaths()))
	<-ctx.Done()
	color.Cyan("\n👋 Stopping watch mode\n")
	return nil
}

// failOnReached reports whether any file reached the configured fail_on
// severity.
func failOnReached(cfg *config.Config, result *models.AnalysisResult) bool {
	threshold, ok := cfg.FailOnSeverity()
	if !ok {
		return false
	}
	return result.MaxSeverity() >= threshold
}

func writeReportToFile(report, filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(filePath, []byte(report), 0644)
}

func generateConfig() {
	configPath := ".bigocheck.yml"
	if err := config.GenerateConfig(configPath); err != nil {
		color.Red("Failed to generate config file: %v\n", err)
		os.Exit(1)
	}
	color.Green("✅ Generated sample configuration file: %s\n", configPath)
	color.Cyan("📝 Edit this file to customize bigocheck behavior\n")
	color.Cyan("🚀 Run 'bigocheck --config=%s .' to use it\n", configPath)
}

// collectFiles gathers the source files under every path, logging paths that
// cannot be read. Each file appears once, in walk order.
func collectFiles(cfg *config.Config, paths []string) []string {
	seen := make(map[string]bool)
	var files []string
	for _, path := range paths {
		found, err := collectSourceFiles(cfg, path)
		if err != nil {
			color.Red("Error collecting files from %s: %v\n", path, err)
			continue
		}
		for _, file := range found {
			if !seen[file] {
				seen[file] = true
				files = append(files, file)
			}
		}
	}
	return files
}

// collectSourceFiles recursively finds the C and C++ files under path.
// A path naming a file is taken as long as its extension is known.
func collectSourceFiles(cfg *config.Config, path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if _, ok := cfg.LanguageFor(path); !ok {
			return nil, fmt.Errorf("%w: %s", analyzer.ErrUnsupportedLanguage, path)
		}
		return []string{path}, nil
	}

	var sourceFiles []string
	err = filepath.Walk(path, func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if filePath != path && cfg.SkipDir(filePath) {
				return filepath.SkipDir
			}
			return nil
		}

		if info.Mode()&os.ModeSymlink != 0 {
			if !cfg.Files.FollowSymlinks {
				return nil
			}
			target, err := os.Stat(filePath)
			if err != nil || !target.Mode().IsRegular() {
				slog.Debug("skipping symlink", slog.String("path", filePath))
				return nil
			}
		}

		if cfg.ShouldAnalyze(filePath) {
			sourceFiles = append(sourceFiles, filePath)
		}
		return nil
	})

	return sourceFiles, err
}
