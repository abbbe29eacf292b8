package analyzer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"bigocheck/internal/config"
	"bigocheck/internal/models"
)

// ReportGenerator handles formatting and displaying analysis results
type ReportGenerator struct {
	format string
	config *config.Config
}

// NewReportGenerator creates a new report generator
func NewReportGenerator(format string) *ReportGenerator {
	return &ReportGenerator{
		format: format,
		config: config.DefaultConfig(),
	}
}

func NewReportGeneratorWithConfig(cfg *config.Config) *ReportGenerator {
	return &ReportGenerator{
		format: cfg.Output.Format,
		config: cfg,
	}
}

// Generate creates a formatted report from analysis results
func (r *ReportGenerator) Generate(result *models.AnalysisResult) string {
	switch r.format {
	case "json":
		return r.generateJSON(result)
	default:
		return r.generateConsole(result)
	}
}

func (r *ReportGenerator) generateJSON(result *models.AnalysisResult) string {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error generating JSON report: %v", err)
	}
	return string(data) + "\n"
}

func (r *ReportGenerator) generateConsole(result *models.AnalysisResult) string {
	var report strings.Builder

	useColors := r.config.Output.Colors
	verbose := r.config.Output.Verbose

	// Header
	if useColors {
		report.WriteString(color.CyanString("🔍 BigOCheck Complexity Report\n"))
		report.WriteString(color.WhiteString("═══════════════════════════════════════\n\n"))
	} else {
		report.WriteString("BigOCheck Complexity Report\n")
		report.WriteString("=======================================\n\n")
	}

	if verbose {
		r.writeConfigInfo(&report, useColors)
	}

	r.writeSummary(&report, result, useColors)
	r.writeFileEstimates(&report, result, useColors)
	if len(result.Failed) > 0 {
		r.writeFailures(&report, result, useColors)
	}
	r.writeComplexityScore(&report, result, useColors)

	if len(result.Issues) > 0 {
		r.writeIssuesSummary(&report, result, useColors)
		report.WriteString("\n")
		r.writeDetailedIssues(&report, result, useColors)
	} else {
		if useColors {
			report.WriteString(color.GreenString("🎉 No functions reached the %s threshold\n\n",
				strings.ToLower(r.config.ReportSeverity().String())))
		} else {
			report.WriteString(fmt.Sprintf("No functions reached the %s threshold\n\n",
				strings.ToLower(r.config.ReportSeverity().String())))
		}
	}

	// Footer
	if useColors {
		report.WriteString(color.WhiteString("Analysis completed in %s\n", result.AnalysisDuration))
	} else {
		report.WriteString(fmt.Sprintf("Analysis completed in %s\n", result.AnalysisDuration))
	}

	return report.String()
}

func (r *ReportGenerator) writeComplexityScore(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	score := result.ComplexityScore
	grade := r.config.ScoreGrade(score)

	if !useColors {
		report.WriteString(fmt.Sprintf("Complexity Score: %d/100 (%s)\n\n", score, grade))
		return
	}

	var scoreColor func(a ...interface{}) string
	var emoji string
	switch grade {
	case "Excellent":
		scoreColor = color.New(color.FgGreen).SprintFunc()
		emoji = "🌟"
	case "Good":
		scoreColor = color.New(color.FgYellow).SprintFunc()
		emoji = "⚡"
	case "Fair":
		scoreColor = color.New(color.FgHiYellow).SprintFunc()
		emoji = "⚠️"
	default:
		scoreColor = color.New(color.FgRed).SprintFunc()
		emoji = "🚨"
	}
	report.WriteString(fmt.Sprintf("%s Complexity Score: %s/100 (%s)\n\n", emoji, scoreColor(score), grade))
}

// getSeverityDisplay returns emoji and color function for a severity level
func (r *ReportGenerator) getSeverityDisplay(severity string) (string, func(a ...interface{}) string) {
	switch severity {
	case "CRITICAL":
		return "🚨", color.New(color.FgRed, color.Bold).SprintFunc()
	case "HIGH":
		return "❌", color.New(color.FgRed).SprintFunc()
	case "MEDIUM":
		return "⚠️", color.New(color.FgYellow).SprintFunc()
	case "LOW":
		return "ℹ️", color.New(color.FgBlue).SprintFunc()
	default:
		return "❓", color.New(color.FgWhite).SprintFunc()
	}
}

func (r *ReportGenerator) writeConfigInfo(report *strings.Builder, useColors bool) {
	st := r.config.Analysis.ScoreThresholds
	languages := fmt.Sprintf("c %s, cpp %s",
		strings.Join(r.config.Languages.C, " "), strings.Join(r.config.Languages.CPP, " "))
	threshold := strings.ToLower(r.config.ReportSeverity().String())

	if useColors {
		report.WriteString(color.WhiteString("📋 Configuration:\n"))
		report.WriteString(fmt.Sprintf("   Languages: %s\n", color.CyanString(languages)))
		report.WriteString(fmt.Sprintf("   Report threshold: %s\n", color.CyanString(threshold)))
		report.WriteString(fmt.Sprintf("   Score thresholds: %s\n",
			color.CyanString("%d/%d/%d", st.Excellent, st.Good, st.Fair)))
	} else {
		report.WriteString("Configuration:\n")
		report.WriteString(fmt.Sprintf("   Languages: %s\n", languages))
		report.WriteString(fmt.Sprintf("   Report threshold: %s\n", threshold))
		report.WriteString(fmt.Sprintf("   Score thresholds: %d/%d/%d\n", st.Excellent, st.Good, st.Fair))
	}
	report.WriteString("\n")
}

func (r *ReportGenerator) writeSummary(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	if useColors {
		report.WriteString(color.WhiteString("📊 Summary:\n"))
	} else {
		report.WriteString("Summary:\n")
	}
	report.WriteString(fmt.Sprintf("   Files analyzed: %d\n", len(result.Files)))
	if len(result.Failed) > 0 {
		report.WriteString(fmt.Sprintf("   Files skipped: %d\n", len(result.Failed)))
	}
	report.WriteString(fmt.Sprintf("   Issues found: %d\n", result.TotalIssues))
	report.WriteString("\n")
}

func (r *ReportGenerator) writeFileEstimates(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	if len(result.Files) == 0 {
		return
	}
	if useColors {
		report.WriteString(color.WhiteString("📈 Estimates:\n"))
	} else {
		report.WriteString("Estimates:\n")
	}

	width := 0
	for _, file := range result.Files {
		width = max(width, len(file.File))
	}

	for _, file := range result.Files {
		note := ""
		if file.HasSyntaxErrors {
			note = " (syntax errors)"
		}
		if useColors {
			_, severityColor := r.getSeverityDisplay(file.Severity.String())
			report.WriteString(fmt.Sprintf("   %-*s  %s%s\n", width, file.File, severityColor(file.Label), color.HiBlackString(note)))
		} else {
			report.WriteString(fmt.Sprintf("   %-*s  %s%s\n", width, file.File, file.Label, note))
		}

		if r.config.Output.ShowFunctions {
			r.writeFunctions(report, file.Functions, useColors)
		}
	}
	report.WriteString("\n")
}

func (r *ReportGenerator) writeFunctions(report *strings.Builder, functions []models.FunctionResult, useColors bool) {
	for _, fn := range functions {
		line := fmt.Sprintf("      %s (line %d): %s", fn.Name, fn.Line, fn.Label)
		if fn.IsRecursive {
			line += fmt.Sprintf(" [recursive: %d halving, %d decrementing]", fn.DivideCount, fn.SubtractCount)
		}
		if useColors {
			report.WriteString(color.HiBlackString("%s\n", line))
		} else {
			report.WriteString(line + "\n")
		}
	}
}

func (r *ReportGenerator) writeFailures(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	if useColors {
		report.WriteString(color.YellowString("⚠️  Skipped files:\n"))
	} else {
		report.WriteString("Skipped files:\n")
	}
	for _, failure := range result.Failed {
		report.WriteString(fmt.Sprintf("   %s: %s\n", failure.File, failure.Error))
	}
	report.WriteString("\n")
}

func (r *ReportGenerator) writeIssuesSummary(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	if useColors {
		report.WriteString(color.WhiteString("📋 Issues by Severity:\n"))
	} else {
		report.WriteString("Issues by Severity:\n")
	}

	severities := []string{"CRITICAL", "HIGH", "MEDIUM", "LOW"}
	for _, severity := range severities {
		count := result.IssuesBySeverity[severity]
		if count > 0 {
			if useColors {
				emoji, colorFunc := r.getSeverityDisplay(severity)
				countText := colorFunc(fmt.Sprintf("%d", count))
				report.WriteString(fmt.Sprintf("   %s %s: %s\n", emoji, severity, countText))
			} else {
				report.WriteString(fmt.Sprintf("   %s: %d\n", severity, count))
			}
		}
	}
}

func (r *ReportGenerator) writeDetailedIssues(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	if useColors {
		report.WriteString(color.WhiteString("\n🔍 Detailed Issues:\n"))
	} else {
		report.WriteString("\nDetailed Issues:\n")
	}
	report.WriteString(strings.Repeat("─", 50) + "\n\n")

	// Sort issues by severity (critical first)
	sortedIssues := make([]models.Issue, len(result.Issues))
	copy(sortedIssues, result.Issues)

	sort.SliceStable(sortedIssues, func(i, j int) bool {
		return sortedIssues[i].Severity > sortedIssues[j].Severity
	})

	for i, issue := range sortedIssues {
		r.writeIssueDetail(report, issue, i+1, useColors)
		report.WriteString("\n")
	}
}

func (r *ReportGenerator) writeIssueDetail(report *strings.Builder, issue models.Issue, index int, useColors bool) {
	location := issue.File
	if issue.Line > 0 {
		location = fmt.Sprintf("%s:%d", issue.File, issue.Line)
	}

	if useColors {
		emoji, severityColor := r.getSeverityDisplay(issue.Severity.String())

		report.WriteString(fmt.Sprintf("%s Issue #%d - %s %s\n",
			emoji, index, severityColor(issue.Severity.String()),
			color.WhiteString(strings.ToUpper(string(issue.Type)))))

		report.WriteString(color.CyanString("   📍 Location: %s", location))
		if issue.Function != "" {
			report.WriteString(color.CyanString(" in function '%s'", issue.Function))
		}
		report.WriteString("\n")

		report.WriteString(color.WhiteString("   💭 Issue: %s\n", issue.Message))
		if issue.Complexity != "" {
			report.WriteString(color.YellowString("   📊 Complexity: %s\n", issue.Complexity))
		}
		report.WriteString(color.GreenString("   💡 Suggestion:\n"))
		for _, line := range strings.Split(issue.Suggestion, ". ") {
			if strings.TrimSpace(line) != "" {
				report.WriteString(color.GreenString("      %s\n", strings.TrimSpace(line)))
			}
		}
		return
	}

	report.WriteString(fmt.Sprintf("Issue #%d - %s %s\n",
		index, issue.Severity.String(), strings.ToUpper(string(issue.Type))))

	report.WriteString(fmt.Sprintf("   Location: %s", location))
	if issue.Function != "" {
		report.WriteString(fmt.Sprintf(" in function '%s'", issue.Function))
	}
	report.WriteString("\n")

	report.WriteString(fmt.Sprintf("   Issue: %s\n", issue.Message))
	if issue.Complexity != "" {
		report.WriteString(fmt.Sprintf("   Complexity: %s\n", issue.Complexity))
	}
	report.WriteString("   Suggestion:\n")
	for _, line := range strings.Split(issue.Suggestion, ". ") {
		if strings.TrimSpace(line) != "" {
			report.WriteString(fmt.Sprintf("      %s\n", strings.TrimSpace(line)))
		}
	}
}
