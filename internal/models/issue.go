package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the severity by name in JSON reports.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSeverity accepts a severity name in any case.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "LOW":
		return SeverityLow, nil
	case "MEDIUM":
		return SeverityMedium, nil
	case "HIGH":
		return SeverityHigh, nil
	case "CRITICAL":
		return SeverityCritical, nil
	default:
		return SeverityLow, fmt.Errorf("unknown severity %q (valid: low, medium, high, critical)", name)
	}
}

var (
	logFactor  = regexp.MustCompile(`\(log n\)\^\d+|log n`)
	polyFactor = regexp.MustCompile(`^n(?:\^(\d+))?$`)
)

// SeverityForLabel grades a Big-O label: constant and logarithmic bounds are
// low, (quasi)linear bounds medium, polynomial bounds high and exponential
// bounds critical. Products such as "O(n * n log n)" add their degrees.
func SeverityForLabel(label string) Severity {
	inner := strings.TrimSuffix(strings.TrimPrefix(label, "O("), ")")
	if strings.Contains(inner, "^n") {
		return SeverityCritical
	}
	inner = logFactor.ReplaceAllString(inner, "")

	degree := 0
	for _, factor := range strings.Split(inner, "*") {
		for _, part := range strings.Fields(factor) {
			m := polyFactor.FindStringSubmatch(part)
			if m == nil {
				continue
			}
			if m[1] == "" {
				degree++
				continue
			}
			d, _ := strconv.Atoi(m[1])
			degree += d
		}
	}

	switch {
	case degree >= 2:
		return SeverityHigh
	case degree == 1:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

type IssueType string

const (
	IssueNestedLoops          IssueType = "nested_loops"
	IssueLinearLoop           IssueType = "linear_loop"
	IssueLinearRecursion      IssueType = "linear_recursion"
	IssueDivideAndConquer     IssueType = "divide_and_conquer"
	IssueExponentialRecursion IssueType = "exponential_recursion"
	IssueLoopRecursion        IssueType = "loop_with_recursion"
)

// Issue is a finding about one function whose estimate reached the
// reporting threshold.
type Issue struct {
	Type       IssueType `json:"type"`
	Severity   Severity  `json:"severity"`
	File       string    `json:"file"`
	Line       int       `json:"line"`
	Function   string    `json:"function,omitempty"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion"`
	Complexity string    `json:"complexity,omitempty"` // e.g., "O(n^2)", "O(2^n)"
}

// FunctionResult is the estimate of one function analyzed on its own.
type FunctionResult struct {
	Name          string   `json:"name"`
	Line          int      `json:"line,omitempty"`
	Label         string   `json:"label"`
	LoopLabel     string   `json:"loop_label"`
	IsRecursive   bool     `json:"is_recursive"`
	DivideCount   uint     `json:"divide_count"`
	SubtractCount uint     `json:"subtract_count"`
	Severity      Severity `json:"severity"`
}

// FileResult is the estimate of one source file.
type FileResult struct {
	File            string           `json:"file"`
	Language        string           `json:"language"`
	Label           string           `json:"label"`
	LoopLabel       string           `json:"loop_label"`
	RecursionLabel  string           `json:"recursion_label"`
	Severity        Severity         `json:"severity"`
	HasSyntaxErrors bool             `json:"has_syntax_errors,omitempty"`
	Functions       []FunctionResult `json:"functions,omitempty"`
	Issues          []Issue          `json:"-"`
}

// FileError records a file that could not be analyzed.
type FileError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

type AnalysisResult struct {
	Files            []FileResult   `json:"files"`
	FilesBySeverity  map[string]int `json:"files_by_severity"`
	Failed           []FileError    `json:"failed,omitempty"`
	TotalIssues      int            `json:"total_issues"`
	IssuesBySeverity map[string]int `json:"issues_by_severity"`
	Issues           []Issue        `json:"issues"`
	ComplexityScore  int            `json:"complexity_score"` // 0-100 scale
	AnalysisDuration string         `json:"analysis_duration"`
}

func NewAnalysisResult() *AnalysisResult {
	return &AnalysisResult{
		Files:            make([]FileResult, 0),
		FilesBySeverity:  make(map[string]int),
		Issues:           make([]Issue, 0),
		IssuesBySeverity: make(map[string]int),
	}
}

// AddFile records a file estimate together with its findings.
func (ar *AnalysisResult) AddFile(file FileResult) {
	ar.Files = append(ar.Files, file)
	ar.FilesBySeverity[file.Severity.String()]++
	for _, issue := range file.Issues {
		ar.AddIssue(issue)
	}
}

func (ar *AnalysisResult) AddIssue(issue Issue) {
	ar.Issues = append(ar.Issues, issue)
	ar.TotalIssues++
	ar.IssuesBySeverity[issue.Severity.String()]++
}

func (ar *AnalysisResult) AddFailure(file string, err error) {
	ar.Failed = append(ar.Failed, FileError{File: file, Error: err.Error()})
}

// MaxSeverity returns the worst file severity, or -1 when no file was analyzed.
func (ar *AnalysisResult) MaxSeverity() Severity {
	worst := Severity(-1)
	for _, f := range ar.Files {
		worst = max(worst, f.Severity)
	}
	return worst
}

func (ar *AnalysisResult) CalculateScore() {
	if ar.TotalIssues == 0 {
		ar.ComplexityScore = 100
		return
	}

	penalty := 0
	for _, issue := range ar.Issues {
		basePenalty := 0
		switch issue.Severity {
		case SeverityLow:
			basePenalty = 2
		case SeverityMedium:
			basePenalty = 5
		case SeverityHigh:
			basePenalty = 15
		case SeverityCritical:
			basePenalty = 30
		}

		switch issue.Type {
		case IssueNestedLoops, IssueLoopRecursion:
			basePenalty = int(float64(basePenalty) * 1.2)
		case IssueExponentialRecursion:
			basePenalty = int(float64(basePenalty) * 1.5)
		}

		penalty += basePenalty
	}

	ar.ComplexityScore = max(100-penalty, 0)
}
