package detectors

import (
	"fmt"

	"bigocheck/internal/complexity"
	"bigocheck/internal/models"
)

// RecursionDetector reports directly recursive functions by the shape of
// their recursive calls.
type RecursionDetector struct {
	minSeverity models.Severity
}

func NewRecursionDetector(minSeverity models.Severity) *RecursionDetector {
	return &RecursionDetector{minSeverity: minSeverity}
}

func (d *RecursionDetector) Name() string {
	return "Recursion Shape Detector"
}

func (d *RecursionDetector) Detect(filename string, res complexity.Result) []models.Issue {
	issues := make([]models.Issue, 0)

	for _, fn := range res.Functions {
		if !recurses(fn) {
			continue
		}
		severity := models.SeverityForLabel(fn.Label)
		if severity < d.minSeverity {
			continue
		}

		issueType := classify(fn)
		issues = append(issues, models.Issue{
			Type:       issueType,
			Severity:   severity,
			File:       filename,
			Line:       fn.Line,
			Function:   fn.Record.Name,
			Message:    recursionMessage(issueType, fn),
			Suggestion: recursionSuggestion(issueType),
			Complexity: fn.Label,
		})
	}
	return issues
}

func classify(fn complexity.FunctionResult) models.IssueType {
	rec := fn.Record
	switch {
	case fn.Loop != (complexity.Term{}):
		return models.IssueLoopRecursion
	case rec.DivideCount > 0:
		return models.IssueDivideAndConquer
	case rec.SubtractCount >= 2:
		return models.IssueExponentialRecursion
	default:
		return models.IssueLinearRecursion
	}
}

func recursionMessage(issueType models.IssueType, fn complexity.FunctionResult) string {
	name := fn.Record.Name
	switch issueType {
	case models.IssueLoopRecursion:
		return fmt.Sprintf("Function '%s' loops inside every recursive call - %s complexity", name, fn.Label)
	case models.IssueDivideAndConquer:
		return fmt.Sprintf("Function '%s' splits its input across %d recursive calls - %s complexity",
			name, fn.Record.DivideCount, fn.Label)
	case models.IssueExponentialRecursion:
		return fmt.Sprintf("Function '%s' branches into %d recursive calls on a slightly smaller input - %s complexity",
			name, fn.Record.SubtractCount, fn.Label)
	default:
		return fmt.Sprintf("Function '%s' recurses once per element - %s complexity and stack depth", name, fn.Label)
	}
}

func recursionSuggestion(issueType models.IssueType) string {
	switch issueType {
	case models.IssueLoopRecursion:
		return "Hoist loop work out of the recursion or memoize results per subproblem"
	case models.IssueDivideAndConquer:
		return "Make sure both halves are needed; a single-branch search only needs one recursive call"
	case models.IssueExponentialRecursion:
		return "Memoize overlapping subproblems or rewrite as bottom-up dynamic programming"
	default:
		return "Consider an iterative loop to bound stack usage on large inputs"
	}
}
