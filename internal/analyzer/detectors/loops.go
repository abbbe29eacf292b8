package detectors

import (
	"fmt"

	"bigocheck/internal/complexity"
	"bigocheck/internal/models"
)

// LoopDetector reports functions whose loops alone reach the threshold.
// Functions that also recurse are left to RecursionDetector.
type LoopDetector struct {
	minSeverity models.Severity
}

func NewLoopDetector(minSeverity models.Severity) *LoopDetector {
	return &LoopDetector{minSeverity: minSeverity}
}

func (d *LoopDetector) Name() string {
	return "Loop Nesting Detector"
}

func (d *LoopDetector) Detect(filename string, res complexity.Result) []models.Issue {
	issues := make([]models.Issue, 0)

	// Snippets without functions are judged on their top-level loops
	if len(res.Functions) == 0 {
		if issue, ok := d.check(filename, "", 0, res.Loop); ok {
			issues = append(issues, issue)
		}
		return issues
	}

	for _, fn := range res.Functions {
		if recurses(fn) {
			continue
		}
		if issue, ok := d.check(filename, fn.Record.Name, fn.Line, fn.Loop); ok {
			issues = append(issues, issue)
		}
	}
	return issues
}

func (d *LoopDetector) check(filename, function string, line int, loop complexity.Term) (models.Issue, bool) {
	if loop.Degree == 0 {
		return models.Issue{}, false
	}
	label := loop.String()
	severity := models.SeverityForLabel(label)
	if severity < d.minSeverity {
		return models.Issue{}, false
	}

	issueType := models.IssueLinearLoop
	if loop.Degree > 1 {
		issueType = models.IssueNestedLoops
	}

	return models.Issue{
		Type:       issueType,
		Severity:   severity,
		File:       filename,
		Line:       line,
		Function:   function,
		Message:    loopMessage(function, loop, label),
		Suggestion: loopSuggestion(loop),
		Complexity: label,
	}, true
}

func loopMessage(function string, loop complexity.Term, label string) string {
	where := "top-level code"
	if function != "" {
		where = fmt.Sprintf("function '%s'", function)
	}
	switch {
	case loop.Degree == 1:
		return fmt.Sprintf("Loop over the input in %s - %s complexity", where, label)
	case loop.Degree == 2:
		return fmt.Sprintf("Nested loop detected in %s - potential %s complexity", where, label)
	default:
		return fmt.Sprintf("Deeply nested loops (depth %d) detected in %s - %s complexity", loop.Degree, where, label)
	}
}

func loopSuggestion(loop complexity.Term) string {
	suggestions := []string{
		"Consider using a hash table for O(1) lookups instead of nested iteration",
		"Pre-process data into a more efficient structure (e.g., sorted array or hash map)",
		"Use algorithms like binary search if data is sorted",
		"Consider if you can break/continue early to reduce iterations",
		"Profile this code section to measure actual performance impact",
	}

	switch {
	case loop.Degree == 1:
		return suggestions[3]
	case loop.Degree == 2:
		return suggestions[0] + ". " + suggestions[1]
	default:
		return suggestions[2] + ". " + suggestions[4]
	}
}

func recurses(fn complexity.FunctionResult) bool {
	return complexity.RecursionLabel([]complexity.FunctionRecord{fn.Record}) != complexity.Constant
}
