// Package complexity estimates the asymptotic time complexity of C and C++
// source from its syntax tree.
//
// The estimate combines two independent signals: the shape of loops (nested
// loops multiply, halving loops contribute a log factor) and the shape of
// direct recursion (halving arguments suggest divide and conquer, constant
// decrements suggest linear or exponential recursion). It is a heuristic
// classifier, not a proof.
package complexity

import "bigocheck/internal/syntax"

// Options tunes an Engine.
type Options struct {
	// TopLevelStatements analyzes the loops of the whole unit when it
	// contains no function definition, e.g. a pasted snippet.
	TopLevelStatements bool
}

// DefaultOptions returns the options used by Analyze.
func DefaultOptions() Options {
	return Options{TopLevelStatements: true}
}

// FunctionResult is the estimate for one function analyzed on its own.
type FunctionResult struct {
	Record FunctionRecord `json:"record"`
	Line   int            `json:"line,omitempty"`
	Loop   Term           `json:"loop"`
	Label  string         `json:"label"`
}

// Result is the estimate for a whole unit.
type Result struct {
	Label          string           `json:"label"`
	Loop           Term             `json:"loop"`
	LoopLabel      string           `json:"loop_label"`
	RecursionLabel string           `json:"recursion_label"`
	Functions      []FunctionResult `json:"functions,omitempty"`
}

// Engine runs the analysis. It keeps no state between calls and is safe for
// concurrent use on independent trees.
type Engine struct {
	opts Options
}

// NewEngine creates an engine with the given options.
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Analyze returns the single Big-O label of the unit rooted at root.
func Analyze(root syntax.Node) string {
	return NewEngine(DefaultOptions()).Analyze(root).Label
}

// Analyze estimates the unit rooted at root.
func (e *Engine) Analyze(root syntax.Node) Result {
	if root == nil {
		return Result{Label: Constant, LoopLabel: Constant, RecursionLabel: Constant}
	}

	fns := Functions(root)
	records := make([]FunctionRecord, 0, len(fns))
	functions := make([]FunctionResult, 0, len(fns))
	var loop Term
	for _, fn := range fns {
		record := AnalyzeRecursion(fn, FunctionName(fn))
		term := LoopComplexity(fn)
		records = append(records, record)
		functions = append(functions, FunctionResult{
			Record: record,
			Line:   syntax.LineOf(fn),
			Loop:   term,
			Label:  Combine(term.String(), RecursionLabel([]FunctionRecord{record})),
		})
		loop = maxTerm(loop, term)
	}
	if len(fns) == 0 && e.opts.TopLevelStatements {
		loop = LoopComplexity(root)
	}

	rec := RecursionLabel(records)
	return Result{
		Label:          Combine(loop.String(), rec),
		Loop:           loop,
		LoopLabel:      loop.String(),
		RecursionLabel: rec,
		Functions:      functions,
	}
}
