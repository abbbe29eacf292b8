package complexity

import (
	"regexp"
	"strings"

	"bigocheck/internal/syntax"
)

const (
	kindCall           = "call_expression"
	kindInitDeclarator = "init_declarator"
	kindBinary         = "binary_expression"
	kindNumber         = "number_literal"
)

var (
	halvedValue     = regexp.MustCompile(`/\s*2\b|>>\s*1\b`)
	subtractedValue = regexp.MustCompile(`-\s*\d+\b`)
	trailingHalving = regexp.MustCompile(`(/2|>>1)$`)
	trailingOffset  = regexp.MustCompile(`[+-]\d+$`)
)

// FunctionRecord summarizes the direct self-calls of one function.
type FunctionRecord struct {
	Name          string `json:"name"`
	IsRecursive   bool   `json:"is_recursive"`
	DivideCount   uint   `json:"divide_count"`
	SubtractCount uint   `json:"subtract_count"`
}

type argKind int

const (
	argOther argKind = iota
	argDivide
	argSubtract
)

// classification tracks which locals were derived from a halving or a
// constant subtraction while one function body is scanned.
type classification struct {
	halved     map[string]struct{}
	subtracted map[string]struct{}
}

func newClassification() *classification {
	return &classification{
		halved:     make(map[string]struct{}),
		subtracted: make(map[string]struct{}),
	}
}

func (c *classification) isHalved(name string) bool {
	_, ok := c.halved[name]
	return ok
}

func (c *classification) isSubtracted(name string) bool {
	_, ok := c.subtracted[name]
	return ok
}

// observe records "v = x / 2" style assignments and initializers.
func (c *classification) observe(n syntax.Node) {
	children := n.NamedChildren()
	if len(children) < 2 {
		return
	}
	target := children[0]
	value := children[len(children)-1]
	if target.Kind() != kindIdentifier {
		return
	}
	name := target.Text()
	text := value.Text()
	switch {
	case halvedValue.MatchString(text):
		c.halved[name] = struct{}{}
	case value.Kind() == kindBinary && subtractedValue.MatchString(text):
		left, right := firstOperand(value, "left"), lastOperand(value, "right")
		if left != nil && left.Kind() == kindIdentifier && right != nil && right.Kind() == kindNumber {
			c.subtracted[name] = struct{}{}
		}
	}
}

// classify decides how a single self-call argument shrinks the input.
func (c *classification) classify(arg syntax.Node) argKind {
	text := stripSpace(arg.Text())
	if trailingHalving.MatchString(text) {
		return argDivide
	}
	switch arg.Kind() {
	case kindIdentifier:
		switch {
		case c.isHalved(text):
			return argDivide
		case c.isSubtracted(text):
			return argSubtract
		}
	case kindBinary:
		if strings.Contains(text, "/2") || strings.Contains(text, ">>1") {
			return argDivide
		}
		left, right := firstOperand(arg, "left"), lastOperand(arg, "right")
		if left == nil || right == nil || right.Kind() != kindNumber {
			return argOther
		}
		if c.isHalved(left.Text()) && trailingOffset.MatchString(text) {
			return argDivide
		}
		if left.Kind() == kindIdentifier && strings.Contains(text, "-") && !strings.Contains(text, "/") {
			return argSubtract
		}
	}
	return argOther
}

func isSelfCall(call syntax.Node, name string) bool {
	return isIdentifier(firstOperand(call, "function"), name)
}

// AnalyzeRecursion scans fn for direct calls to name and counts the
// arguments that halve or decrement the input.
func AnalyzeRecursion(fn syntax.Node, name string) FunctionRecord {
	record := FunctionRecord{Name: name}
	if fn == nil {
		return record
	}
	vars := newClassification()
	syntax.Walk(fn, func(n syntax.Node) bool {
		switch n.Kind() {
		case kindAssignment, kindInitDeclarator:
			vars.observe(n)
		case kindCall:
			if !isSelfCall(n, name) {
				return true
			}
			record.IsRecursive = true
			args := n.Field("arguments")
			if args == nil {
				return true
			}
			for _, arg := range args.NamedChildren() {
				switch vars.classify(arg) {
				case argDivide:
					record.DivideCount++
				case argSubtract:
					record.SubtractCount++
				}
			}
		}
		return true
	})
	return record
}
