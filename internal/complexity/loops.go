package complexity

import (
	"regexp"
	"strings"
	"unicode"

	"bigocheck/internal/syntax"
)

const (
	kindFor        = "for_statement"
	kindWhile      = "while_statement"
	kindDo         = "do_statement"
	kindIdentifier = "identifier"
	kindAssignment = "assignment_expression"
	kindUpdate     = "update_expression"
)

var (
	compoundScale  = regexp.MustCompile(`\*=|/=|<<=|>>=`)
	selfAssignment = regexp.MustCompile(`^([A-Za-z_]\w*)=([^=].*)$`)
	scaledValue    = regexp.MustCompile(`=[^=]*[*/]|=[^=]*(<<|>>)`)
	steppedValue   = regexp.MustCompile(`\+=|-=|=[^=]*[+-]`)
	halvingText    = regexp.MustCompile(`/\s*2|>>\s*1`)
)

func isLoop(n syntax.Node) bool {
	switch n.Kind() {
	case kindFor, kindWhile, kindDo:
		return true
	}
	return false
}

func loopBody(loop syntax.Node) syntax.Node {
	if body := loop.Field("body"); body != nil {
		return body
	}
	children := loop.NamedChildren()
	if len(children) == 0 {
		return nil
	}
	switch loop.Kind() {
	case kindDo:
		return children[0]
	case kindWhile, kindFor:
		return children[len(children)-1]
	}
	return nil
}

func loopCondition(loop syntax.Node) syntax.Node {
	if cond := loop.Field("condition"); cond != nil {
		return cond
	}
	if loop.Kind() == kindDo {
		if children := loop.NamedChildren(); len(children) > 1 {
			return children[1]
		}
	}
	return nil
}

type loopFrame struct {
	loop     bool
	local    Term
	children []syntax.Node
	next     int
	best     Term
}

func newLoopFrame(n syntax.Node) *loopFrame {
	if !isLoop(n) {
		return &loopFrame{children: n.NamedChildren()}
	}
	f := &loopFrame{loop: true, local: linearTerm}
	if IsLogLoop(n) {
		f.local = logTerm
	}
	if body := loopBody(n); body != nil {
		f.children = []syntax.Node{body}
	}
	return f
}

// LoopComplexity computes the loop-induced cost of the subtree at n. Nested
// loops add their exponents; siblings contribute only their maximum.
func LoopComplexity(n syntax.Node) Term {
	if n == nil {
		return constantTerm
	}
	var result Term
	stack := []*loopFrame{newLoopFrame(n)}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next < len(top.children) {
			child := top.children[top.next]
			top.next++
			stack = append(stack, newLoopFrame(child))
			continue
		}
		stack = stack[:len(stack)-1]

		term := top.best
		if top.loop {
			term = top.local.Add(top.best)
		}
		if len(stack) == 0 {
			result = term
			break
		}
		parent := stack[len(stack)-1]
		parent.best = maxTerm(parent.best, term)
	}
	return result
}

// IsLogLoop reports whether the loop's control variable progresses
// multiplicatively (halving, doubling, shifting) rather than by a fixed step.
func IsLogLoop(loop syntax.Node) bool {
	if loop.Kind() == kindFor {
		if update := loop.Field("update"); update != nil && scalesItself(stripSpace(update.Text())) {
			return true
		}
	}

	cond := loopCondition(loop)
	if cond == nil {
		return false
	}
	body := loopBody(loop)
	ids := identifiers(cond)
	switch {
	case len(ids) >= 2:
		// Two-pointer loops narrow by halving the range inside the body.
		return body != nil && halvingText.MatchString(body.Text())
	case len(ids) == 1:
		return body != nil && scalesInBody(body, ids[0])
	default:
		return false
	}
}

// scalesItself matches update clauses such as "i*=2", "i>>=1", "i=i/2" or
// "i=i<<1".
func scalesItself(update string) bool {
	if compoundScale.MatchString(update) {
		return true
	}
	m := selfAssignment.FindStringSubmatch(update)
	if m == nil || !strings.HasPrefix(m[2], m[1]) {
		return false
	}
	rest := m[2][len(m[1]):]
	switch {
	case strings.HasPrefix(rest, "*"), strings.HasPrefix(rest, "/"):
		return true
	case strings.HasPrefix(rest, "<<"), strings.HasPrefix(rest, ">>"):
		return len(rest) > 2 && rest[2] >= '0' && rest[2] <= '9'
	}
	return false
}

// scalesInBody scans body in pre-order for the first update of name. A
// multiplicative update makes the loop logarithmic, an additive one settles
// it as linear.
func scalesInBody(body syntax.Node, name string) bool {
	settled, logarithmic := false, false
	syntax.Walk(body, func(n syntax.Node) bool {
		if settled {
			return false
		}
		switch n.Kind() {
		case kindAssignment:
			if !isIdentifier(firstOperand(n, "left"), name) {
				return true
			}
			text := stripSpace(n.Text())
			switch {
			case compoundScale.MatchString(text), scaledValue.MatchString(text):
				settled, logarithmic = true, true
			case steppedValue.MatchString(text):
				settled = true
			}
		case kindUpdate:
			if isIdentifier(firstOperand(n, "argument"), name) {
				settled = true
			}
		}
		return !settled
	})
	return logarithmic
}

// identifiers collects the distinct identifier names under n in source order.
func identifiers(n syntax.Node) []string {
	seen := make(map[string]struct{})
	var ids []string
	syntax.Walk(n, func(c syntax.Node) bool {
		if c.Kind() == kindIdentifier {
			name := c.Text()
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				ids = append(ids, name)
			}
		}
		return true
	})
	return ids
}

// firstOperand returns the named field, falling back to the first named child.
func firstOperand(n syntax.Node, field string) syntax.Node {
	if f := n.Field(field); f != nil {
		return f
	}
	if children := n.NamedChildren(); len(children) > 0 {
		return children[0]
	}
	return nil
}

// lastOperand returns the named field, falling back to the last named child.
func lastOperand(n syntax.Node, field string) syntax.Node {
	if f := n.Field(field); f != nil {
		return f
	}
	if children := n.NamedChildren(); len(children) > 0 {
		return children[len(children)-1]
	}
	return nil
}

func isIdentifier(n syntax.Node, name string) bool {
	return n != nil && n.Kind() == kindIdentifier && n.Text() == name
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
