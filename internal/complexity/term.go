package complexity

import (
	"fmt"
	"strings"
)

// Term is the loop-induced cost O(n^Degree * (log n)^LogFactor).
type Term struct {
	Degree    uint `json:"degree"`
	LogFactor uint `json:"log_factor"`
}

var (
	constantTerm = Term{}
	linearTerm   = Term{Degree: 1}
	logTerm      = Term{LogFactor: 1}
)

// Compare orders terms by degree, then by log factor.
func (t Term) Compare(o Term) int {
	switch {
	case t.Degree != o.Degree:
		if t.Degree > o.Degree {
			return 1
		}
		return -1
	case t.LogFactor != o.LogFactor:
		if t.LogFactor > o.LogFactor {
			return 1
		}
		return -1
	default:
		return 0
	}
}

// Add multiplies the bounds of two nested constructs.
func (t Term) Add(o Term) Term {
	return Term{Degree: t.Degree + o.Degree, LogFactor: t.LogFactor + o.LogFactor}
}

func maxTerm(a, b Term) Term {
	if b.Compare(a) > 0 {
		return b
	}
	return a
}

// String formats the term as a Big-O label.
func (t Term) String() string {
	if t.Degree == 0 && t.LogFactor == 0 {
		return Constant
	}
	parts := make([]string, 0, 2)
	switch {
	case t.Degree == 1:
		parts = append(parts, "n")
	case t.Degree > 1:
		parts = append(parts, fmt.Sprintf("n^%d", t.Degree))
	}
	switch {
	case t.LogFactor == 1:
		parts = append(parts, "log n")
	case t.LogFactor > 1:
		parts = append(parts, fmt.Sprintf("(log n)^%d", t.LogFactor))
	}
	return "O(" + strings.Join(parts, " ") + ")"
}
