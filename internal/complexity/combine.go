package complexity

import "strings"

// Labels produced by the recursion classifier.
const (
	Constant     = "O(1)"
	Logarithmic  = "O(log n)"
	Linear       = "O(n)"
	Linearithmic = "O(n log n)"
	Exponential2 = "O(2^n)"
	Exponential3 = "O(3^n)"
)

// RecursionLabel maps the recursive records of a unit to a label. Divide and
// subtract counts are maximized independently across all records.
func RecursionLabel(records []FunctionRecord) string {
	var maxDivide, maxSubtract uint
	for _, r := range records {
		if !r.IsRecursive {
			continue
		}
		maxDivide = max(maxDivide, r.DivideCount)
		maxSubtract = max(maxSubtract, r.SubtractCount)
	}

	switch {
	case maxDivide >= 2:
		return Linearithmic
	case maxDivide == 1:
		return Logarithmic
	case maxSubtract >= 3:
		return Exponential3
	case maxSubtract == 2:
		return Exponential2
	case maxSubtract == 1:
		return Linear
	default:
		return Constant
	}
}

// Combine merges the loop label and the recursion label of a unit.
func Combine(loop, rec string) string {
	switch {
	case loop == Constant:
		return rec
	case rec == Constant:
		return loop
	case loop == rec:
		return loop
	case (loop == Linear && rec == Logarithmic) || (loop == Logarithmic && rec == Linear):
		return Linearithmic
	}
	return "O(" + inner(loop) + " * " + inner(rec) + ")"
}

func inner(label string) string {
	return strings.TrimSuffix(strings.TrimPrefix(label, "O("), ")")
}
