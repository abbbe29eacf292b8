package complexity

import "bigocheck/internal/syntax"

const (
	kindFunction = "function_definition"

	// UnknownName is used for functions whose declarator cannot be resolved.
	UnknownName = "unknown"
)

// Functions returns every function definition below root in depth-first
// pre-order, root included.
func Functions(root syntax.Node) []syntax.Node {
	var fns []syntax.Node
	syntax.Walk(root, func(n syntax.Node) bool {
		if n.Kind() == kindFunction {
			fns = append(fns, n)
		}
		return true
	})
	return fns
}

// FunctionName resolves the display name of a function definition from the
// first named child of its declarator.
func FunctionName(fn syntax.Node) string {
	decl := fn.Field("declarator")
	if decl == nil {
		return UnknownName
	}
	children := decl.NamedChildren()
	if len(children) == 0 || children[0] == nil {
		return UnknownName
	}
	if name := children[0].Text(); name != "" {
		return name
	}
	return UnknownName
}
