package syntax

// Node is the read-only view of a syntax tree node the complexity engine
// works on. Implementations must return a nil interface (not a typed nil)
// from Field when the field is absent.
type Node interface {
	// Kind returns the grammar tag, e.g. "for_statement".
	Kind() string

	// NamedChildren returns the named children in source order.
	NamedChildren() []Node

	// Field looks up a child by grammar field name.
	Field(name string) Node

	// Text returns the source span covered by the node.
	Text() string
}

// Located is implemented by nodes that know where they start in the source.
type Located interface {
	// Line is the 1-based line of the node's first byte.
	Line() int
}

// LineOf returns the start line of n, or 0 when n does not carry positions.
func LineOf(n Node) int {
	if l, ok := n.(Located); ok {
		return l.Line()
	}
	return 0
}

// Walk visits n and its named descendants in depth-first pre-order.
// Returning false from visit skips the node's children.
func Walk(n Node, visit func(Node) bool) {
	if n == nil {
		return
	}
	stack := []Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visit(cur) {
			continue
		}
		children := cur.NamedChildren()
		for i := len(children) - 1; i >= 0; i-- {
			if children[i] != nil {
				stack = append(stack, children[i])
			}
		}
	}
}
