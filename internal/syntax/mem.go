package syntax

// Mem is an in-memory Node for trees built by hand or by producers other
// than tree-sitter.
type Mem struct {
	Type      string
	Source    string
	Children  []*Mem
	Fields    map[string]*Mem
	StartLine int
}

// NewMem creates a node with the given kind, source text and named children.
func NewMem(kind, text string, children ...*Mem) *Mem {
	return &Mem{Type: kind, Source: text, Children: children}
}

// Set registers child under a field name and appends it to the children
// unless it is already one of them.
func (m *Mem) Set(field string, child *Mem) *Mem {
	if m.Fields == nil {
		m.Fields = make(map[string]*Mem)
	}
	m.Fields[field] = child
	for _, c := range m.Children {
		if c == child {
			return m
		}
	}
	m.Children = append(m.Children, child)
	return m
}

// At sets the start line and returns m.
func (m *Mem) At(line int) *Mem {
	m.StartLine = line
	return m
}

func (m *Mem) Kind() string {
	return m.Type
}

func (m *Mem) NamedChildren() []Node {
	children := make([]Node, 0, len(m.Children))
	for _, c := range m.Children {
		if c != nil {
			children = append(children, c)
		}
	}
	return children
}

func (m *Mem) Field(name string) Node {
	if child, ok := m.Fields[name]; ok && child != nil {
		return child
	}
	return nil
}

func (m *Mem) Text() string {
	return m.Source
}

func (m *Mem) Line() int {
	return m.StartLine
}
