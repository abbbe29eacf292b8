package syntax

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
)

// Language names a tree-sitter grammar the adapter can load.
type Language string

const (
	LangC   Language = "c"
	LangCPP Language = "cpp"
)

// ErrUnknownLanguage is returned when no grammar is registered for a language.
var ErrUnknownLanguage = errors.New("unknown language")

func grammar(lang Language) (*sitter.Language, error) {
	switch lang {
	case LangC:
		return c.GetLanguage(), nil
	case LangCPP:
		return cpp.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
}

// Parser wraps a tree-sitter parser bound to one grammar.
// A Parser is not safe for concurrent use; create one per goroutine.
type Parser struct {
	parser *sitter.Parser
	lang   Language
}

// NewParser creates a parser for the given language.
func NewParser(lang Language) (*Parser, error) {
	g, err := grammar(lang)
	if err != nil {
		return nil, err
	}
	p := sitter.NewParser()
	p.SetLanguage(g)
	return &Parser{parser: p, lang: lang}, nil
}

// Language returns the grammar the parser was created with.
func (p *Parser) Language() Language {
	return p.lang
}

// Parse builds a syntax tree for src. The caller must Close the returned tree.
func (p *Parser) Parse(ctx context.Context, src []byte) (*Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}
	tree, err := p.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	return &Tree{tree: tree, src: src}, nil
}

// Close releases the underlying tree-sitter parser.
func (p *Parser) Close() {
	p.parser.Close()
}

// Tree is a parsed source unit.
type Tree struct {
	tree *sitter.Tree
	src  []byte
}

// Root returns the root node, or nil if tree-sitter produced none.
func (t *Tree) Root() Node {
	root := t.tree.RootNode()
	if root == nil {
		return nil
	}
	return tsNode{node: root, src: t.src}
}

// HasErrors reports whether the source contained syntax errors.
// Trees with errors are still usable; error regions show up as ERROR nodes.
func (t *Tree) HasErrors() bool {
	root := t.tree.RootNode()
	return root != nil && root.HasError()
}

// Close releases the tree. Nodes obtained from it must not be used afterwards.
func (t *Tree) Close() {
	t.tree.Close()
}

type tsNode struct {
	node *sitter.Node
	src  []byte
}

func (n tsNode) Kind() string {
	return n.node.Type()
}

func (n tsNode) NamedChildren() []Node {
	count := int(n.node.NamedChildCount())
	children := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		if child := n.node.NamedChild(i); child != nil {
			children = append(children, tsNode{node: child, src: n.src})
		}
	}
	return children
}

func (n tsNode) Field(name string) Node {
	child := n.node.ChildByFieldName(name)
	if child == nil {
		return nil
	}
	return tsNode{node: child, src: n.src}
}

func (n tsNode) Text() string {
	return n.node.Content(n.src)
}

func (n tsNode) Line() int {
	return int(n.node.StartPoint().Row) + 1
}
