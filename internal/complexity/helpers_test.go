package complexity

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"bigocheck/internal/syntax"
)

// parseCPP parses src with the C++ grammar and returns its root node.
func parseCPP(t *testing.T, src string) syntax.Node {
	t.Helper()
	parser, err := syntax.NewParser(syntax.LangCPP)
	require.NoError(t, err)
	t.Cleanup(parser.Close)

	tree, err := parser.Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	t.Cleanup(tree.Close)

	root := tree.Root()
	require.NotNil(t, root)
	return root
}

// The builders below mirror the node shapes of the tree-sitter C/C++ grammars.

func ident(name string) *syntax.Mem { return syntax.NewMem("identifier", name) }

func num(v string) *syntax.Mem { return syntax.NewMem("number_literal", v) }

func binary(left *syntax.Mem, op string, right *syntax.Mem) *syntax.Mem {
	return syntax.NewMem("binary_expression", left.Source+" "+op+" "+right.Source).
		Set("left", left).
		Set("right", right)
}

func assign(target *syntax.Mem, op string, value *syntax.Mem) *syntax.Mem {
	return syntax.NewMem("assignment_expression", target.Source+" "+op+" "+value.Source).
		Set("left", target).
		Set("right", value)
}

func update(target *syntax.Mem, op string) *syntax.Mem {
	return syntax.NewMem("update_expression", target.Source+op).Set("argument", target)
}

func initDecl(name string, value *syntax.Mem) *syntax.Mem {
	return syntax.NewMem("init_declarator", name+" = "+value.Source).
		Set("declarator", ident(name)).
		Set("value", value)
}

func stmt(e *syntax.Mem) *syntax.Mem {
	return syntax.NewMem("expression_statement", e.Source+";", e)
}

func block(stmts ...*syntax.Mem) *syntax.Mem {
	parts := make([]string, 0, len(stmts))
	for _, s := range stmts {
		parts = append(parts, s.Source)
	}
	return syntax.NewMem("compound_statement", "{ "+strings.Join(parts, " ")+" }", stmts...)
}

func forLoop(cond, upd, body *syntax.Mem) *syntax.Mem {
	n := syntax.NewMem("for_statement", "for (...) "+body.Source)
	if cond != nil {
		n.Set("condition", cond)
	}
	if upd != nil {
		n.Set("update", upd)
	}
	return n.Set("body", body)
}

func whileLoop(cond, body *syntax.Mem) *syntax.Mem {
	return syntax.NewMem("while_statement", "while ("+cond.Source+") "+body.Source).
		Set("condition", cond).
		Set("body", body)
}

func call(name string, args ...*syntax.Mem) *syntax.Mem {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, a.Source)
	}
	list := syntax.NewMem("argument_list", "("+strings.Join(parts, ", ")+")", args...)
	return syntax.NewMem("call_expression", name+list.Source).
		Set("function", ident(name)).
		Set("arguments", list)
}

func function(name string, body *syntax.Mem) *syntax.Mem {
	decl := syntax.NewMem("function_declarator", name+"(int n)",
		ident(name), syntax.NewMem("parameter_list", "(int n)"))
	return syntax.NewMem("function_definition", "int "+decl.Source+" "+body.Source).
		Set("declarator", decl).
		Set("body", body)
}
