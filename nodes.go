package decexpr

import (
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// node is a node in the abstract syntax tree of an expression.
type node struct {
	kind nodeKind
	// op is the operator of a logical, binary, or unary node.
	op tokenKind

	// name is the source text of a number, or the variable or function name.
	name string
	// val is the value of a number.
	val *apd.Decimal

	left  *node
	right *node
	args  []*node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum     // val
	nodeName    // lookup(name)
	nodeAssign  // name = eval right
	nodeLogical // eval left, eval right unless it can't matter
	nodeBinary  // eval left, eval right, apply op
	nodeUnary   // eval left, apply op
	nodeCall    // eval args in order, call name
	nodeGroup   // eval left
)

//go:generate go run golang.org/x/tools/cmd/stringer@v0.1.0 -type=nodeKind -trimprefix=node

// opstrs gives the source text of each operator.
var opstrs = map[tokenKind]string{
	tokenPlus:    "+",
	tokenMinus:   "-",
	tokenStar:    "*",
	tokenSlash:   "/",
	tokenPercent: "%",
	tokenCaret:   "^",
	tokenAssign:  "=",
	tokenEq:      "==",
	tokenNe:      "!=",
	tokenGt:      ">",
	tokenGe:      ">=",
	tokenLt:      "<",
	tokenLe:      "<=",
	tokenOr:      "||",
	tokenAnd:     "&&",
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b, false)
	return b.String()
}

func (n *node) fmt(b *strings.Builder, square bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		if n.left != nil {
			n.left.fmt(b, !square)
		}
		b.WriteByte('#')
		if n.right != nil {
			n.right.fmt(b, !square)
		}
		b.WriteByte('$')
	case nodeNum, nodeName:
		b.WriteString(n.name)
	case nodeAssign:
		b.WriteString(n.name)
		b.WriteString(" = ")
		n.right.fmt(b, !square)
	case nodeLogical, nodeBinary:
		n.left.fmt(b, !square)
		b.WriteByte(' ')
		b.WriteString(opstrs[n.op])
		b.WriteByte(' ')
		n.right.fmt(b, !square)
	case nodeUnary:
		b.WriteString(opstrs[n.op])
		n.left.fmt(b, !square)
	case nodeCall:
		b.WriteString(n.name)
		n.fmtargs(b, !square)
	case nodeGroup:
		n.left.fmt(b, !square)
	default:
		panic("decexpr: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

func (n *node) fmtargs(b *strings.Builder, square bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	for i, a := range n.args {
		if i > 0 {
			b.WriteString(", ")
		}
		a.fmt(b, !square)
	}
}

// walk calls f on n and each of its descendants in prefix order.
func (n *node) walk(f func(*node)) {
	if n == nil {
		return
	}
	f(n)
	n.left.walk(f)
	n.right.walk(f)
	for _, a := range n.args {
		a.walk(f)
	}
}
