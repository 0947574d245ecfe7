package decexpr

import (
	"strings"
)

// Expr = Assign
// Assign = name '=' Assign | Or
// Or = And { '||' And }
// And = Equality { '&&' Equality }
// Equality = Comparison { ('==' | '!=') Comparison }
// Comparison = Additive { ('>' | '>=' | '<' | '<=') Additive }
// Additive = Multiplicative { ('+' | '-') Multiplicative }
// Multiplicative = Unary { ('*' | '/' | '%') Unary }
// Unary = '-' Unary | Pow
// Pow = Call [ '^' Unary ]
// Call = name '(' [ Expr { ',' Expr } ] ')' | Primary
// Primary = num | name | '(' Expr ')'

// Expr is a parsed expression that can be evaluated with a context. An Expr
// is never modified after parsing, so it may be evaluated any number of times
// and by several contexts at once.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// names is the list of variable names read in the expression.
	names []string
	// funcs is the list of function names called in the expression.
	funcs []string
}

// Parse parses an expression so it can be evaluated with a context. The given
// options are applied in order.
func Parse(src string, opts ...ParseOption) (*Expr, error) {
	var p parsectx
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	toks, err := lex(src, p.prec.apd()).all()
	if err != nil {
		return nil, err
	}
	ps := parser{toks: toks}
	n, err := ps.parseassign()
	if err != nil {
		return nil, err
	}
	if tok := ps.peek(); tok.kind != tokenEOF {
		return nil, &TrailingError{Col: tok.pos, Text: tok.text}
	}
	names := make(map[string]bool)
	funcs := make(map[string]bool)
	n.walk(func(n *node) {
		switch n.kind {
		case nodeName:
			names[fold(n.name)] = true
		case nodeCall:
			funcs[fold(n.name)] = true
		}
	})
	return &Expr{n: n, names: keysof(names), funcs: keysof(funcs)}, nil
}

// fold is the canonical form of a variable or function name.
func fold(name string) string {
	return strings.ToLower(name)
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// maxDepth is the deepest nesting of brackets, calls, assignments, negations
// and exponents that Parse accepts.
const maxDepth = 1000

type parser struct {
	toks []lexToken
	// k is the index of the next token.
	k int
	// depth is the current nesting level.
	depth int
}

// nested runs parse one nesting level deeper than tok.
func (p *parser) nested(tok lexToken, parse func() (*node, error)) (*node, error) {
	if p.depth >= maxDepth {
		return nil, &DepthError{Col: tok.pos}
	}
	p.depth++
	n, err := parse()
	p.depth--
	return n, err
}

// peek returns the next token without consuming it.
func (p *parser) peek() lexToken {
	return p.toks[p.k]
}

// next consumes and returns the next token. The final EOF is never consumed.
func (p *parser) next() lexToken {
	tok := p.toks[p.k]
	if tok.kind != tokenEOF {
		p.k++
	}
	return tok
}

// match consumes the next token if it has one of the given kinds.
func (p *parser) match(kinds ...tokenKind) (lexToken, bool) {
	tok := p.peek()
	for _, k := range kinds {
		if tok.kind == k {
			p.k++
			return tok, true
		}
	}
	return tok, false
}

// parseassign parses an assignment or anything more binding. Assignment is
// right-associative.
func (p *parser) parseassign() (*node, error) {
	n, err := p.parselevel(0)
	if err != nil {
		return nil, err
	}
	tok, ok := p.match(tokenAssign)
	if !ok {
		return n, nil
	}
	if n.kind != nodeName {
		return nil, &AssignError{Col: tok.pos, Target: n.String()}
	}
	rhs, err := p.nested(tok, p.parseassign)
	if err != nil {
		return nil, err
	}
	return &node{kind: nodeAssign, name: n.name, right: rhs}, nil
}

// levels lists the left-associative binary operators from least to most
// binding.
var levels = [...]struct {
	kind nodeKind
	ops  []tokenKind
}{
	{nodeLogical, []tokenKind{tokenOr}},
	{nodeLogical, []tokenKind{tokenAnd}},
	{nodeBinary, []tokenKind{tokenEq, tokenNe}},
	{nodeBinary, []tokenKind{tokenGt, tokenGe, tokenLt, tokenLe}},
	{nodeBinary, []tokenKind{tokenPlus, tokenMinus}},
	{nodeBinary, []tokenKind{tokenStar, tokenSlash, tokenPercent}},
}

// parselevel parses one left-associative precedence level, folding operands
// to the left.
func (p *parser) parselevel(i int) (*node, error) {
	if i == len(levels) {
		return p.parseunary()
	}
	n, err := p.parselevel(i + 1)
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.match(levels[i].ops...)
		if !ok {
			return n, nil
		}
		rhs, err := p.parselevel(i + 1)
		if err != nil {
			return nil, err
		}
		n = &node{kind: levels[i].kind, op: tok.kind, left: n, right: rhs}
	}
}

// parseunary parses a negation or anything more binding.
func (p *parser) parseunary() (*node, error) {
	if tok, ok := p.match(tokenMinus); ok {
		n, err := p.nested(tok, p.parseunary)
		if err != nil {
			return nil, err
		}
		return &node{kind: nodeUnary, op: tok.kind, left: n}, nil
	}
	return p.parsepow()
}

// parsepow parses an exponentiation or anything more binding. The exponent
// is parsed as a unary term, which makes ^ right-associative and allows
// negative exponents: 2^-1^2 is 2^(-(1^2)).
func (p *parser) parsepow() (*node, error) {
	n, err := p.parsecall()
	if err != nil {
		return nil, err
	}
	tok, ok := p.match(tokenCaret)
	if !ok {
		return n, nil
	}
	rhs, err := p.nested(tok, p.parseunary)
	if err != nil {
		return nil, err
	}
	return &node{kind: nodeBinary, op: tok.kind, left: n, right: rhs}, nil
}

// parsecall parses a function call, or a primary term if the next tokens are
// not a name followed by an open bracket.
func (p *parser) parsecall() (*node, error) {
	if p.peek().kind != tokenIdent || p.toks[p.k+1].kind != tokenOpen {
		return p.parseprimary()
	}
	name := p.next()
	p.next()
	n := &node{kind: nodeCall, name: name.text}
	if _, ok := p.match(tokenClose); ok {
		// Niladic call.
		return n, nil
	}
	for {
		arg, err := p.nested(name, p.parseassign)
		if err != nil {
			return nil, err
		}
		n.args = append(n.args, arg)
		if _, ok := p.match(tokenComma); ok {
			continue
		}
		if end, ok := p.match(tokenClose); !ok {
			return nil, &BracketError{Col: end.pos, Found: end.text}
		}
		return n, nil
	}
}

// parseprimary parses a number, a variable, or a parenthesized expression.
func (p *parser) parseprimary() (*node, error) {
	tok := p.next()
	switch tok.kind {
	case tokenNum:
		return &node{kind: nodeNum, name: tok.text, val: tok.lit}, nil
	case tokenIdent:
		return &node{kind: nodeName, name: tok.text}, nil
	case tokenOpen:
		n, err := p.nested(tok, p.parseassign)
		if err != nil {
			return nil, err
		}
		if end, ok := p.match(tokenClose); !ok {
			return nil, &BracketError{Col: end.pos, Found: end.text}
		}
		return &node{kind: nodeGroup, left: n}, nil
	default:
		return nil, &EmptyExpressionError{Col: tok.pos, End: tok.text}
	}
}

// Vars returns the variable names read when evaluating the expression, in
// canonical lower case.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// Funcs returns the function names called when evaluating the expression, in
// canonical lower case.
func (e *Expr) Funcs() []string {
	return append(([]string)(nil), e.funcs...)
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each term.
func (e *Expr) String() string {
	return e.n.String()
}
