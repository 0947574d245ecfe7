package decexpr

import (
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

type lexToken struct {
	text string
	// lit is the parsed value of a tokenNum.
	lit  *apd.Decimal
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is a number literal.
	tokenNum
	// tokenIdent is a variable or function name.
	tokenIdent

	tokenPlus    // +
	tokenMinus   // -
	tokenStar    // *
	tokenSlash   // /
	tokenPercent // %
	tokenCaret   // ^
	tokenAssign  // =
	tokenEq      // ==
	tokenNe      // !=
	tokenGt      // >
	tokenGe      // >=
	tokenLt      // <
	tokenLe      // <=
	tokenOr      // ||
	tokenAnd     // &&
	tokenComma   // ,
	tokenOpen    // (
	tokenClose   // )
)

//go:generate go run golang.org/x/tools/cmd/stringer@v0.1.0 -type=tokenKind -trimprefix=token

// single maps single-character tokens to their kinds.
var single = map[rune]tokenKind{
	'+': tokenPlus,
	'-': tokenMinus,
	'*': tokenStar,
	'/': tokenSlash,
	'%': tokenPercent,
	'^': tokenCaret,
	',': tokenComma,
	'(': tokenOpen,
	')': tokenClose,
}

// double maps the first character of each two-character operator to the
// second character and the kinds with and without it. A zero kind without
// the second character means the first character is invalid alone.
var double = map[rune]struct {
	next      rune
	two, lone tokenKind
}{
	'=': {'=', tokenEq, tokenAssign},
	'!': {'=', tokenNe, tokenNone},
	'>': {'=', tokenGe, tokenGt},
	'<': {'=', tokenLe, tokenLt},
	'|': {'|', tokenOr, tokenNone},
	'&': {'&', tokenAnd, tokenNone},
}

type lexer struct {
	src []rune
	// k is the index of the next rune to scan.
	k   int
	ctx *apd.Context
}

func lex(src string, ctx *apd.Context) *lexer {
	return &lexer{src: []rune(src), ctx: ctx}
}

// at returns the rune at index i, or -1 if i is out of range.
func (l *lexer) at(i int) rune {
	if i < 0 || i >= len(l.src) {
		return -1
	}
	return l.src[i]
}

// all scans the entire input. The last token is always tokenEOF.
func (l *lexer) all() ([]lexToken, error) {
	var toks []lexToken
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokenEOF {
			return toks, nil
		}
	}
}

// next scans the next token from the input. At the end of the input, the
// result is a tokenEOF, repeatedly.
func (l *lexer) next() (lexToken, error) {
	for {
		switch l.at(l.k) {
		case ' ', '\r', '\t':
			l.k++
			continue
		}
		break
	}
	start := l.k
	tok := lexToken{pos: start + 1}
	r := l.at(start)
	switch {
	case r < 0:
		tok.kind = tokenEOF
		return tok, nil
	case isDigit(r), r == '.':
		return l.scanNum()
	case r == '_', isLetter(r):
		l.scanIdent()
		tok.text = string(l.src[start:l.k])
		tok.kind = tokenIdent
		return tok, nil
	}
	if k, ok := single[r]; ok {
		l.k++
		tok.text = string(r)
		tok.kind = k
		return tok, nil
	}
	if d, ok := double[r]; ok {
		if l.at(start+1) == d.next {
			l.k += 2
			tok.text = string(l.src[start:l.k])
			tok.kind = d.two
			return tok, nil
		}
		if d.lone != tokenNone {
			l.k++
			tok.text = string(r)
			tok.kind = d.lone
			return tok, nil
		}
	}
	return tok, &LexError{Text: string(r), Col: tok.pos}
}

// scanNum scans a number literal starting at the current rune and parses it
// under the lexer's context.
//
// Dots are part of the number wherever they appear; the literal parser
// rejects extras. An e or E continues the number only after a digit and
// before either a digit or a sign and a digit. A sign continues the number
// only immediately after such a marker.
func (l *lexer) scanNum() (lexToken, error) {
	start := l.k
	for {
		r := l.at(l.k)
		switch {
		case isDigit(r), r == '.':
			l.k++
			continue
		case r == 'e' || r == 'E':
			if isDigit(l.at(l.k-1)) {
				n := l.at(l.k + 1)
				if isDigit(n) || (n == '+' || n == '-') && isDigit(l.at(l.k+2)) {
					l.k++
					continue
				}
			}
		case r == '+' || r == '-':
			if p := l.at(l.k - 1); (p == 'e' || p == 'E') && isDigit(l.at(l.k+1)) {
				l.k++
				continue
			}
		}
		break
	}
	tok := lexToken{
		text: string(l.src[start:l.k]),
		kind: tokenNum,
		pos:  start + 1,
	}
	v, _, err := l.ctx.NewFromString(tok.text)
	if err != nil {
		return lexToken{pos: tok.pos}, &LexError{Text: tok.text, Col: tok.pos}
	}
	tok.lit = v
	return tok, nil
}

func (l *lexer) scanIdent() {
	for {
		r := l.at(l.k)
		if r != '_' && !isLetter(r) && !isDigit(r) {
			return
		}
		l.k++
	}
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}
