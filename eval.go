package decexpr

import (
	"log/slog"

	"github.com/cockroachdb/apd/v3"

	"github.com/zephyrtronium/decexpr/log"
)

// Context is a context for evaluating expressions. It holds the variables,
// the functions, and the precision used for evaluation. Evaluation may assign
// variables. It is not safe to use a Context concurrently.
type Context struct {
	names map[string]*apd.Decimal
	funcs map[string]Func
	prec  Precision
	log   log.Logger
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	varopt struct {
		name string
		val  *apd.Decimal
	}
	varsopt map[string]*apd.Decimal
	funcopt struct {
		name string
		fn   Func
	}
	precopt Precision
	logopt  struct{ log log.Logger }
)

func (varopt) ctxOption()  {}
func (varsopt) ctxOption() {}
func (funcopt) ctxOption() {}
func (precopt) ctxOption() {}
func (logopt) ctxOption()  {}

// SetVar sets the value of a variable in the context. A nil val removes the
// variable.
func SetVar(name string, val *apd.Decimal) ContextOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the context.
func SetVars(vars map[string]*apd.Decimal) ContextOption {
	return varsopt(vars)
}

// SetFunc registers a function in the context. A nil fn removes the function.
func SetFunc(name string, fn Func) ContextOption {
	return funcopt{name, fn}
}

// Prec sets the precision context of calculations.
func Prec(p Precision) ContextOption {
	return precopt(p)
}

// WithLogger sets the logger that receives evaluation traces.
func WithLogger(l log.Logger) ContextOption {
	return logopt{l}
}

// NewContext creates a new evaluation context with the builtin functions and
// no variables. If no precision is given, the default is DefaultPrecision.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{
		funcs: make(map[string]Func, len(builtins)),
		prec:  DefaultPrecision,
	}
	for _, f := range builtins {
		ctx.funcs[f.Name] = f
	}
	return ctx.Clone(opts...)
}

// Eval evaluates an expression and returns the result. Assignments in the
// expression update the context's variables even if evaluation later fails.
func (ctx *Context) Eval(e *Expr) (*apd.Decimal, error) {
	r, err := e.n.eval(ctx)
	if err != nil {
		ctx.log.Trace("eval failed",
			slog.String("expr", e.String()),
			slog.Any("error", err),
		)
		return nil, err
	}
	ctx.log.Trace("eval",
		slog.String("expr", e.String()),
		slog.String("result", r.String()),
	)
	return new(apd.Decimal).Set(r), nil
}

// EvalString parses and evaluates an expression in a new context created
// with opts. Number literals are parsed under the context's precision.
func EvalString(src string, opts ...ContextOption) (*apd.Decimal, error) {
	ctx := NewContext(opts...)
	e, err := Parse(src, ParsePrecision(ctx.Prec()))
	if err != nil {
		return nil, err
	}
	return ctx.Eval(e)
}

// Set sets the value of a variable. Names are case-insensitive. A nil value
// removes the variable. Returns ctx for chaining.
func (ctx *Context) Set(name string, value *apd.Decimal) *Context {
	if value == nil {
		return ctx.Unset(name)
	}
	ctx.names[fold(name)] = new(apd.Decimal).Set(value)
	return ctx
}

// SetInt sets the value of a variable to an integer.
func (ctx *Context) SetInt(name string, value int64) *Context {
	ctx.names[fold(name)] = apd.New(value, 0)
	return ctx
}

// Unset removes a variable.
func (ctx *Context) Unset(name string) *Context {
	delete(ctx.names, fold(name))
	return ctx
}

// Lookup returns a copy of the value of a variable. If there is no such
// variable in the context, then the result is nil.
func (ctx *Context) Lookup(name string) *apd.Decimal {
	v := ctx.names[fold(name)]
	if v == nil {
		return nil
	}
	return new(apd.Decimal).Set(v)
}

// Names returns the names of all variables in canonical lower case.
func (ctx *Context) Names() []string {
	return keysof(ctx.names)
}

// Register sets a function. Names are case-insensitive. A nil fn removes the
// function.
func (ctx *Context) Register(name string, fn Func) *Context {
	if fn == nil {
		delete(ctx.funcs, fold(name))
		return ctx
	}
	ctx.funcs[fold(name)] = fn
	return ctx
}

// Func returns the function registered under name, or nil.
func (ctx *Context) Func(name string) Func {
	return ctx.funcs[fold(name)]
}

// Funcs returns the names of all functions in canonical lower case.
func (ctx *Context) Funcs() []string {
	return keysof(ctx.funcs)
}

// Prec returns the precision context of calculations.
func (ctx *Context) Prec() Precision {
	return ctx.prec
}

// SetPrec sets the precision context of calculations. Existing variable
// values are not rounded.
func (ctx *Context) SetPrec(p Precision) *Context {
	ctx.prec = p
	return ctx
}

// Clone creates a copy of a context and applies options to it. Variables and
// functions set on the copy do not affect the original.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{
		names: make(map[string]*apd.Decimal, len(ctx.names)),
		funcs: make(map[string]Func, len(ctx.funcs)),
		prec:  ctx.prec,
		log:   ctx.log,
	}
	// Values are never modified in place, so pointers can be shared.
	for k, v := range ctx.names {
		n.names[k] = v
	}
	for k, v := range ctx.funcs {
		n.funcs[k] = v
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.Set(opt.name, opt.val)
		case varsopt:
			for k, v := range opt {
				n.Set(k, v)
			}
		case funcopt:
			n.Register(opt.name, opt.fn)
		case precopt:
			n.prec = Precision(opt)
		case logopt:
			n.log = opt.log
		default:
			panic("decexpr: unknown option type")
		}
	}
	return &n
}

func keysof[T any](m map[string]T) []string {
	r := make([]string, 0, len(m))
	for k := range m {
		r = append(r, k)
	}
	sortstrs(r)
	return r
}

// eval computes the node's value. The result must not be modified.
func (n *node) eval(ctx *Context) (*apd.Decimal, error) {
	switch n.kind {
	case nodeNum:
		return n.val, nil
	case nodeName:
		v := ctx.names[fold(n.name)]
		if v == nil {
			return nil, &NameError{Name: n.name}
		}
		return v, nil
	case nodeAssign:
		v, err := n.right.eval(ctx)
		if err != nil {
			return nil, err
		}
		ctx.names[fold(n.name)] = v
		return v, nil
	case nodeGroup:
		return n.left.eval(ctx)
	case nodeUnary:
		v, err := n.left.eval(ctx)
		if err != nil {
			return nil, err
		}
		if n.op != tokenMinus {
			return nil, &OperatorError{Operator: opstrs[n.op], Unary: true}
		}
		return new(apd.Decimal).Neg(v), nil
	case nodeLogical:
		l, err := n.left.eval(ctx)
		if err != nil {
			return nil, err
		}
		switch n.op {
		case tokenOr:
			if truthy(l) {
				return boolean(true), nil
			}
		case tokenAnd:
			if !truthy(l) {
				return boolean(false), nil
			}
		default:
			return nil, &OperatorError{Operator: opstrs[n.op]}
		}
		r, err := n.right.eval(ctx)
		if err != nil {
			return nil, err
		}
		return boolean(truthy(r)), nil
	case nodeBinary:
		l, err := n.left.eval(ctx)
		if err != nil {
			return nil, err
		}
		r, err := n.right.eval(ctx)
		if err != nil {
			return nil, err
		}
		return binary(ctx.prec, n.op, l, r)
	case nodeCall:
		f := ctx.funcs[fold(n.name)]
		if f == nil {
			return nil, &FuncError{Name: n.name}
		}
		args := make([]*apd.Decimal, len(n.args))
		for i, a := range n.args {
			v, err := a.eval(ctx)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return f.Call(ctx, args)
	default:
		panic("decexpr: invalid AST node " + n.kind.String())
	}
}

// binary applies a binary operator to evaluated operands.
func binary(p Precision, op tokenKind, l, r *apd.Decimal) (*apd.Decimal, error) {
	switch op {
	case tokenPlus:
		return add(l, r)
	case tokenMinus:
		return sub(l, r)
	case tokenStar:
		return mul(l, r)
	case tokenSlash:
		return quo(p.apd(), l, r)
	case tokenPercent:
		return rem(p.apd(), l, r)
	case tokenCaret:
		return pow(p, l, r)
	case tokenEq:
		return boolean(l.Cmp(r) == 0), nil
	case tokenNe:
		return boolean(l.Cmp(r) != 0), nil
	case tokenGt:
		return boolean(l.Cmp(r) > 0), nil
	case tokenGe:
		return boolean(l.Cmp(r) >= 0), nil
	case tokenLt:
		return boolean(l.Cmp(r) < 0), nil
	case tokenLe:
		return boolean(l.Cmp(r) <= 0), nil
	default:
		return nil, &OperatorError{Operator: opstrs[op]}
	}
}
