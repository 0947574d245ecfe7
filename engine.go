package decexpr

import (
	"log/slog"
	"strconv"

	"github.com/cockroachdb/apd/v3"
	"github.com/zeebo/xxh3"

	"github.com/zephyrtronium/decexpr/log"
)

// CacheSize is the number of parsed expressions an Engine keeps.
const CacheSize = 256

// Engine evaluates expression text. It owns a Context holding the variables,
// functions, and precision, and defines the constants pi and e in it. An
// Engine is not safe for concurrent use, but separate Engines share nothing.
type Engine struct {
	ctx *Context
	log log.Logger
	// consts holds the values of the predefined constants as last computed.
	// A constant is refreshed on precision changes only while the variable
	// still holds that exact value.
	consts map[string]*apd.Decimal
	// cache maps the hash of source text to its parsed expression. Parsing
	// depends on the precision, so the cache is emptied when it changes.
	cache map[xxh3.Uint128]*Expr
}

// New creates an Engine. The options apply to the Engine's Context.
func New(opts ...ContextOption) *Engine {
	ctx := NewContext(opts...)
	e := Engine{
		ctx:    ctx,
		log:    ctx.log.With(slog.String("component", "engine")),
		consts: make(map[string]*apd.Decimal, 2),
		cache:  make(map[xxh3.Uint128]*Expr),
	}
	e.refresh(true)
	return &e
}

// refresh recomputes the predefined constants under the current precision.
// Unless force is set, constants the user has redefined are left alone.
func (e *Engine) refresh(force bool) {
	p := e.ctx.Prec()
	for name, fn := range map[string]func(Precision) *apd.Decimal{"pi": constPi, "e": constE} {
		if cur := e.ctx.names[name]; !force && (cur == nil || cur != e.consts[name]) {
			continue
		}
		v := fn(p)
		e.consts[name] = v
		e.ctx.names[name] = v
	}
}

// Context returns the Engine's evaluation context.
func (e *Engine) Context() *Context {
	return e.ctx
}

// Parse parses text under the Engine's precision, reusing a cached result
// when the same text was parsed before.
func (e *Engine) Parse(text string) (*Expr, error) {
	h := xxh3.HashString128(text)
	if x := e.cache[h]; x != nil {
		e.log.Trace("parse cache hit", slog.String("text", text))
		return x, nil
	}
	x, err := Parse(text, ParsePrecision(e.ctx.Prec()))
	if err != nil {
		return nil, err
	}
	if len(e.cache) >= CacheSize {
		// Evict an arbitrary entry.
		for k := range e.cache {
			delete(e.cache, k)
			break
		}
	}
	e.cache[h] = x
	e.log.Trace("parse cache miss", slog.String("text", text), slog.Int("size", len(e.cache)))
	return x, nil
}

// Evaluate parses and evaluates text, returning the first error from either
// step.
func (e *Engine) Evaluate(text string) (*apd.Decimal, error) {
	x, err := e.Parse(text)
	if err != nil {
		e.log.Trace("parse failed", slog.String("text", text), slog.Any("error", err))
		return nil, err
	}
	return e.ctx.Eval(x)
}

// EvaluateString evaluates text and formats the result for display: rounded
// to the active precision, without insignificant trailing zeros, in plain
// notation. If evaluation fails, the result is the error message instead.
func (e *Engine) EvaluateString(text string) string {
	v, err := e.Evaluate(text)
	if err != nil {
		return err.Error()
	}
	return Display(e.ctx.Prec(), v)
}

// SetPrecision sets the number of significant digits for lossy operations.
func (e *Engine) SetPrecision(digits int) error {
	if digits < 1 || digits > MaxDigits {
		return &PrecisionError{Digits: int64(digits)}
	}
	p := e.ctx.Prec()
	if p.Digits == uint32(digits) {
		return nil
	}
	p.Digits = uint32(digits)
	e.ctx.SetPrec(p)
	clear(e.cache)
	e.refresh(false)
	e.log.Debug("set precision", slog.Int("digits", digits))
	return nil
}

// SetRounding sets the rounding mode for lossy operations.
func (e *Engine) SetRounding(mode Rounding) {
	p := e.ctx.Prec()
	p.Rounding = mode
	e.ctx.SetPrec(p)
	clear(e.cache)
	e.log.Debug("set rounding", slog.String("mode", mode.String()))
}

// Precision returns the active precision context.
func (e *Engine) Precision() Precision {
	return e.ctx.Prec()
}

// Define sets a variable. Names are case-insensitive. A nil value removes
// the variable.
func (e *Engine) Define(name string, value *apd.Decimal) {
	e.ctx.Set(name, value)
	if value == nil {
		e.log.Debug("undefine", slog.String("name", name))
		return
	}
	e.log.Debug("define", slog.String("name", name), slog.String("value", value.String()))
}

// DefineInt sets a variable to an integer.
func (e *Engine) DefineInt(name string, value int64) {
	e.ctx.SetInt(name, value)
	e.log.Debug("define", slog.String("name", name), slog.String("value", strconv.FormatInt(value, 10)))
}

// DefineString sets a variable to a decimal literal, parsed under the active
// precision.
func (e *Engine) DefineString(name, value string) error {
	v, _, err := e.ctx.Prec().apd().NewFromString(value)
	if err != nil {
		return &LexError{Text: value, Col: 1}
	}
	e.Define(name, v)
	return nil
}

// Lookup returns a copy of a variable's value, or nil if it is undefined.
func (e *Engine) Lookup(name string) *apd.Decimal {
	return e.ctx.Lookup(name)
}

// RegisterFunction sets a function. Names are case-insensitive. A nil fn
// removes the function.
func (e *Engine) RegisterFunction(name string, fn Func) {
	e.ctx.Register(name, fn)
	e.log.Debug("register function", slog.String("name", name), slog.Bool("removed", fn == nil))
}
