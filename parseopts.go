package decexpr

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

// parsectx holds general data for parsing.
type parsectx struct {
	// prec is the precision under which number literals are parsed.
	prec Precision
}

type precparseopt Precision

// ParsePrecision sets the precision context used to parse number literals.
// Literals with more significant digits than p allows are rounded. The
// default is DefaultPrecision.
func ParsePrecision(p Precision) ParseOption {
	return precparseopt(p)
}

func (o precparseopt) parseOption(p parsectx) parsectx {
	p.prec = Precision(o)
	return p
}
