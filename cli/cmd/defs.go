package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-yaml"
)

// Defs is the content of a definitions file:
//
//	precision: 20
//	rounding: half-even
//	vars:
//	  rate: "0.0725"
//	  months: 12
//
// Quote values with more digits than a float64 holds so they are read
// exactly. Every field is optional.
type Defs struct {
	Precision int            `yaml:"precision"`
	Rounding  string         `yaml:"rounding"`
	Vars      map[string]any `yaml:"vars"`
}

// ReadDefs decodes a definitions file. Unknown keys are an error.
func ReadDefs(ctx context.Context, r io.Reader) (*Defs, error) {
	var d Defs
	dec := yaml.NewDecoder(r, yaml.DisallowUnknownField())

	if err := dec.DecodeContext(ctx, &d); err != nil {
		if err == io.EOF {
			return &d, nil
		}

		return nil, err
	}

	return &d, nil
}

// literal formats a YAML scalar as decimal literal text.
func literal(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("not a number: %v", v)
	}
}
