package coerce

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/logging"
)

// Field declares the kind of one column.
type Field struct {
	Column string `mapstructure:"column_name"`
	Type   string `mapstructure:"type"`
}

// DecodeSchema reads a schema from plain data, usually a list taken from a
// configuration tree: [{"column_name": "km", "type": "float"}, ...].
func DecodeSchema(raw any) ([]Field, error) {
	var fields []Field
	if err := mapstructure.Decode(raw, &fields); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid schema")
	}
	for i, f := range fields {
		if f.Column == "" {
			return nil, errors.Newf(errors.ErrInvalidInput, "schema entry %d has no column_name", i)
		}
	}
	return fields, nil
}

// Transformer converts whole records according to a schema.
type Transformer struct {
	coercer *Coercer
	columns []string
	funcs   map[string]Func
}

// TransformerOption customises a Transformer.
type TransformerOption func(*transformerConfig)

type transformerConfig struct {
	coercer *Coercer
	custom  map[string]Func
}

// WithColumnFunc replaces the schema converter of column with fn. fn is
// still subject to the null rule.
func WithColumnFunc(column string, fn Func) TransformerOption {
	return func(c *transformerConfig) {
		c.custom[column] = fn
	}
}

// WithCoercer selects the coercer used for schema kinds.
func WithCoercer(co *Coercer) TransformerOption {
	return func(c *transformerConfig) {
		c.coercer = co
	}
}

// NewTransformer checks every kind of schema up front.
func NewTransformer(schema []Field, opts ...TransformerOption) (*Transformer, error) {
	cfg := &transformerConfig{coercer: defaultCoercer, custom: map[string]Func{}}
	for _, opt := range opts {
		opt(cfg)
	}

	t := &Transformer{coercer: cfg.coercer, funcs: make(map[string]Func, len(schema))}
	for _, f := range schema {
		if _, dup := t.funcs[f.Column]; dup {
			return nil, errors.Newf(errors.ErrAlreadyExists, "column %q appears twice in schema", f.Column)
		}
		if custom, ok := cfg.custom[f.Column]; ok {
			t.funcs[f.Column] = nullSafe(custom, f.Column)
		} else {
			fn, err := cfg.coercer.Lookup(f.Type)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrInvalidInput, "column %q", f.Column)
			}
			t.funcs[f.Column] = fn
		}
		t.columns = append(t.columns, f.Column)
	}
	return t, nil
}

func nullSafe(fn Func, column string) Func {
	return func(v any) (any, error) {
		if IsNull(v) {
			return nil, nil
		}
		out, err := fn(v)
		if err != nil {
			if errors.IsErrorCode(err, errors.ErrCoercion) {
				return nil, err
			}
			return nil, failure(v, column, err)
		}
		return out, nil
	}
}

// Columns lists the schema columns in schema order.
func (t *Transformer) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Transform returns a converted copy of record. Columns missing from the
// schema pass through untouched. If any field fails, every failure is
// logged and the record as a whole is rejected.
func (t *Transformer) Transform(record map[string]any) (map[string]any, error) {
	logger := logging.GetLogger("coerce")
	out := make(map[string]any, len(record))
	for k, v := range record {
		out[k] = v
	}

	var failed []string
	var first error
	for _, col := range t.columns {
		v, present := record[col]
		if !present {
			continue
		}
		converted, err := t.funcs[col](v)
		if err != nil {
			logger.Error().Err(err).
				Str("column", col).
				Str("value", fmt.Sprint(v)).
				Msg("failed to convert field")
			failed = append(failed, col)
			if first == nil {
				first = err
			}
			continue
		}
		out[col] = converted
	}

	if len(failed) > 0 {
		return nil, errors.Wrapf(first, errors.ErrCoercion, "record rejected: %s", strings.Join(failed, ", ")).
			WithDetail("columns", failed)
	}
	return out, nil
}
