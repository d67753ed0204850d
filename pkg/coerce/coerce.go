package coerce

import (
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/duke-git/lancet/v2/convertor"
	"gopkg.in/yaml.v3"

	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/registry"
)

// Func converts one value.
type Func func(v any) (any, error)

// Options tune datetime parsing.
type Options struct {
	// DayFirst reads 01/02/2006 as the first of February.
	DayFirst bool
	// InputLocation is assumed for datetimes without an explicit zone.
	InputLocation *time.Location
	// OutputLocation is the zone results are converted to.
	OutputLocation *time.Location
	// Layouts are tried before the built in ones.
	Layouts []string
}

// Coercer holds the converters for every known kind.
type Coercer struct {
	opts  Options
	kinds *registry.Registry[Func]
}

var defaultCoercer = New(Options{})

// New returns a coercer with the built in kinds registered.
func New(opts Options) *Coercer {
	if opts.InputLocation == nil {
		opts.InputLocation = time.UTC
	}
	if opts.OutputLocation == nil {
		opts.OutputLocation = time.UTC
	}
	c := &Coercer{opts: opts, kinds: registry.New[Func]()}

	str := func(v any) (any, error) { return strings.TrimSpace(convertor.ToString(v)), nil }
	registry.MustRegister(c.kinds, "str", Func(str))
	registry.MustRegister(c.kinds, "string", Func(str))
	registry.MustRegister(c.kinds, "int", Func(toInt))
	registry.MustRegister(c.kinds, "float", Func(toFloat))
	registry.MustRegister(c.kinds, "bool", Func(func(v any) (any, error) { return Bool(v), nil }))
	registry.MustRegister(c.kinds, "datetime", Func(func(v any) (any, error) { return c.Datetime(v) }))
	registry.MustRegister(c.kinds, "date", Func(func(v any) (any, error) { return c.Date(v) }))
	registry.MustRegister(c.kinds, "list", Func(func(v any) (any, error) { return List(v) }))
	return c
}

// Register adds a custom kind.
func (c *Coercer) Register(kind string, fn Func) error {
	return c.kinds.Register(strings.ToLower(kind), fn)
}

// Kinds lists the registered kind names, sorted.
func (c *Coercer) Kinds() []string {
	return c.kinds.List()
}

// Lookup returns the converter for kind, applying the null rule and the
// error format around it.
func (c *Coercer) Lookup(kind string) (Func, error) {
	fn, err := c.kinds.Get(strings.ToLower(kind))
	if err != nil {
		return nil, errors.Newf(errors.ErrInvalidInput, "no converter for kind %q", kind).
			WithDetail("kinds", c.Kinds())
	}
	return func(v any) (any, error) {
		if IsNull(v) {
			return nil, nil
		}
		out, err := fn(v)
		if err != nil {
			return nil, failure(v, kind, err)
		}
		return out, nil
	}, nil
}

// To converts v into kind.
func (c *Coercer) To(v any, kind string) (any, error) {
	fn, err := c.Lookup(kind)
	if err != nil {
		return nil, err
	}
	return fn(v)
}

// To converts v with the default coercer (UTC, month first).
func To(v any, kind string) (any, error) {
	return defaultCoercer.To(v, kind)
}

// IsNull reports nil, typed nil pointers and NaN.
func IsNull(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(t)
	case float32:
		return math.IsNaN(float64(t))
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func failure(v any, kind string, cause error) error {
	e := errors.Newf(errors.ErrCoercion, "%v to %s", v, kind).
		WithDetail("kind", kind)
	if cause != nil && errors.GetErrorCode(cause) != errors.ErrCoercion {
		e.Wrapped = cause
	}
	return e
}

func toFloat(v any) (any, error) {
	if s, ok := v.(string); ok && strings.ContainsAny(s, ".,") {
		return EUFloat(s)
	}
	if b, ok := v.(bool); ok {
		if b {
			return 1.0, nil
		}
		return 0.0, nil
	}
	return convertor.ToFloat(v)
}

func toInt(v any) (any, error) {
	f, err := toFloat(v)
	if err != nil {
		return nil, err
	}
	return int(f.(float64)), nil
}

// EUFloat parses a number written with "." as thousands separator and ","
// as decimal mark, such as "1.234,5".
func EUFloat(s string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	f, err := convertor.ToFloat(cleaned)
	if err != nil {
		return 0, failure(s, "float", err)
	}
	return f, nil
}

// Bool maps true/yes/1/y and false/no/0/n, case insensitive. Numbers are
// true when non-zero. Anything else is nil.
func Bool(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "1", "y":
			return true
		case "false", "no", "0", "n":
			return false
		}
		return nil
	}

	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		if math.IsNaN(rv.Float()) {
			return nil
		}
		return rv.Float() != 0
	}
	return nil
}

// List converts slices to []any and parses list literals such as
// "[1, 2]" or "['a', 'b']".
func List(v any) ([]any, error) {
	switch t := v.(type) {
	case []any:
		return t, nil
	case string:
		var out []any
		if err := yaml.Unmarshal([]byte(t), &out); err != nil {
			return nil, failure(t, "list", err)
		}
		if out == nil {
			out = []any{}
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	}
	return []any{}, nil
}
