package coerce

import (
	"reflect"
	"time"

	"github.com/ohler55/ojg/oj"

	"github.com/haferml/hafer/pkg/errors"
)

const (
	TypeKey      = "__type__"
	DatetimeType = "__datetime__"
	DatetimeKey  = "datetime"
)

// ISOEncode returns a JSON friendly form of v. Times become RFC 3339
// strings, integers widen to int64 or uint64, floats to float64, and
// arrays or slices become []any with their items encoded. Other values are
// returned unchanged.
func ISOEncode(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.Format(time.RFC3339Nano)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = ISOEncode(rv.Index(i).Interface())
		}
		return out
	}
	return v
}

// MarshalJSON encodes v as JSON. Every time.Time is written as a tagged
// object {"__type__": "__datetime__", "datetime": "<RFC 3339>"} so that
// UnmarshalJSON can restore it. Object keys are sorted.
func MarshalJSON(v any) ([]byte, error) {
	tagged, err := tagTimes(v)
	if err != nil {
		return nil, err
	}
	opts := oj.GoOptions
	opts.Sort = true
	out, err := oj.Marshal(tagged, &opts)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "cannot encode value as JSON")
	}
	return out, nil
}

// UnmarshalJSON decodes data and turns tagged datetime objects back into
// time.Time values. Integers decode as int64, other numbers as float64.
func UnmarshalJSON(data []byte) (any, error) {
	v, err := oj.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid JSON")
	}
	return untagTimes(v)
}

func tagTimes(v any) (any, error) {
	switch t := v.(type) {
	case time.Time:
		return map[string]any{TypeKey: DatetimeType, DatetimeKey: t.Format(time.RFC3339Nano)}, nil
	case *time.Time:
		if t == nil {
			return nil, nil
		}
		return tagTimes(*t)
	case nil, string:
		return v, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, errors.Newf(errors.ErrInvalidInput, "map keys must be strings, got %s", rv.Type().Key())
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			item, err := tagTimes(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			out[iter.Key().String()] = item
		}
		return out, nil
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			item, err := tagTimes(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = item
		}
		return out, nil
	}
	return ISOEncode(v), nil
}

func untagTimes(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		if kind, ok := t[TypeKey]; ok && kind == DatetimeType {
			ts, err := Datetime(t[DatetimeKey])
			if err != nil {
				return nil, err
			}
			return ts, nil
		}
		for k, item := range t {
			decoded, err := untagTimes(item)
			if err != nil {
				return nil, err
			}
			t[k] = decoded
		}
		return t, nil
	case []any:
		for i, item := range t {
			decoded, err := untagTimes(item)
			if err != nil {
				return nil, err
			}
			t[i] = decoded
		}
		return t, nil
	}
	return v, nil
}
