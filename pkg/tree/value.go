package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindScalar Kind = iota
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a node of a nested document.
type Value struct {
	kind   Kind
	scalar any
	items  []*Value
	keys   []string
	fields map[string]*Value
}

// Scalar wraps a leaf value. Passing a *Value returns it unchanged.
func Scalar(v any) *Value {
	if val, ok := v.(*Value); ok {
		return val
	}
	return &Value{kind: KindScalar, scalar: v}
}

// Sequence builds a sequence node from items.
func Sequence(items ...*Value) *Value {
	out := &Value{kind: KindSequence, items: make([]*Value, 0, len(items))}
	for _, it := range items {
		if it == nil {
			it = Scalar(nil)
		}
		out.items = append(out.items, it)
	}
	return out
}

// NewMapping returns an empty mapping node.
func NewMapping() *Value {
	return &Value{kind: KindMapping, fields: map[string]*Value{}}
}

// Map builds a mapping from alternating key/value arguments, keeping the
// argument order. Values go through FromAny.
func Map(kv ...any) *Value {
	if len(kv)%2 != 0 {
		panic("tree.Map: odd number of arguments")
	}
	m := NewMapping()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("tree.Map: key %v is not a string", kv[i]))
		}
		m.SetField(key, FromAny(kv[i+1]))
	}
	return m
}

// FromAny converts plain Go data into a Value. Go maps carry no order, so
// their keys are sorted. Slices and arrays become sequences, everything else
// is a scalar. Values found in the input are copied.
func FromAny(v any) *Value {
	switch t := v.(type) {
	case nil:
		return Scalar(nil)
	case *Value:
		return t.Clone()
	case map[string]any:
		m := NewMapping()
		for _, k := range sortedKeys(t) {
			m.SetField(k, FromAny(t[k]))
		}
		return m
	case []any:
		out := &Value{kind: KindSequence, items: make([]*Value, 0, len(t))}
		for _, it := range t {
			out.items = append(out.items, FromAny(it))
		}
		return out
	case string, bool, int, int64, float64:
		return Scalar(t)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Scalar(v)
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		m := NewMapping()
		for _, k := range keys {
			m.SetField(k, FromAny(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface()))
		}
		return m
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Scalar(v)
		}
		out := &Value{kind: KindSequence, items: make([]*Value, 0, rv.Len())}
		for i := 0; i < rv.Len(); i++ {
			out.items = append(out.items, FromAny(rv.Index(i).Interface()))
		}
		return out
	}
	return Scalar(v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Kind reports the variant held by v.
func (v *Value) Kind() Kind { return v.kind }

func (v *Value) IsScalar() bool   { return v.kind == KindScalar }
func (v *Value) IsSequence() bool { return v.kind == KindSequence }
func (v *Value) IsMapping() bool  { return v.kind == KindMapping }

// Raw returns the wrapped leaf for scalars and nil otherwise.
func (v *Value) Raw() any {
	if v.kind != KindScalar {
		return nil
	}
	return v.scalar
}

// Str returns the scalar as a string when it holds one.
func (v *Value) Str() (string, bool) {
	s, ok := v.Raw().(string)
	return s, ok
}

// Len is the number of items or fields. Scalars have length zero.
func (v *Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.items)
	case KindMapping:
		return len(v.keys)
	}
	return 0
}

// Keys returns the mapping keys in insertion order.
func (v *Value) Keys() []string {
	out := make([]string, len(v.keys))
	copy(out, v.keys)
	return out
}

// Field returns the child stored under key.
func (v *Value) Field(key string) (*Value, bool) {
	if v.kind != KindMapping {
		return nil, false
	}
	child, ok := v.fields[key]
	return child, ok
}

// Has reports whether a mapping contains key.
func (v *Value) Has(key string) bool {
	_, ok := v.Field(key)
	return ok
}

// Index returns the i-th item of a sequence.
func (v *Value) Index(i int) (*Value, bool) {
	if v.kind != KindSequence || i < 0 || i >= len(v.items) {
		return nil, false
	}
	return v.items[i], true
}

// Items returns the sequence items. The slice is a copy, the items are not.
func (v *Value) Items() []*Value {
	out := make([]*Value, len(v.items))
	copy(out, v.items)
	return out
}

// SetField inserts or overwrites key. An overwritten key keeps its position.
func (v *Value) SetField(key string, child *Value) {
	if v.kind != KindMapping {
		panic(fmt.Sprintf("tree: SetField on %s", v.kind))
	}
	if child == nil {
		child = Scalar(nil)
	}
	if _, exists := v.fields[key]; !exists {
		v.keys = append(v.keys, key)
	}
	v.fields[key] = child
}

// DeleteField removes key from a mapping.
func (v *Value) DeleteField(key string) {
	if v.kind != KindMapping {
		return
	}
	if _, ok := v.fields[key]; !ok {
		return
	}
	delete(v.fields, key)
	for i, k := range v.keys {
		if k == key {
			v.keys = append(v.keys[:i], v.keys[i+1:]...)
			break
		}
	}
}

// Append adds items to a sequence.
func (v *Value) Append(items ...*Value) {
	if v.kind != KindSequence {
		panic(fmt.Sprintf("tree: Append on %s", v.kind))
	}
	v.items = append(v.items, items...)
}

// Interface converts v back into plain Go data: map[string]any, []any or
// the scalar itself.
func (v *Value) Interface() any {
	if v == nil {
		return nil
	}
	switch v.kind {
	case KindMapping:
		out := make(map[string]any, len(v.keys))
		for _, k := range v.keys {
			out[k] = v.fields[k].Interface()
		}
		return out
	case KindSequence:
		out := make([]any, len(v.items))
		for i, it := range v.items {
			out[i] = it.Interface()
		}
		return out
	}
	return v.scalar
}

// Clone returns a deep copy of v.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	switch v.kind {
	case KindMapping:
		out := NewMapping()
		for _, k := range v.keys {
			out.SetField(k, v.fields[k].Clone())
		}
		return out
	case KindSequence:
		out := &Value{kind: KindSequence, items: make([]*Value, len(v.items))}
		for i, it := range v.items {
			out.items[i] = it.Clone()
		}
		return out
	}
	return &Value{kind: KindScalar, scalar: v.scalar}
}

// Equal compares structure and leaves. Mapping key order is ignored.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindMapping:
		if len(v.keys) != len(o.keys) {
			return false
		}
		for _, k := range v.keys {
			other, ok := o.fields[k]
			if !ok || !v.fields[k].Equal(other) {
				return false
			}
		}
		return true
	case KindSequence:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(v.scalar, o.scalar)
}

// String renders scalars with fmt and containers as compact JSON.
func (v *Value) String() string {
	if v.kind == KindScalar {
		if v.scalar == nil {
			return ""
		}
		return fmt.Sprint(v.scalar)
	}
	b, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<%s>", v.kind)
	}
	return string(b)
}

// MarshalJSON writes mappings with their keys in insertion order.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindMapping:
		buf.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := v.fields[k].writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case KindSequence:
		buf.WriteByte('[')
		for i, it := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := it.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		b, err := json.Marshal(v.scalar)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}

// UnmarshalJSON decodes a JSON document keeping key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	if decoded == nil {
		decoded = Scalar(nil)
	}
	*v = *decoded
	return nil
}
