package tree

import (
	"strconv"

	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/logging"
)

// Get resolves path against root. It never modifies root.
//
// An empty path returns root itself and logs a warning. A key written as a
// non-negative integer ("0", "12") selects a sequence item. A missing key or
// an out of range index fails with ErrKeyNotFound; stepping into a scalar, or
// using any other key on a sequence or an index on a mapping, fails with
// ErrPathTypeMismatch.
func Get(root *Value, path Path) (*Value, error) {
	if len(path) == 0 {
		logger := logging.GetLogger("tree")
		logger.Warn().Msg("resolving an empty path returns the whole tree")
		return root, nil
	}

	current := root
	for i, seg := range path {
		if current == nil {
			return nil, notFound(path, i)
		}
		switch current.kind {
		case KindMapping:
			key, ok := seg.AsKey()
			if !ok {
				return nil, mismatch(path, i, current.kind)
			}
			next, exists := current.fields[key]
			if !exists {
				return nil, notFound(path, i)
			}
			current = next
		case KindSequence:
			idx, ok := sequenceIndex(seg)
			if !ok {
				return nil, mismatch(path, i, current.kind)
			}
			next, exists := current.Index(idx)
			if !exists {
				return nil, notFound(path, i)
			}
			current = next
		default:
			return nil, mismatch(path, i, current.kind)
		}
	}
	return current, nil
}

// Lookup is Get with a boolean result instead of an error.
func Lookup(root *Value, path Path) (*Value, bool) {
	if len(path) == 0 {
		return root, root != nil
	}
	v, err := Get(root, path)
	return v, err == nil
}

// Set writes v at path, overwriting an existing entry or inserting a new one.
// Missing intermediate nodes are created as mappings. Existing sequences can
// be addressed by index but are never grown.
func Set(root *Value, path Path, v *Value) error {
	if len(path) == 0 {
		return errors.New(errors.ErrInvalidInput, "cannot set the root of a tree")
	}
	if root == nil || !root.IsMapping() && !root.IsSequence() {
		return errors.New(errors.ErrPathTypeMismatch, "root is not a container")
	}

	current := root
	for i, seg := range path[:len(path)-1] {
		next, err := step(current, path, i, seg)
		if err != nil {
			return err
		}
		current = next
	}

	last := path[len(path)-1]
	switch current.kind {
	case KindMapping:
		key, ok := last.AsKey()
		if !ok {
			return mismatch(path, len(path)-1, current.kind)
		}
		current.SetField(key, v)
	case KindSequence:
		idx, ok := sequenceIndex(last)
		if !ok {
			return mismatch(path, len(path)-1, current.kind)
		}
		if idx < 0 || idx >= len(current.items) {
			return notFound(path, len(path)-1)
		}
		if v == nil {
			v = Scalar(nil)
		}
		current.items[idx] = v
	default:
		return mismatch(path, len(path)-1, current.kind)
	}
	return nil
}

func step(current *Value, path Path, i int, seg Segment) (*Value, error) {
	switch current.kind {
	case KindMapping:
		key, ok := seg.AsKey()
		if !ok {
			return nil, mismatch(path, i, current.kind)
		}
		next, exists := current.fields[key]
		if !exists {
			next = NewMapping()
			current.SetField(key, next)
		}
		if next.kind == KindScalar {
			return nil, mismatch(path, i+1, next.kind)
		}
		return next, nil
	case KindSequence:
		idx, ok := sequenceIndex(seg)
		if !ok {
			return nil, mismatch(path, i, current.kind)
		}
		next, exists := current.Index(idx)
		if !exists {
			return nil, notFound(path, i)
		}
		if next.kind == KindScalar {
			return nil, mismatch(path, i+1, next.kind)
		}
		return next, nil
	}
	return nil, mismatch(path, i, current.kind)
}

// AllPaths lists the path of every leaf in depth-first insertion order.
// Sequences are leaves and are not descended into. An empty mapping yields
// the path that leads to it, so an empty root yields one empty path.
func AllPaths(root *Value) []Path {
	var out []Path
	walk(root, Path{}, &out)
	return out
}

func walk(v *Value, prefix Path, out *[]Path) {
	if v == nil || v.kind != KindMapping || len(v.keys) == 0 {
		*out = append(*out, prefix)
		return
	}
	for _, k := range v.keys {
		walk(v.fields[k], prefix.Append(Key(k)), out)
	}
}

func sequenceIndex(seg Segment) (int, bool) {
	if idx, ok := seg.AsIndex(); ok {
		return idx, true
	}
	key, _ := seg.AsKey()
	idx, err := strconv.Atoi(key)
	if err != nil || idx < 0 || strconv.Itoa(idx) != key {
		return 0, false
	}
	return idx, true
}

func notFound(path Path, i int) error {
	return errors.Newf(errors.ErrKeyNotFound, "no value at %q", path[:i+1].String()).
		WithDetail("path", path.String()).
		WithDetail("segment", path[i].String())
}

func mismatch(path Path, i int, kind Kind) error {
	return errors.Newf(errors.ErrPathTypeMismatch, "cannot select %q in a %s at %q",
		path[i].String(), kind, Path(path[:i]).String()).
		WithDetail("path", path.String()).
		WithDetail("kind", kind.String())
}
