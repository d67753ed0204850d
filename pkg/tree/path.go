package tree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"

	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/logging"
)

// Segment is one step of a Path: a mapping key or a sequence index.
type Segment struct {
	key     string
	index   int
	byIndex bool
}

// Key selects a mapping entry.
func Key(k string) Segment { return Segment{key: k} }

// Index selects a sequence item.
func Index(i int) Segment { return Segment{index: i, byIndex: true} }

func (s Segment) IsIndex() bool { return s.byIndex }

// AsKey returns the key when the segment selects a mapping entry.
func (s Segment) AsKey() (string, bool) { return s.key, !s.byIndex }

// AsIndex returns the index when the segment selects a sequence item.
func (s Segment) AsIndex() (int, bool) { return s.index, s.byIndex }

func (s Segment) String() string {
	if s.byIndex {
		return "[" + strconv.Itoa(s.index) + "]"
	}
	return s.key
}

// Path addresses a node from the root of a document.
type Path []Segment

// P builds a path from strings, ints and Segments.
func P(elems ...any) Path {
	out := make(Path, 0, len(elems))
	for _, e := range elems {
		out = append(out, segmentOf(e))
	}
	return out
}

func segmentOf(e any) Segment {
	switch t := e.(type) {
	case Segment:
		return t
	case string:
		return Key(t)
	case int:
		return Index(t)
	case int64:
		return Index(int(t))
	default:
		return Key(fmt.Sprint(t))
	}
}

// ToPath converts loosely typed input into a Path. Anything that is not a
// path or a slice becomes a single segment and is reported as a warning.
func ToPath(v any) Path {
	switch t := v.(type) {
	case Path:
		return t
	case []Segment:
		return Path(t)
	case []string:
		out := make(Path, len(t))
		for i, s := range t {
			out[i] = Key(s)
		}
		return out
	case []any:
		return P(t...)
	}

	logger := logging.GetLogger("tree")
	logger.Warn().
		Interface("input", v).
		Msg("path is not a sequence, using it as a single segment")
	return Path{segmentOf(v)}
}

// ParsePath parses a dotted expression such as "etl.raw[0].local" or
// "$.etl.raw". Wildcards, filters and slices are rejected.
func ParsePath(expr string) (Path, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" || expr == "$" {
		return Path{}, nil
	}

	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPathSyntax, "invalid path expression %q", expr)
	}

	out := make(Path, 0, len(x))
	for _, frag := range x {
		switch f := frag.(type) {
		case jp.Root, jp.At, jp.Bracket:
			continue
		case jp.Child:
			out = append(out, Key(string(f)))
		case jp.Nth:
			out = append(out, Index(int(f)))
		default:
			return nil, errors.Newf(errors.ErrPathSyntax,
				"unsupported fragment %q in path expression %q", fmt.Sprint(frag), expr).
				WithDetail("expression", expr)
		}
	}
	return out, nil
}

// String renders the path in the form accepted by ParsePath.
func (p Path) String() string {
	var sb strings.Builder
	for i, s := range p {
		if s.byIndex {
			sb.WriteString(s.String())
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(s.key)
	}
	return sb.String()
}

// Append returns a new path with segs added. p is not modified.
func (p Path) Append(segs ...Segment) Path {
	out := make(Path, 0, len(p)+len(segs))
	out = append(out, p...)
	return append(out, segs...)
}

// Parent drops the last segment. The parent of the root is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return Path{}
	}
	out := make(Path, len(p)-1)
	copy(out, p[:len(p)-1])
	return out
}

// Last returns the final segment.
func (p Path) Last() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}
