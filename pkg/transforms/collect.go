package transforms

import (
	"sort"
	"strings"

	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/logging"
	"github.com/haferml/hafer/pkg/registry"
)

// Entry is one collected operation.
type Entry[F any] struct {
	Name  string
	Order int
	Fn    F
}

// Ordered is the frozen result of Collect. It is safe for concurrent reads.
type Ordered[F any] struct {
	tag     string
	entries []Entry[F]
	byName  *registry.Registry[Entry[F]]
}

// Collect gathers the declarations of d that carry tag and sorts them by the
// tag value, ascending. Equal values keep their declaration order. An empty
// tag means DefaultTag.
//
// Every declaration must have a unique, non-empty name, tagged or not.
func Collect[F any](d Declarer[F], tag string) (*Ordered[F], error) {
	if tag == "" {
		tag = DefaultTag
	}
	logger := logging.GetLogger("transforms")

	names := registry.New[struct{}]()
	var entries []Entry[F]
	var skipped []string

	for _, decl := range d.Declarations() {
		if err := names.Register(decl.Name, struct{}{}); err != nil {
			return nil, errors.Wrapf(err, errors.GetErrorCode(err), "invalid declaration %q", decl.Name).
				WithDetail("tag", tag)
		}
		value, tagged := decl.Attrs[tag]
		if !tagged {
			skipped = append(skipped, decl.Name)
			continue
		}
		entries = append(entries, Entry[F]{Name: decl.Name, Order: value, Fn: decl.Fn})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Order < entries[j].Order
	})

	byName := registry.New[Entry[F]]()
	for _, e := range entries {
		registry.MustRegister(byName, e.Name, e)
	}
	byName.Freeze()

	if len(skipped) > 0 {
		logger.Debug().
			Str("tag", tag).
			Strs("untagged", skipped).
			Msg("declarations without tag left out")
	}

	ordered := &Ordered[F]{tag: tag, entries: entries, byName: byName}
	logger.Debug().
		Str("tag", tag).
		Str("operations", strings.Join(ordered.Names(), ", ")).
		Msg("ordered operations collected")

	return ordered, nil
}

// MustCollect is Collect for static declaration tables.
func MustCollect[F any](d Declarer[F], tag string) *Ordered[F] {
	o, err := Collect(d, tag)
	if err != nil {
		panic(err)
	}
	return o
}

func (o *Ordered[F]) Tag() string { return o.tag }

func (o *Ordered[F]) Len() int { return len(o.entries) }

// Entries returns the operations in execution order.
func (o *Ordered[F]) Entries() []Entry[F] {
	out := make([]Entry[F], len(o.entries))
	copy(out, o.entries)
	return out
}

// Names returns the operation names in execution order.
func (o *Ordered[F]) Names() []string {
	out := make([]string, len(o.entries))
	for i, e := range o.entries {
		out[i] = e.Name
	}
	return out
}

// Get returns the operation registered under name.
func (o *Ordered[F]) Get(name string) (F, bool) {
	e, err := o.byName.Get(name)
	if err != nil {
		var zero F
		return zero, false
	}
	return e.Fn, true
}
