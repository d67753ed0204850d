package transforms

import (
	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/logging"
)

// Step is an operation that takes a value and returns the next one.
type Step[T any] func(T) (T, error)

// Chain runs the steps of o in order, feeding each result into the next.
// The first error stops the chain and is returned wrapped with the step name.
func Chain[T any](o *Ordered[Step[T]], in T) (T, error) {
	logger := logging.GetLogger("transforms")
	current := in
	for _, e := range o.entries {
		next, err := e.Fn(current)
		if err != nil {
			var zero T
			return zero, errors.Wrapf(err, errors.ErrStageFailed, "step %q failed", e.Name).
				WithDetail("step", e.Name)
		}
		current = next
		logger.Debug().Str("step", e.Name).Msg("step done")
	}
	return current, nil
}

// Transform converts a value into a new one.
type Transform[T any] interface {
	Apply(T) (T, error)
}

// TransformFunc adapts a function to Transform.
type TransformFunc[T any] func(T) (T, error)

func (f TransformFunc[T]) Apply(v T) (T, error) { return f(v) }

// Composite applies its parts one after another.
type Composite[T any] struct {
	parts []Transform[T]
}

// Concat joins transforms into a Composite. Nested composites are flattened
// and nil entries skipped.
func Concat[T any](ts ...Transform[T]) *Composite[T] {
	c := &Composite[T]{}
	for _, t := range ts {
		switch v := t.(type) {
		case nil:
			continue
		case *Composite[T]:
			c.parts = append(c.parts, v.parts...)
		default:
			c.parts = append(c.parts, v)
		}
	}
	return c
}

// Then returns a new composite with t appended.
func (c *Composite[T]) Then(t Transform[T]) *Composite[T] {
	return Concat[T](c, t)
}

func (c *Composite[T]) Len() int { return len(c.parts) }

func (c *Composite[T]) Apply(v T) (T, error) {
	for _, p := range c.parts {
		next, err := p.Apply(v)
		if err != nil {
			var zero T
			return zero, err
		}
		v = next
	}
	return v, nil
}
