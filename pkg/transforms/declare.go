package transforms

// DefaultTag is the attribute Collect sorts by when no tag is given.
const DefaultTag = "order"

// Attributes are integer tags attached to a declaration.
type Attributes map[string]int

// Order tags a declaration with the default "order" attribute.
func Order(n int) Attributes {
	return Attributes{DefaultTag: n}
}

// Tag builds a single custom attribute, such as Tag("rank", 2).
func Tag(key string, n int) Attributes {
	return Attributes{key: n}
}

// With returns a copy of a with key set to n.
func (a Attributes) With(key string, n int) Attributes {
	out := make(Attributes, len(a)+1)
	for k, v := range a {
		out[k] = v
	}
	out[key] = n
	return out
}

func merge(attrs []Attributes) Attributes {
	out := Attributes{}
	for _, a := range attrs {
		for k, v := range a {
			out[k] = v
		}
	}
	return out
}

// Declaration names an operation and the attributes it carries.
type Declaration[F any] struct {
	Name  string
	Attrs Attributes
	Fn    F
}

// Declare builds a declaration. Later attributes override earlier ones.
func Declare[F any](name string, fn F, attrs ...Attributes) Declaration[F] {
	return Declaration[F]{Name: name, Attrs: merge(attrs), Fn: fn}
}

// Declarer is implemented by processing types that expose their operations.
type Declarer[F any] interface {
	Declarations() []Declaration[F]
}

// Set accumulates declarations in the order they are added.
type Set[F any] struct {
	decls []Declaration[F]
}

func NewSet[F any]() *Set[F] {
	return &Set[F]{}
}

// Add appends a declaration and returns the set for chaining.
func (s *Set[F]) Add(name string, fn F, attrs ...Attributes) *Set[F] {
	s.decls = append(s.decls, Declare(name, fn, attrs...))
	return s
}

func (s *Set[F]) Declarations() []Declaration[F] {
	out := make([]Declaration[F], len(s.decls))
	copy(out, s.decls)
	return out
}

// Declarations adapts a plain slice to the Declarer interface.
type Declarations[F any] []Declaration[F]

func (d Declarations[F]) Declarations() []Declaration[F] {
	return d
}
