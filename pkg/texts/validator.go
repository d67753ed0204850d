package texts

import (
	"regexp"

	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/registry"
)

const domainPattern = `(?:[a-z0-9](?:[a-z0-9\-_]{0,61}[a-z0-9])?\.)+[a-z0-9][a-z0-9\-_]{0,61}[a-z0-9]`

var validators = func() *registry.Registry[*regexp.Regexp] {
	r := registry.New[*regexp.Regexp]()
	registry.MustRegister(r, "domain", regexp.MustCompile(`^`+domainPattern+`$`))
	registry.MustRegister(r, "email", regexp.MustCompile(`^[a-z0-9._%+\-]+@`+domainPattern+`$`))
	r.Freeze()
	return r
}()

// Validate reports whether input is a valid value of kind. Kinds are
// "domain" and "email"; input is expected in lower case.
func Validate(input, kind string) (bool, error) {
	re, err := validators.Get(kind)
	if err != nil {
		return false, errors.Newf(errors.ErrInvalidInput, "validate type %q is not defined", kind).
			WithDetail("kinds", validators.List())
	}
	return re.MatchString(input), nil
}

// ValidatorKinds lists the kinds Validate accepts.
func ValidatorKinds() []string {
	return validators.List()
}
