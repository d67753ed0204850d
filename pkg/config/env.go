package config

import (
	"os"
	"strings"

	"github.com/haferml/hafer/pkg/errors"
)

// CheckEnv returns the values of the named environment variables. Every
// missing variable is listed in the error.
func CheckEnv(names ...string) (map[string]string, error) {
	values := make(map[string]string, len(names))
	var missing []string
	for _, name := range names {
		v, ok := os.LookupEnv(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		values[name] = v
	}
	if len(missing) > 0 {
		return nil, errors.Newf(errors.ErrMissingEnv, "missing environment variables: %s", strings.Join(missing, ", ")).
			WithDetail("missing", missing)
	}
	return values, nil
}
