package config

import (
	_ "embed"

	"github.com/haferml/hafer/pkg/errors"
)

var (
	//go:embed embedded/defaults.toml
	defaultSettings []byte

	//go:embed embedded/project.json
	projectTemplate []byte
)

// bytesProvider feeds an in-memory document to koanf.
type bytesProvider []byte

func (b bytesProvider) ReadBytes() ([]byte, error) { return b, nil }

func (b bytesProvider) Read() (map[string]any, error) {
	return nil, errors.New(errors.ErrNotImplemented, "bytesProvider only supports ReadBytes")
}
