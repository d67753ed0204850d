package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	gotoml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/logging"
	"github.com/haferml/hafer/pkg/tree"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath infers the encoding from the file extension. Unknown
// extensions are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// ParseFormat validates a format name. An empty name yields "".
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "", FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unknown document format %q", name)
}

// LoadDocument reads a configuration document. JSON and YAML keep their key
// order; TOML keys come back sorted. A missing file, empty content or a top
// level that is not a mapping fails with ErrConfigLoad.
func LoadDocument(path string) (*tree.Value, error) {
	logger := logging.GetLogger("config")

	data, err := file.Provider(path).ReadBytes()
	if err != nil {
		code := errors.ErrConfigLoad
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, code, "config document %s does not exist", path).
				WithDetail("path", path)
		}
		return nil, errors.Wrapf(err, code, "failed to read config document %s", path).
			WithDetail("path", path)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.Newf(errors.ErrConfigLoad, "config document %s is empty", path).
			WithDetail("path", path)
	}

	format := FormatFromPath(path)
	doc, err := DecodeDocument(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to parse config document %s", path).
			WithDetail("path", path).
			WithDetail("format", string(format))
	}

	logger.Debug().Str("path", path).Str("format", string(format)).Int("keys", doc.Len()).Msg("config document loaded")
	return doc, nil
}

// DecodeDocument parses document bytes. The top level must be a non-empty
// mapping.
func DecodeDocument(data []byte, format Format) (*tree.Value, error) {
	var doc *tree.Value
	switch format {
	case FormatTOML:
		m, err := toml.Parser().Unmarshal(data)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "invalid toml")
		}
		doc = tree.FromAny(m)
	default:
		v, err := tree.Decode(data)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "invalid %s", format)
		}
		doc = v
	}

	if doc == nil || (doc.IsScalar() && doc.Raw() == nil) {
		return nil, errors.New(errors.ErrConfigLoad, "document has no content")
	}
	if !doc.IsMapping() {
		return nil, errors.Newf(errors.ErrConfigLoad, "document top level is a %s, expected a mapping", doc.Kind())
	}
	return doc, nil
}

// Encode renders a document. JSON uses a two space indent.
func Encode(doc *tree.Value, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigEncode, "failed to encode yaml")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigEncode, "failed to encode yaml")
		}
		return buf.Bytes(), nil
	case FormatTOML:
		out, err := gotoml.Marshal(doc.Interface())
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigEncode, "failed to encode toml")
		}
		return out, nil
	case FormatJSON, "":
		compact, err := doc.MarshalJSON()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigEncode, "failed to encode json")
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, compact, "", "  "); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigEncode, "failed to indent json")
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	}
	return nil, errors.Newf(errors.ErrInvalidInput, "unknown document format %q", format)
}
