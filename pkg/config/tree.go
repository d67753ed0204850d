package config

import (
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"

	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/logging"
	"github.com/haferml/hafer/pkg/tree"
)

const (
	LocalKey         = "local"
	LocalAbsoluteKey = "local_absolute"
	NameKey          = "name"
	NameAbsoluteKey  = "name_absolute"
)

// Tree is an absolutized configuration document. It is read-only once
// built and safe for concurrent reads.
type Tree struct {
	root       *tree.Value
	baseFolder string
	source     string
}

// Option configures New.
type Option func(*Tree)

// WithBaseFolder sets the folder relative "local" values are joined onto.
func WithBaseFolder(dir string) Option {
	return func(t *Tree) {
		t.baseFolder = dir
	}
}

// New builds a Tree from a document path, a mapping *tree.Value or a
// map[string]any. The input is copied; the caller's data is never touched.
func New(input any, opts ...Option) (*Tree, error) {
	t := &Tree{}
	for _, opt := range opts {
		opt(t)
	}

	switch in := input.(type) {
	case string:
		root, err := LoadDocument(in)
		if err != nil {
			return nil, err
		}
		t.root = root
		t.source = in
	case *tree.Value:
		if in == nil || !in.IsMapping() {
			return nil, unsupported(input)
		}
		t.root = in.Clone()
	case map[string]any:
		t.root = tree.FromAny(in)
	default:
		return nil, unsupported(input)
	}

	absolutize(t.root, t.baseFolder)
	return t, nil
}

func unsupported(input any) error {
	return errors.Newf(errors.ErrConfigUnsupported,
		"config input must be a document path or a mapping, got %T", input)
}

// absolutize writes local_absolute and name_absolute next to every "local"
// leaf. Values are derived only from local, name and base.
func absolutize(root *tree.Value, base string) {
	logger := logging.GetLogger("config")
	done := logging.LogOperationStart(logger, "absolutize")
	defer done()

	for _, p := range tree.AllPaths(root) {
		last, ok := p.Last()
		if !ok {
			continue
		}
		if key, isKey := last.AsKey(); !isKey || key != LocalKey {
			continue
		}

		leaf, err := tree.Get(root, p)
		if err != nil {
			logger.Warn().Err(err).Str("path", p.String()).Msg("skipping unresolvable local path")
			continue
		}
		local, isString := leaf.Str()
		if !isString {
			logger.Warn().
				Str("path", p.String()).
				Str("kind", leaf.Kind().String()).
				Msg("local is not a string, skipping")
			continue
		}

		localAbs := local
		if base != "" {
			localAbs = filepath.Join(base, local)
		}

		parentPath := p.Parent()
		if err := tree.Set(root, parentPath.Append(tree.Key(LocalAbsoluteKey)), tree.Scalar(localAbs)); err != nil {
			logger.Warn().Err(err).Str("path", p.String()).Msg("failed to write local_absolute")
			continue
		}

		parent, ok := tree.Lookup(root, parentPath)
		if !ok {
			continue
		}
		nameNode, hasName := parent.Field(NameKey)
		if !hasName {
			continue
		}
		name, isString := nameNode.Str()
		if !isString {
			logger.Warn().Str("path", parentPath.String()).Msg("name is not a string, skipping")
			continue
		}
		if err := tree.Set(root, parentPath.Append(tree.Key(NameAbsoluteKey)), tree.Scalar(filepath.Join(localAbs, name))); err != nil {
			logger.Warn().Err(err).Str("path", parentPath.String()).Msg("failed to write name_absolute")
		}
	}
}

// Get resolves a path in the absolutized document. The returned value is
// shared with the tree and must not be modified.
func (t *Tree) Get(path tree.Path) (*tree.Value, error) {
	return tree.Get(t.root, path)
}

// GetAny resolves loosely typed paths, see tree.ToPath.
func (t *Tree) GetAny(path any) (*tree.Value, error) {
	return tree.Get(t.root, tree.ToPath(path))
}

// Lookup resolves a dotted expression such as "etl.raw.local_absolute".
func (t *Tree) Lookup(expr string) (*tree.Value, error) {
	p, err := tree.ParsePath(expr)
	if err != nil {
		return nil, err
	}
	return t.Get(p)
}

// GetString resolves path and requires a string leaf.
func (t *Tree) GetString(path tree.Path) (string, error) {
	v, err := t.Get(path)
	if err != nil {
		return "", err
	}
	s, ok := v.Str()
	if !ok {
		return "", errors.Newf(errors.ErrPathTypeMismatch, "value at %q is a %s, not a string",
			path.String(), v.Kind())
	}
	return s, nil
}

// BaseFolder is the folder local paths were joined onto.
func (t *Tree) BaseFolder() string { return t.baseFolder }

// Source is the document path the tree was loaded from, if any.
func (t *Tree) Source() string { return t.source }

// Root returns a deep copy of the whole document.
func (t *Tree) Root() *tree.Value { return t.root.Clone() }

// Paths lists every leaf path of the absolutized document.
func (t *Tree) Paths() []tree.Path { return tree.AllPaths(t.root) }

// Decode copies the subtree at path into out with mapstructure.
func (t *Tree) Decode(path tree.Path, out any) error {
	v, err := t.Get(path)
	if err != nil {
		return err
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to build decoder")
	}
	if err := dec.Decode(v.Interface()); err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "failed to decode %q", path.String())
	}
	return nil
}

// ArtifactPaths returns the paths of every mapping holding a string
// "local", in document order.
func (t *Tree) ArtifactPaths() []tree.Path {
	var out []tree.Path
	for _, p := range tree.AllPaths(t.root) {
		last, ok := p.Last()
		if !ok {
			continue
		}
		if key, isKey := last.AsKey(); !isKey || key != LocalKey {
			continue
		}
		if leaf, ok := tree.Lookup(t.root, p); ok {
			if _, isString := leaf.Str(); isString {
				out = append(out, p.Parent())
			}
		}
	}
	return out
}

// Artifact describes where an artifact lives locally and remotely.
type Artifact struct {
	Local         string `mapstructure:"local"`
	LocalAbsolute string `mapstructure:"local_absolute"`
	Name          string `mapstructure:"name"`
	NameAbsolute  string `mapstructure:"name_absolute"`
	Remote        string `mapstructure:"remote"`
}

// Artifact decodes the artifact subtree at path. The subtree must be a
// mapping.
func (t *Tree) Artifact(path tree.Path) (Artifact, error) {
	var a Artifact
	v, err := t.Get(path)
	if err != nil {
		return a, err
	}
	if !v.IsMapping() {
		return a, errors.Newf(errors.ErrPathTypeMismatch, "artifact at %q is a %s", path.String(), v.Kind())
	}
	if err := t.Decode(path, &a); err != nil {
		return a, err
	}
	return a, nil
}

// Path returns name_absolute when the artifact has a name, otherwise
// local_absolute.
func (a Artifact) Path() string {
	if a.NameAbsolute != "" {
		return a.NameAbsolute
	}
	return a.LocalAbsolute
}

// RemotePath joins the artifact name onto the remote location.
func (a Artifact) RemotePath() string {
	if a.Remote == "" || a.Name == "" {
		return a.Remote
	}
	if a.Remote[len(a.Remote)-1] == '/' {
		return a.Remote + a.Name
	}
	return a.Remote + "/" + a.Name
}
