package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/haferml/hafer/pkg/config"
	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/testutil"
	"github.com/haferml/hafer/pkg/tree"
)

func artifacts(t *testing.T) *tree.Value {
	t.Helper()
	doc, err := tree.Decode([]byte(testutil.ArtifactsDocument))
	require.NoError(t, err)
	return doc
}

func TestNewWithBaseFolder(t *testing.T) {
	conf, err := config.New(artifacts(t), config.WithBaseFolder("/tmp"))
	require.NoError(t, err)

	local, err := conf.GetString(tree.P("etl", "raw", "model", "local"))
	require.NoError(t, err)
	assert.Equal(t, "abc", local)

	model, err := conf.Get(tree.P("etl", "raw", "model"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"local":          "abc",
		"local_absolute": filepath.Join("/tmp", "abc"),
		"remote":         "",
	}, model.Interface())

	tx, err := conf.Get(tree.P("etl", "raw", "transactions"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"local":          "abc",
		"local_absolute": filepath.Join("/tmp", "abc"),
		"name":           "def.parquet",
		"name_absolute":  filepath.Join("/tmp", "abc", "def.parquet"),
		"remote":         "",
	}, tx.Interface())
	assert.Equal(t, []string{"local", "name", "remote", "local_absolute", "name_absolute"}, tx.Keys())
}

func TestNewWithoutBaseFolder(t *testing.T) {
	conf, err := config.New(artifacts(t))
	require.NoError(t, err)

	abs, err := conf.GetString(tree.P("etl", "raw", "model", "local_absolute"))
	require.NoError(t, err)
	assert.Equal(t, "abc", abs)

	name, err := conf.GetString(tree.P("etl", "raw", "transactions", "name_absolute"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("abc", "def.parquet"), name)
}

func TestEndToEndRawFolder(t *testing.T) {
	conf, err := config.New(map[string]any{
		"etl": map[string]any{"raw": map[string]any{"local": "data/raw"}},
	}, config.WithBaseFolder("/tmp"))
	require.NoError(t, err)

	got, err := conf.GetAny([]string{"etl", "raw", "local_absolute"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp", "data/raw"), got.Raw())

	byExpr, err := conf.Lookup("etl.raw.local_absolute")
	require.NoError(t, err)
	assert.Equal(t, got.Raw(), byExpr.Raw())
}

func TestNewDoesNotTouchInput(t *testing.T) {
	doc := artifacts(t)
	before := doc.Clone()

	_, err := config.New(doc, config.WithBaseFolder("/data"))
	require.NoError(t, err)
	assert.True(t, before.Equal(doc))
	assert.Equal(t, before.Keys(), doc.Keys())
}

func TestNewDoesNotTouchNestedValues(t *testing.T) {
	raw := tree.Map("local", "data/raw", "name", "in.csv")
	before := raw.Clone()

	conf, err := config.New(map[string]any{"raw": raw}, config.WithBaseFolder("/data"))
	require.NoError(t, err)
	assert.True(t, before.Equal(raw))
	_, ok := raw.Field("local_absolute")
	assert.False(t, ok)

	name, err := conf.GetString(tree.P("raw", "name_absolute"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data", "data/raw", "in.csv"), name)
}

func TestNewIgnoresStaleAbsolutePaths(t *testing.T) {
	conf, err := config.New(tree.Map(
		"raw", tree.Map("local", "data", "local_absolute", "/old/data", "name", "x.csv", "name_absolute", "/old/data/x.csv"),
	), config.WithBaseFolder("/new"))
	require.NoError(t, err)

	name, err := conf.GetString(tree.P("raw", "name_absolute"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/new", "data", "x.csv"), name)
}

func TestNewSkipsMalformedLocal(t *testing.T) {
	conf, err := config.New(tree.Map(
		"bad", tree.Map("local", 3),
		"list", tree.Map("local", []any{"a"}),
		"good", tree.Map("local", "ok", "name", 7),
	), config.WithBaseFolder("/b"))
	require.NoError(t, err)

	_, err = conf.Get(tree.P("bad", "local_absolute"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrKeyNotFound))
	_, err = conf.Get(tree.P("list", "local_absolute"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrKeyNotFound))

	abs, err := conf.GetString(tree.P("good", "local_absolute"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/b", "ok"), abs)
	_, err = conf.Get(tree.P("good", "name_absolute"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrKeyNotFound))
}

func TestNewRootLevelLocal(t *testing.T) {
	conf, err := config.New(tree.Map("local", "out", "name", "f.csv"), config.WithBaseFolder("/r"))
	require.NoError(t, err)

	got, err := conf.GetString(tree.P("name_absolute"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/r", "out", "f.csv"), got)
}

func TestNewUnsupportedInput(t *testing.T) {
	for _, in := range []any{42, []string{"a"}, tree.Scalar("x"), (*tree.Value)(nil), nil} {
		_, err := config.New(in)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigUnsupported), "%T", in)
	}
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.CreateFile(t, dir, "config.json", testutil.ArtifactsDocument)

	conf, err := config.New(path, config.WithBaseFolder(dir))
	require.NoError(t, err)
	assert.Equal(t, path, conf.Source())
	assert.Equal(t, dir, conf.BaseFolder())

	got, err := conf.GetString(tree.P("model", "rf", "artifacts", "prediction", "local_absolute"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "abc"), got)

	_, err = config.New(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestNumericKeysSelectSequenceItems(t *testing.T) {
	conf, err := config.New(map[string]any{
		"items": []any{map[string]any{"local": "a"}, map[string]any{"local": "b"}},
	})
	require.NoError(t, err)

	got, err := conf.GetAny([]string{"items", "0", "local"})
	require.NoError(t, err)
	assert.Equal(t, "a", got.Raw())

	got, err = conf.Lookup("items.1.local")
	require.NoError(t, err)
	assert.Equal(t, "b", got.Raw())
}

func TestArtifact(t *testing.T) {
	conf, err := config.New(tree.Map(
		"model", tree.Map("local", "model", "name", "model.joblib", "remote", "s3://bucket/model"),
	), config.WithBaseFolder("/p"))
	require.NoError(t, err)

	a, err := conf.Artifact(tree.P("model"))
	require.NoError(t, err)
	assert.Equal(t, config.Artifact{
		Local:         "model",
		LocalAbsolute: filepath.Join("/p", "model"),
		Name:          "model.joblib",
		NameAbsolute:  filepath.Join("/p", "model", "model.joblib"),
		Remote:        "s3://bucket/model",
	}, a)
	assert.Equal(t, a.NameAbsolute, a.Path())
	assert.Equal(t, "s3://bucket/model/model.joblib", a.RemotePath())

	_, err = conf.Artifact(tree.P("model", "name"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrPathTypeMismatch))
}

func TestArtifactPaths(t *testing.T) {
	doc, err := tree.Decode([]byte(testutil.ArtifactsDocument))
	require.NoError(t, err)
	doc.SetField("broken", tree.Map("local", 3))

	conf, err := config.New(doc)
	require.NoError(t, err)

	assert.Equal(t, []tree.Path{
		tree.P("etl", "raw", "transactions"),
		tree.P("etl", "raw", "model"),
		tree.P("model", "rf", "artifacts", "model"),
		tree.P("model", "rf", "artifacts", "prediction"),
	}, conf.ArtifactPaths())
}

func TestPathsIncludeDerivedKeys(t *testing.T) {
	conf, err := config.New(tree.Map("raw", tree.Map("local", "a")))
	require.NoError(t, err)

	assert.Equal(t, []tree.Path{tree.P("raw", "local"), tree.P("raw", "local_absolute")}, conf.Paths())
}

// genArtifacts draws a document of nested artifact subtrees.
func genArtifacts(t *rapid.T, depth int) *tree.Value {
	m := tree.NewMapping()
	if rapid.Bool().Draw(t, "has_local") {
		m.SetField("local", tree.Scalar(rapid.StringMatching(`[a-z]{1,5}(/[a-z]{1,5}){0,2}`).Draw(t, "local")))
		if rapid.Bool().Draw(t, "has_name") {
			m.SetField("name", tree.Scalar(rapid.StringMatching(`[a-z]{1,5}\.csv`).Draw(t, "name")))
		}
	}
	if depth > 0 {
		for i, n := 0, rapid.IntRange(0, 3).Draw(t, "children"); i < n; i++ {
			m.SetField(rapid.StringMatching(`x[a-z]{1,5}`).Draw(t, "key"), genArtifacts(t, depth-1))
		}
	}
	return m
}

func TestAbsolutizationProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		doc := genArtifacts(t, 3)
		base := rapid.SampledFrom([]string{"", "/tmp", "/srv/data", "rel"}).Draw(t, "base")

		conf, err := config.New(doc, config.WithBaseFolder(base))
		if err != nil {
			t.Fatalf("new: %v", err)
		}

		for _, p := range tree.AllPaths(doc) {
			last, _ := p.Last()
			if key, _ := last.AsKey(); key != "local" {
				continue
			}
			parent := p.Parent()
			local, _ := tree.Get(doc, p)
			want := local.Raw().(string)
			if base != "" {
				want = filepath.Join(base, want)
			}
			got, err := conf.GetString(parent.Append(tree.Key("local_absolute")))
			if err != nil || got != want {
				t.Fatalf("local_absolute at %q: got %q (%v), want %q", parent, got, err, want)
			}

			if name, ok := tree.Lookup(doc, parent.Append(tree.Key("name"))); ok {
				gotName, err := conf.GetString(parent.Append(tree.Key("name_absolute")))
				wantName := filepath.Join(got, name.Raw().(string))
				if err != nil || gotName != wantName {
					t.Fatalf("name_absolute at %q: got %q, want %q", parent, gotName, wantName)
				}
			}
		}

		// Absolutizing the result again changes nothing.
		again, err := config.New(conf.Root(), config.WithBaseFolder(base))
		if err != nil {
			t.Fatalf("second pass: %v", err)
		}
		if !again.Root().Equal(conf.Root()) {
			t.Fatalf("absolutization is not idempotent")
		}
	})
}
