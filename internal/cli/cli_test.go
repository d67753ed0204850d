package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haferml/hafer/pkg/config"
	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/testutil"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	pterm.DisableStyling()
	os.Exit(m.Run())
}

type fakePrompter struct {
	answers []bool
	asked   []string
	waited  []time.Duration
}

func (p *fakePrompter) Confirm(q string) (bool, error) {
	p.asked = append(p.asked, q)
	if len(p.asked) > len(p.answers) {
		return false, nil
	}
	return p.answers[len(p.asked)-1], nil
}

func (p *fakePrompter) Wait(d time.Duration, what string) {
	p.waited = append(p.waited, d)
}

// run executes the root command inside root and returns stdout.
func run(t *testing.T, p Prompter, root string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	cmd := newRootCmd(p, io.Discard)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--root", root}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, &fakePrompter{}, t.TempDir(), "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "hafer version "))
}

func TestConfigCommandCreatesDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project.yaml")

	out, err := run(t, &fakePrompter{}, dir, "config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created yaml config at "+path)

	doc, err := config.LoadDocument(path)
	require.NoError(t, err)
	assert.True(t, doc.IsMapping())
}

func TestConfigCommandDefaultPath(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, &fakePrompter{}, dir, "config")
	require.NoError(t, err)
	testutil.AssertFileExists(t, filepath.Join(dir, "config.json"))
}

func TestConfigCommandOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := testutil.CreateFile(t, dir, "config.json", `{"old": true}`)

	t.Run("declined", func(t *testing.T) {
		p := &fakePrompter{answers: []bool{false}}
		_, err := run(t, p, dir, "config", path)
		require.Error(t, err)
		assert.Equal(t, errors.ErrAborted, errors.GetErrorCode(err))
		assert.Len(t, p.asked, 1)
		assert.Equal(t, `{"old": true}`, testutil.ReadFile(t, path))
	})

	t.Run("confirmed with grace", func(t *testing.T) {
		p := &fakePrompter{answers: []bool{true}}
		out, err := run(t, p, dir, "config", path, "--grace", "2s")
		require.NoError(t, err)
		assert.Contains(t, out, "Overwrote json config")
		assert.Equal(t, []time.Duration{2 * time.Second}, p.waited)
	})

	t.Run("yes skips the prompter", func(t *testing.T) {
		p := &fakePrompter{}
		_, err := run(t, p, dir, "config", path, "--yes")
		require.NoError(t, err)
		assert.Empty(t, p.asked)
		assert.Empty(t, p.waited)
	})
}

func TestConfigCommandBadFormat(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, &fakePrompter{}, dir, "config", filepath.Join(dir, "c.json"), "--format", "ini")
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidInput, errors.GetErrorCode(err))
}

func TestGetCommand(t *testing.T) {
	dir := t.TempDir()
	path := testutil.CreateFile(t, dir, "config.json", testutil.ArtifactsDocument)
	base := filepath.Join(dir, "data")

	t.Run("scalar", func(t *testing.T) {
		out, err := run(t, &fakePrompter{}, dir, "get", path, "etl.raw.transactions.name_absolute", "--base-folder", base)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "abc", "def.parquet")+"\n", out)
	})

	t.Run("subtree as yaml", func(t *testing.T) {
		out, err := run(t, &fakePrompter{}, dir, "get", path, "etl.raw.model", "-o", "yaml", "--base-folder", base)
		require.NoError(t, err)
		assert.Contains(t, out, "local: abc")
		assert.Contains(t, out, "local_absolute: "+filepath.Join(base, "abc"))
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := run(t, &fakePrompter{}, dir, "get", path, "etl.nope")
		require.Error(t, err)
		assert.Equal(t, errors.ErrKeyNotFound, errors.GetErrorCode(err))
	})
}

func TestGetCommandBaseFolderFromSettings(t *testing.T) {
	dir := t.TempDir()
	path := testutil.CreateFile(t, dir, "config.json", testutil.ArtifactsDocument)
	testutil.CreateFile(t, dir, "hafer.toml", "base_folder = \"work\"\n")

	out, err := run(t, &fakePrompter{}, dir, "get", path, "model.rf.artifacts.model.local_absolute")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "work", "abc")+"\n", out)
}

func TestPathsCommand(t *testing.T) {
	dir := t.TempDir()
	path := testutil.CreateFile(t, dir, "config.json", `{"a": {"b": 1}, "c": [true], "d": "x"}`)

	out, err := run(t, &fakePrompter{}, dir, "paths", path, "--values")
	require.NoError(t, err)
	assert.Equal(t, "a.b = 1\nc\nd = x\n", out)
}

func TestDescribeCommand(t *testing.T) {
	dir := t.TempDir()
	path := testutil.CreateFile(t, dir, "config.json", testutil.ArtifactsDocument)

	out, err := run(t, &fakePrompter{}, dir, "describe", path, "--base-folder", "/srv")
	require.NoError(t, err)
	assert.Contains(t, out, "config.json")
	assert.Contains(t, out, "etl.raw.transactions")
	assert.Contains(t, out, "model.rf.artifacts.prediction")
}

func TestPreviewCommand(t *testing.T) {
	dir := t.TempDir()
	path := testutil.CreateFile(t, dir, "rows.csv", "id,name\n1,a\n2,b\n3,c\n")

	out, err := run(t, &fakePrompter{}, dir, "preview", path, "--limit", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "2 of 3 rows")

	_, err = run(t, &fakePrompter{}, dir, "preview", filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrFileNotFound, errors.GetErrorCode(err))
}

func TestVerbosityFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HAFER_LOGGING__VERBOSITY", "2")

	a := &app{prompter: &fakePrompter{}, root: dir, logOutput: io.Discard}
	cmd := newVersionCmd()
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	require.NoError(t, a.setup(cmd))
	assert.Equal(t, 2, a.settings.Logging.Verbosity)
	assert.Equal(t, "order", a.settings.Pipeline.Tag)
}

func TestTerminalPrompterNotInteractive(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	_, err = (&TerminalPrompter{In: f}).Confirm("overwrite?")
	require.Error(t, err)
	assert.Equal(t, errors.ErrAborted, errors.GetErrorCode(err))
	assert.Equal(t, "overwrite?", errors.GetErrorDetails(err)["question"])
}
