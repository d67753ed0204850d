package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haferml/hafer/pkg/config"
	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/testutil"
)

func TestLoadSettingsDefaults(t *testing.T) {
	root := t.TempDir()

	s, err := config.LoadSettings(root)
	require.NoError(t, err)

	assert.Equal(t, "", s.BaseFolder)
	assert.Equal(t, filepath.Join(root, "config.json"), s.ConfigPath())
	assert.Equal(t, 0, s.Logging.Verbosity)
	assert.Equal(t, 10, s.Logging.MaxSizeMB)
	assert.Equal(t, "order", s.Pipeline.Tag)
	assert.Equal(t, 5*time.Second, s.Scaffold.GracePeriod)
	assert.Equal(t, "UTC", s.Coercion.InputTimezone)
	assert.Empty(t, s.File)
}

func TestLoadSettingsFileAndEnv(t *testing.T) {
	root := t.TempDir()
	testutil.CreateFile(t, root, "hafer.toml", `
base_folder = "artifacts"
config_file = "conf/project.yaml"

[logging]
verbosity = 1

[coercion]
day_first = true
datetime_layouts = ["20060102"]

[pipeline]
tag = "rank"
`)
	t.Setenv("HAFER_LOGGING__VERBOSITY", "2")
	t.Setenv("HAFER_SCAFFOLD__GRACE_PERIOD", "250ms")

	s, err := config.LoadSettings(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "hafer.toml"), s.File)
	assert.Equal(t, filepath.Join(root, "artifacts"), s.BaseFolder)
	assert.Equal(t, filepath.Join(root, "conf/project.yaml"), s.ConfigPath())
	assert.Equal(t, 2, s.Logging.Verbosity)
	assert.Equal(t, 3, s.Logging.MaxBackups)
	assert.True(t, s.Coercion.DayFirst)
	assert.Equal(t, []string{"20060102"}, s.Coercion.DatetimeLayouts)
	assert.Equal(t, "rank", s.Pipeline.Tag)
	assert.Equal(t, 250*time.Millisecond, s.Scaffold.GracePeriod)
}

func TestLoadSettingsInvalidFile(t *testing.T) {
	root := t.TempDir()
	testutil.CreateFile(t, root, ".hafer.toml", "logging = [")

	_, err := config.LoadSettings(root)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestCoerceOptions(t *testing.T) {
	opts, err := config.CoercionSettings{DayFirst: true}.CoerceOptions()
	require.NoError(t, err)
	assert.True(t, opts.DayFirst)
	assert.Equal(t, time.UTC, opts.InputLocation)

	_, err = config.CoercionSettings{InputTimezone: "Mars/Olympus"}.CoerceOptions()
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestCheckEnv(t *testing.T) {
	t.Setenv("HAFER_TEST_DSN", "sqlite://x")
	t.Setenv("HAFER_TEST_EMPTY", "")

	got, err := config.CheckEnv("HAFER_TEST_DSN", "HAFER_TEST_EMPTY")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"HAFER_TEST_DSN": "sqlite://x", "HAFER_TEST_EMPTY": ""}, got)

	_, err = config.CheckEnv("HAFER_TEST_DSN", "HAFER_TEST_NOPE_1", "HAFER_TEST_NOPE_2")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMissingEnv))
	assert.Equal(t, []string{"HAFER_TEST_NOPE_1", "HAFER_TEST_NOPE_2"}, errors.GetErrorDetails(err)["missing"])
}
