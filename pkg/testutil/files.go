package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// CreateFile writes content to dir/name, creating missing folders, and
// returns the full path.
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755), "mkdir for %s", name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "write %s", name)
	return path
}

// ReadFile returns the content of path.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err, "read %s", path)
	return string(data)
}

func AssertContains(t *testing.T, str, substr string) {
	t.Helper()
	assert.True(t, strings.Contains(str, substr), "expected %q in %q", substr, str)
}

// AssertFileExists fails unless path is a regular file.
func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if assert.NoError(t, err, "stat %s", path) {
		assert.False(t, info.IsDir(), "%s is a folder", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	assert.DirExists(t, path)
}

// AssertNoFile fails if anything exists at path.
func AssertNoFile(t *testing.T, path string) {
	t.Helper()
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "expected nothing at %s", path)
}
