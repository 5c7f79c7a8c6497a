package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AIOP/backend/internal/providers/filesystem"
)

func init() {
	pterm.DisableStyling()
}

func run(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader("from stdin"))
	cmd.SetArgs(append([]string{"--data-dir", dataDir, "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestFileCommands(t *testing.T) {
	dataDir := t.TempDir()
	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")

	_, err := run(t, dataDir, "write", path, "hello")
	require.NoError(t, err)

	out, err := run(t, dataDir, "cat", path)
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	out, err = run(t, dataDir, "ls", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "note.txt")
	assert.Contains(t, out, "file")

	out, err = run(t, dataDir, "ls", "--json", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `"kind": "file"`)

	_, err = run(t, dataDir, "rm", path)
	require.NoError(t, err)

	_, err = run(t, dataDir, "rm", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, filesystem.ErrNotFound)
}

func TestWriteFromStdin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")

	_, err := run(t, t.TempDir(), "write", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from stdin", string(data))
}

func TestCopyCommand(t *testing.T) {
	src := filepath.Join(t.TempDir(), "proj")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "b.txt"), []byte("b"), 0o644))
	dst := t.TempDir()

	out, err := run(t, t.TempDir(), "cp", src, dst)
	require.NoError(t, err)
	assert.Contains(t, out, "files: 2")

	data, err := os.ReadFile(filepath.Join(dst, "proj", "sub", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))
}

func TestExtensionCommands(t *testing.T) {
	dataDir := t.TempDir()
	src := filepath.Join(t.TempDir(), "weather")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "index.html"), []byte("<html><head><title>Weather</title></head></html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "extension.json"), []byte(`{"name":"Weather","version":"1.2.0"}`), 0o644))

	out, err := run(t, dataDir, "ext", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No extensions installed")

	out, err = run(t, dataDir, "ext", "install", "--validate", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully copied extension to")
	assert.DirExists(t, filepath.Join(dataDir, "AIOP", "Extensions", "weather"))

	out, err = run(t, dataDir, "ext", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "weather")
	assert.Contains(t, out, "1.2.0")

	out, err = run(t, dataDir, "ext", "entry", "weather")
	require.NoError(t, err)
	assert.Contains(t, out, "title: Weather")

	out, err = run(t, dataDir, "ext", "remove", "weather")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully removed extension folder 'weather'")

	_, err = run(t, dataDir, "ext", "remove", "weather")
	assert.ErrorIs(t, err, filesystem.ErrNotFound)

	_, err = run(t, dataDir, "ext", "remove", "../escape")
	assert.ErrorIs(t, err, filesystem.ErrInvalidArgument)
}

func TestHumanizeSize(t *testing.T) {
	assert.Equal(t, "512 B", humanizeSize(512))
	assert.Equal(t, "1.5 KiB", humanizeSize(1536))
	assert.Equal(t, "2.0 MiB", humanizeSize(2*1024*1024))
}
