package extensions

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AIOP/backend/internal/providers/filesystem"
	"github.com/GriffinCanCode/AIOP/backend/internal/shared/paths"
)

const indexHTML = `<!DOCTYPE html>
<html><head><title>Demo Extension</title></head>
<body><p>hello</p><script>alert(1)</script></body></html>`

func newManager(t *testing.T, opts Options) *Manager {
	t.Helper()
	layout, err := paths.NewLayout(t.TempDir())
	require.NoError(t, err)
	return NewManager(filesystem.New(filesystem.DefaultOptions(), nil), layout, opts, nil)
}

func writeBundle(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func demoBundle(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "demo")
	writeBundle(t, dir, map[string]string{
		"extension.json":  `{"name":"Demo","author":"ada","version":"1.0.0","iconClass":"fa-star"}`,
		"index.html":      indexHTML,
		"assets/app.js":   "console.log('demo')",
		"assets/app.css":  "body{}",
		".DS_Store":       "junk",
		"node_modules/x":  "ignored",
		".gitignore":      "node_modules/\n",
		"assets/.hidden":  "ignored",
		"assets/logo.svg": "<svg/>",
	})
	return dir
}

func TestEnsureRoot(t *testing.T) {
	m := newManager(t, Options{})

	require.NoError(t, m.EnsureRoot())
	info, err := os.Stat(m.Root())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, paths.ExtensionsFolder, filepath.Base(m.Root()))
	assert.Equal(t, paths.AppFolder, filepath.Base(filepath.Dir(m.Root())))

	// Idempotent
	require.NoError(t, m.EnsureRoot())
}

func TestInstall(t *testing.T) {
	m := newManager(t, Options{Validate: true})
	src := demoBundle(t)

	result, err := m.Install(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(m.Root(), "demo"), result.Destination)
	assert.Empty(t, result.Report.Skipped)
	require.NotNil(t, result.Bundle)
	assert.Equal(t, "extension.json", result.Bundle.ManifestFile)
	assert.Equal(t, "index.html", result.Bundle.EntryFile)
	assert.Equal(t, "Demo", result.Bundle.Manifest.Name)

	data, err := os.ReadFile(filepath.Join(result.Destination, "assets", "app.js"))
	require.NoError(t, err)
	assert.Equal(t, "console.log('demo')", string(data))

	_, err = os.Stat(filepath.Join(result.Destination, "node_modules"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(result.Destination, ".DS_Store"))
	assert.True(t, os.IsNotExist(err))
}

func TestInstallValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("missing manifest", func(t *testing.T) {
		m := newManager(t, Options{Validate: true})
		dir := filepath.Join(t.TempDir(), "nomanifest")
		writeBundle(t, dir, map[string]string{"index.html": indexHTML})

		_, err := m.Install(ctx, dir)
		require.Error(t, err)
		assert.ErrorIs(t, err, filesystem.ErrInvalidArgument)
		assert.Contains(t, err.Error(), "no manifest")
	})

	t.Run("missing entry", func(t *testing.T) {
		m := newManager(t, Options{Validate: true})
		dir := filepath.Join(t.TempDir(), "noentry")
		writeBundle(t, dir, map[string]string{"manifest.json": `{"name":"x"}`})

		_, err := m.Install(ctx, dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no html entry")
	})

	t.Run("entry is not html", func(t *testing.T) {
		m := newManager(t, Options{Validate: true})
		dir := filepath.Join(t.TempDir(), "plain")
		writeBundle(t, dir, map[string]string{
			"extension.json": `{"name":"x"}`,
			"index.html":     "just some text",
		})

		_, err := m.Install(ctx, dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not html")
	})

	t.Run("bad manifest", func(t *testing.T) {
		m := newManager(t, Options{Validate: true})
		dir := filepath.Join(t.TempDir(), "bad")
		writeBundle(t, dir, map[string]string{
			"extension.json": `{"name":`,
			"index.html":     indexHTML,
		})

		_, err := m.Install(ctx, dir)
		require.Error(t, err)
		assert.ErrorIs(t, err, filesystem.ErrInvalidArgument)
	})

	t.Run("validation disabled", func(t *testing.T) {
		m := newManager(t, Options{})
		dir := filepath.Join(t.TempDir(), "anything")
		writeBundle(t, dir, map[string]string{"readme.txt": "hi"})

		result, err := m.Install(ctx, dir)
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(result.Destination, "readme.txt"))
	})

	t.Run("missing source", func(t *testing.T) {
		m := newManager(t, Options{})
		_, err := m.Install(ctx, filepath.Join(t.TempDir(), "missing"))
		assert.ErrorIs(t, err, filesystem.ErrNotFound)
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, Options{})

	_, err := m.Install(ctx, demoBundle(t))
	require.NoError(t, err)

	list, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, m.Remove(ctx, "demo"))

	list, err = m.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	err = m.Remove(ctx, "demo")
	assert.ErrorIs(t, err, filesystem.ErrNotFound)

	err = m.Remove(ctx, "../demo")
	assert.ErrorIs(t, err, filesystem.ErrInvalidArgument)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, Options{})
	require.NoError(t, m.EnsureRoot())

	writeBundle(t, filepath.Join(m.Root(), "yaml-ext"), map[string]string{
		"extension.yaml": "name: Yaml Ext\nversion: 0.2.0\ncreationDate: \"2024-01-02\"\n",
		"index.html":     indexHTML,
	})
	writeBundle(t, filepath.Join(m.Root(), "toml-ext"), map[string]string{
		"extension.toml": "name = \"Toml Ext\"\nauthor = \"grace\"\n",
	})
	writeBundle(t, filepath.Join(m.Root(), "broken"), map[string]string{
		"extension.json": "{",
	})
	writeBundle(t, m.Root(), map[string]string{"stray.txt": "not an extension"})

	list, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	byFolder := make(map[string]Extension)
	for _, ext := range list {
		byFolder[ext.Folder] = ext
	}

	require.NotNil(t, byFolder["yaml-ext"].Manifest)
	assert.Equal(t, "Yaml Ext", byFolder["yaml-ext"].Manifest.Name)
	assert.Equal(t, "2024-01-02", byFolder["yaml-ext"].Manifest.CreationDate)
	assert.True(t, byFolder["yaml-ext"].HasEntry)

	require.NotNil(t, byFolder["toml-ext"].Manifest)
	assert.Equal(t, "grace", byFolder["toml-ext"].Manifest.Author)
	assert.False(t, byFolder["toml-ext"].HasEntry)

	assert.Nil(t, byFolder["broken"].Manifest)
}

func TestListMissingRoot(t *testing.T) {
	m := newManager(t, Options{})
	_, err := m.List(context.Background())
	assert.ErrorIs(t, err, filesystem.ErrNotFound)
}

func TestEntry(t *testing.T) {
	ctx := context.Background()

	m := newManager(t, Options{})
	_, err := m.Install(ctx, demoBundle(t))
	require.NoError(t, err)

	page, err := m.Entry(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, "Demo Extension", page.Title)
	assert.Equal(t, indexHTML, page.HTML)
	assert.False(t, page.Sanitized)

	_, err = m.Entry(ctx, "missing")
	assert.ErrorIs(t, err, filesystem.ErrNotFound)

	_, err = m.Entry(ctx, "a/b")
	assert.ErrorIs(t, err, filesystem.ErrInvalidArgument)
}

func TestEntrySanitized(t *testing.T) {
	ctx := context.Background()

	m := newManager(t, Options{Sanitize: true})
	_, err := m.Install(ctx, demoBundle(t))
	require.NoError(t, err)

	page, err := m.Entry(ctx, "demo")
	require.NoError(t, err)
	assert.True(t, page.Sanitized)
	assert.Equal(t, "Demo Extension", page.Title)
	assert.Contains(t, page.HTML, "<p>hello</p>")
	assert.NotContains(t, page.HTML, "<script>")
}

func TestRecorder(t *testing.T) {
	m := newManager(t, Options{})
	rec := &countingRecorder{}
	m.SetRecorder(rec)

	_, err := m.Install(context.Background(), demoBundle(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"install"}, rec.ops)
}
