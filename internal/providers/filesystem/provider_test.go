package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderDefinition(t *testing.T) {
	p := NewProvider(New(DefaultOptions(), nil), true, nil)
	def := p.Definition()

	assert.Equal(t, "filesystem", def.ID)

	toolIDs := make(map[string]bool)
	for _, tool := range def.Tools {
		toolIDs[tool.ID] = true
		assert.NotEmpty(t, tool.Name)
		assert.NotEmpty(t, tool.Description)
	}

	assert.True(t, toolIDs["filesystem.list"])
	assert.True(t, toolIDs["filesystem.read"])
	assert.True(t, toolIDs["filesystem.read_strict"])
	assert.True(t, toolIDs["filesystem.write"])
	assert.True(t, toolIDs["filesystem.delete"])
}

func TestProviderListAndWrite(t *testing.T) {
	p := NewProvider(New(DefaultOptions(), nil), true, nil)
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")

	result, err := p.Execute(ctx, "filesystem.write", map[string]interface{}{
		"path":    path,
		"content": "hello",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, StatusOK, result.Data["status"])

	result, err = p.Execute(ctx, "filesystem.list", map[string]interface{}{"path": dir})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Data["count"])
	entries := result.Data["entries"].([]FileEntry)
	assert.Equal(t, "note.txt", entries[0].Name)
	assert.Equal(t, EntryFile, entries[0].Kind)
	assert.JSONEq(t, `[{"name":"note.txt","kind":"file","path":"`+path+`"}]`, result.Data["json"].(string))

	result, err = p.Execute(ctx, "filesystem.read", map[string]interface{}{"path": path})
	require.NoError(t, err)
	assert.Equal(t, "hello", result.Data["content"])
}

func TestProviderListNotFound(t *testing.T) {
	for _, legacy := range []bool{true, false} {
		p := NewProvider(New(DefaultOptions(), nil), legacy, nil)

		result, err := p.Execute(context.Background(), "filesystem.list", map[string]interface{}{
			"path": filepath.Join(t.TempDir(), "missing"),
		})
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, string(NotFound), result.Kind)
		assert.Contains(t, *result.Error, "Path does not exist")
	}
}

func TestProviderLegacyDegradation(t *testing.T) {
	p := NewProvider(New(DefaultOptions(), nil), true, nil)
	ctx := context.Background()
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	// Listing a file cannot be opened as a directory: empty list
	result, err := p.Execute(ctx, "filesystem.list", map[string]interface{}{"path": file})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 0, result.Data["count"])
	assert.Equal(t, "[]", result.Data["json"])

	// Missing file reads as empty
	result, err = p.Execute(ctx, "filesystem.read", map[string]interface{}{"path": filepath.Join(dir, "missing")})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "", result.Data["content"])

	// Strict read still reports
	result, err = p.Execute(ctx, "filesystem.read_strict", map[string]interface{}{"path": filepath.Join(dir, "missing")})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, string(NotFound), result.Kind)

	// Write into a missing directory reports ERROR without detail
	result, err = p.Execute(ctx, "filesystem.write", map[string]interface{}{
		"path":    filepath.Join(dir, "missing", "x.txt"),
		"content": "x",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, StatusError, result.Data["status"])
	assert.Nil(t, result.Error)
}

func TestProviderStrictErrors(t *testing.T) {
	p := NewProvider(New(DefaultOptions(), nil), false, nil)
	ctx := context.Background()
	dir := t.TempDir()

	result, err := p.Execute(ctx, "filesystem.read", map[string]interface{}{"path": filepath.Join(dir, "missing")})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, string(NotFound), result.Kind)

	result, err = p.Execute(ctx, "filesystem.write", map[string]interface{}{
		"path":    filepath.Join(dir, "missing", "x.txt"),
		"content": "x",
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.NotNil(t, result.Error)
}

func TestProviderDelete(t *testing.T) {
	p := NewProvider(New(DefaultOptions(), nil), true, nil)
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "tree")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))

	result, err := p.Execute(ctx, "filesystem.delete", map[string]interface{}{"path": dir})
	require.NoError(t, err)
	assert.True(t, result.Success)

	result, err = p.Execute(ctx, "filesystem.delete", map[string]interface{}{"path": dir})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Path does not exist", *result.Error)
}

func TestProviderMissingParams(t *testing.T) {
	p := NewProvider(New(DefaultOptions(), nil), true, nil)
	ctx := context.Background()

	for _, tool := range []string{"filesystem.list", "filesystem.read", "filesystem.write", "filesystem.delete"} {
		result, err := p.Execute(ctx, tool, map[string]interface{}{})
		require.NoError(t, err)
		assert.False(t, result.Success, tool)
		assert.Equal(t, string(InvalidArgument), result.Kind, tool)
	}

	result, err := p.Execute(ctx, "filesystem.unknown", nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
}
