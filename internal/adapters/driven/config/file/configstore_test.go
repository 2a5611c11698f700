package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_PrefersExistingYAML(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("llm:\n  provider: ollama\n"), 0600))

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, yamlPath, store.Path())
	assert.Equal(t, "ollama", store.GetString("llm.provider"))
}

func TestOpenConfigStore_UnsupportedExtension(t *testing.T) {
	_, err := OpenConfigStore(filepath.Join(t.TempDir(), "config.ini"))
	assert.Error(t, err)
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	require.NoError(t, store.Set("k", "v"))
	_, err = os.Stat(filepath.Join(dir, "config.toml"))
	assert.NoError(t, err)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("s", "hello"))
	require.NoError(t, store.Set("i", 42))
	require.NoError(t, store.Set("f", 1.5))
	require.NoError(t, store.Set("b", true))
	require.NoError(t, store.Set("list", []string{"x", "y"}))

	assert.Equal(t, "hello", store.GetString("s"))
	assert.Equal(t, 42, store.GetInt("i"))
	assert.InDelta(t, 1.5, store.GetFloat("f"), 1e-9)
	assert.InDelta(t, 42.0, store.GetFloat("i"), 1e-9)
	assert.True(t, store.GetBool("b"))
	assert.Equal(t, []string{"x", "y"}, store.GetStringSlice("list"))

	// Wrong types and missing keys return zero values
	assert.Empty(t, store.GetString("i"))
	assert.Zero(t, store.GetInt("s"))
	assert.Zero(t, store.GetFloat("s"))
	assert.False(t, store.GetBool("s"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_Persistence_TOML(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.provider", "openai"))
	require.NoError(t, store.Set("chunker.chunk_size", 700))
	require.NoError(t, store.Set("server.chat_rate", 2.5))
	require.NoError(t, store.Set("server.allowed_origins", []string{"http://localhost:3000"}))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[llm]")
	assert.Contains(t, string(raw), "[chunker]")

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "openai", reloaded.GetString("llm.provider"))
	assert.Equal(t, 700, reloaded.GetInt("chunker.chunk_size"))
	assert.InDelta(t, 2.5, reloaded.GetFloat("server.chat_rate"), 1e-9)
	assert.Equal(t, []string{"http://localhost:3000"}, reloaded.GetStringSlice("server.allowed_origins"))
}

func TestConfigStore_Persistence_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docqa.yml")
	store, err := OpenConfigStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Set("embedding.provider", "local"))
	require.NoError(t, store.Set("retrieval.top_k", 3))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "embedding:\n    provider: local")

	reloaded, err := OpenConfigStore(path)
	require.NoError(t, err)
	assert.Equal(t, "local", reloaded.GetString("embedding.provider"))
	assert.Equal(t, 3, reloaded.GetInt("retrieval.top_k"))
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Load())
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_Load_Corrupted(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not = [valid"), 0600))

	_, err := NewConfigStore(tmpDir)
	assert.Error(t, err)
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), nil, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("k", "v"))
	assert.Equal(t, "v", store.GetString("k"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("k", "v"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("key", i)
		}()
		go func() {
			defer wg.Done()
			_ = store.GetInt("key")
		}()
	}
	wg.Wait()
}

func TestNestMap(t *testing.T) {
	got := nestMap(map[string]any{
		"a.b":   1,
		"a.c.d": "x",
		"e":     true,
	})

	assert.Equal(t, map[string]any{
		"a": map[string]any{
			"b": 1,
			"c": map[string]any{"d": "x"},
		},
		"e": true,
	}, got)
}

func TestNestMap_ValueShadowsTable(t *testing.T) {
	got := nestMap(map[string]any{
		"a":   1,
		"a.b": 2,
	})

	assert.Equal(t, map[string]any{"a": 1}, got)
}

func TestFlattenMap(t *testing.T) {
	got := flattenMap(map[string]any{
		"llm": map[string]any{"provider": "remote", "timeout": "60s"},
		"top": 1,
	}, "")

	assert.Equal(t, map[string]any{
		"llm.provider": "remote",
		"llm.timeout":  "60s",
		"top":          1,
	}, got)
}
