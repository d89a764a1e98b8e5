package file

import (
	"os"
	"path/filepath"
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

func TestNewConfigStore_EnvDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "home")
	t.Setenv(EnvConfigDir, dir)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestDefaultDir(t *testing.T) {
	t.Setenv(EnvConfigDir, "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	dir, err := DefaultDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".storesync"), dir)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("api.token", "abc-us1"))
	require.NoError(t, store.Set("sync.per_page", 42))
	require.NoError(t, store.Set("sync.max_attempts", "5"))
	require.NoError(t, store.Set("sync.concurrency", 2.0))
	require.NoError(t, store.Set("api.requests_per_second", 2.5))
	require.NoError(t, store.Set("feature.enabled", true))

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", store.GetString("api.token"), "abc-us1"},
		{"string wrong type", store.GetString("sync.per_page"), ""},
		{"int", store.GetInt("sync.per_page"), 42},
		{"int from string", store.GetInt("sync.max_attempts"), 5},
		{"int from whole float", store.GetInt("sync.concurrency"), 2},
		{"int from fraction", store.GetInt("api.requests_per_second"), 0},
		{"int wrong type", store.GetInt("api.token"), 0},
		{"bool", store.GetBool("feature.enabled"), true},
		{"bool missing", store.GetBool("feature.other"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestConfigStore_SetRequiresSave(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("store.id", "s1"))
	_, err = os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, store.Save())
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)

	assert.Error(t, store.Set("", "x"))
}

func TestConfigStore_PersistenceAsTables(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("api.token", "abc-us1"))
	require.NoError(t, store1.Set("store.site_url", "https://shop.example.com"))
	require.NoError(t, store1.Set("sync.per_page", 25))
	require.NoError(t, store1.Set("sync.poll_interval", "5s"))
	require.NoError(t, store1.Save())

	content, err := os.ReadFile(store1.Path())
	require.NoError(t, err)
	assert.Contains(t, string(content), "[store]")
	assert.Contains(t, string(content), "site_url = ")
	assert.NotContains(t, string(content), "store.site_url")

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "abc-us1", store2.GetString("api.token"))
	assert.Equal(t, "https://shop.example.com", store2.GetString("store.site_url"))
	assert.Equal(t, 25, store2.GetInt("sync.per_page"))
	assert.Equal(t, "5s", store2.GetString("sync.poll_interval"))
	assert.Equal(t, []string{"api.token", "store.site_url", "sync.per_page", "sync.poll_interval"}, store2.Keys())
}

func TestConfigStore_HandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[api]
token = "key-us6"
requests_per_second = 4.0

[queue]
backend = "redis"
redis_db = 3
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "key-us6", store.GetString("api.token"))
	assert.Equal(t, "redis", store.GetString("queue.backend"))
	assert.Equal(t, 3, store.GetInt("queue.redis_db"))
	val, ok := store.Get("api.requests_per_second")
	require.True(t, ok)
	assert.InDelta(t, 4.0, val, 0.001)
}

func TestConfigStore_Delete(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("store.list_id", "l1"))
	require.NoError(t, store.Save())
	require.NoError(t, store.Delete("store.list_id"))
	require.NoError(t, store.Delete("store.list_id"))
	require.NoError(t, store.Save())

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	_, ok := reloaded.Get("store.list_id")
	assert.False(t, ok)
}

func TestConfigStore_LoadDiscardsUnsaved(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("store.id", "draft"))
	require.NoError(t, store.Load())

	_, ok := store.Get("store.id")
	assert.False(t, ok)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("api.token", "secret-us1"))
	require.NoError(t, store.Save())

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not valid [[[ toml"), 0600))

	_, err := NewConfigStore(tmpDir)
	assert.Error(t, err)
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"api.token":      "t",
		"api.host":       "h",
		"top":            1,
		"top.child":      2,
		"store.site_url": "u",
	})

	assert.Equal(t, map[string]any{"token": "t", "host": "h"}, nested["api"])
	assert.Equal(t, map[string]any{"site_url": "u"}, nested["store"])
	assert.Equal(t, 1, nested["top"])

	assert.Equal(t, 2, nested["top.child"])

	flat := flattenMap(nested, "")
	assert.Equal(t, "t", flat["api.token"])
	assert.Equal(t, "u", flat["store.site_url"])
	assert.Equal(t, 1, flat["top"])
	assert.Equal(t, 2, flat["top.child"])
}
