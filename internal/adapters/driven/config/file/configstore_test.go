package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".fabricctl", "config.toml"), store.Path())
}

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cfg")

	_, err := NewConfigStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestConfigStore_SetPersistsImmediately(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyBaseURL, "http://backend:4000"))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://backend:4000", reopened.GetString(KeyBaseURL))
}

func TestConfigStore_KnownKeysRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyBaseURL, "http://backend:4000"))
	require.NoError(t, store.Set(KeyPollIntervalMs, 1500))
	require.NoError(t, store.Set(KeyAllowMultipleSources, true))
	require.NoError(t, store.Set(KeyDefaultLLM, "gpt-4o-mini"))
	require.NoError(t, store.Set(KeyChatTemperature, 0.4))
	require.NoError(t, store.Set(KeyChatMaxTokens, 2000))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://backend:4000", reopened.GetString(KeyBaseURL))
	assert.Equal(t, 1500, reopened.GetInt(KeyPollIntervalMs))
	assert.True(t, reopened.GetBool(KeyAllowMultipleSources))
	assert.Equal(t, "gpt-4o-mini", reopened.GetString(KeyDefaultLLM))
	assert.InDelta(t, 0.4, reopened.GetFloat(KeyChatTemperature), 1e-9)
	assert.Equal(t, 2000, reopened.GetInt(KeyChatMaxTokens))
}

func TestConfigStore_LoadFlattensNestedTables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "[api]\nbase_url = \"http://localhost:4000\"\n\n[poller]\ninterval_ms = 2500\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:4000", store.GetString(KeyBaseURL))
	assert.Equal(t, 2500, store.GetInt(KeyPollIntervalMs))
}

func TestConfigStore_Get_Missing(t *testing.T) {
	store := newTestStore(t)

	_, ok := store.Get("nope")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("nope"))
	assert.Zero(t, store.GetInt("nope"))
	assert.Zero(t, store.GetFloat("nope"))
	assert.False(t, store.GetBool("nope"))
}

func TestConfigStore_TypedGetters_WrongType(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("key", "not a number"))

	assert.Zero(t, store.GetInt("key"))
	assert.Zero(t, store.GetFloat("key"))
	assert.False(t, store.GetBool("key"))
}

func TestConfigStore_GetFloat_FromInteger(t *testing.T) {
	store := newTestStore(t)

	// TOML integers come back as int64 but still read as floats.
	store.mu.Lock()
	store.data[KeyChatTemperature] = int64(1)
	store.mu.Unlock()

	assert.InDelta(t, 1.0, store.GetFloat(KeyChatTemperature), 1e-9)
}

func TestConfigStore_LoadMissingFileStartsEmpty(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Load())
	_, ok := store.Get(KeyBaseURL)
	assert.False(t, ok)
}

func TestConfigStore_LoadInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0600))

	_, err := NewConfigStore(dir)
	assert.Error(t, err)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set(KeyBaseURL, "http://backend:4000"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFlattenMap(t *testing.T) {
	nested := map[string]any{
		"api": map[string]any{
			"base_url": "http://localhost:4000",
		},
		"chat": map[string]any{
			"default_llm": "gpt-4o-mini",
			"max_tokens":  int64(2000),
		},
		"top": "level",
	}

	flat := flattenMap(nested, "")

	assert.Equal(t, "http://localhost:4000", flat["api.base_url"])
	assert.Equal(t, "gpt-4o-mini", flat["chat.default_llm"])
	assert.Equal(t, int64(2000), flat["chat.max_tokens"])
	assert.Equal(t, "level", flat["top"])
}
