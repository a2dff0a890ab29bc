package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("api.base_url", "http://localhost:4000"))
	require.NoError(t, store.Set("poller.interval_ms", int64(2500)))
	require.NoError(t, store.Set("chat.temperature", 0.2))
	require.NoError(t, store.Set("registry.allow_multiple_sources", true))

	val, ok := store.Get("api.base_url")
	assert.True(t, ok)
	assert.Equal(t, "http://localhost:4000", val)

	assert.Equal(t, "http://localhost:4000", store.GetString("api.base_url"))
	assert.Equal(t, 2500, store.GetInt("poller.interval_ms"))
	assert.Equal(t, 0.2, store.GetFloat("chat.temperature"))
	assert.True(t, store.GetBool("registry.allow_multiple_sources"))
}

func TestConfigStore_Set_Overwrites(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("chat.default_llm", "gpt-4o-mini"))
	require.NoError(t, store.Set("chat.default_llm", "gpt-4o"))

	assert.Equal(t, "gpt-4o", store.GetString("chat.default_llm"))
}

func TestConfigStore_Get_Missing(t *testing.T) {
	store := NewConfigStore()

	_, ok := store.Get("nope")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("nope"))
	assert.Zero(t, store.GetInt("nope"))
	assert.Zero(t, store.GetFloat("nope"))
	assert.False(t, store.GetBool("nope"))
}

func TestConfigStore_TypedGetters_WrongType(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("key", "not a number"))

	assert.Zero(t, store.GetInt("key"))
	assert.Zero(t, store.GetFloat("key"))
	assert.False(t, store.GetBool("key"))
}

func TestConfigStore_GetInt_Int64(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("chat.max_tokens", int64(1500)))

	assert.Equal(t, 1500, store.GetInt("chat.max_tokens"))
}

func TestConfigStore_GetFloat_FromInt(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("chat.temperature", 1))

	assert.Equal(t, 1.0, store.GetFloat("chat.temperature"))
}

func TestConfigStore_SaveAndLoad_NoOps(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("api.base_url", "http://localhost:4000"))

	require.NoError(t, store.Save())
	require.NoError(t, store.Load())

	assert.Equal(t, "http://localhost:4000", store.GetString("api.base_url"))
}

func TestConfigStore_Path(t *testing.T) {
	assert.Equal(t, ":memory:", NewConfigStore().Path())
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("poller.interval_ms", int64(2500))
		}()
		go func() {
			defer wg.Done()
			_ = store.GetInt("poller.interval_ms")
		}()
	}
	wg.Wait()
}
