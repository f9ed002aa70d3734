package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage_Unit(t *testing.T) {
	// An in-memory filesystem keeps the test off the disk.
	memFs := afero.NewMemMapFs()
	store := NewFileStorage(memFs, "state/admin")
	ctx := context.Background()

	t.Run("Get missing key", func(t *testing.T) {
		v, ok, err := store.Get(ctx, KeyToken)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("Set then Get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, KeyToken, "abc"))

		v, ok, err := store.Get(ctx, KeyToken)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "abc", v)

		raw, err := afero.ReadFile(memFs, "state/admin/token")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(raw))

		exists, err := afero.Exists(memFs, "state/admin/.token.tmp")
		require.NoError(t, err)
		assert.False(t, exists, "temporary file should be renamed away")
	})

	t.Run("Set overwrites", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, KeyToken, "def"))
		v, _, err := store.Get(ctx, KeyToken)
		require.NoError(t, err)
		assert.Equal(t, "def", v)
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, store.Remove(ctx, KeyToken))
		_, ok, err := store.Get(ctx, KeyToken)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Remove missing key is not an error", func(t *testing.T) {
		assert.NoError(t, store.Remove(ctx, KeyUser))
	})

	t.Run("invalid keys", func(t *testing.T) {
		for _, key := range []string{"", "../token", "a/b", ".hidden"} {
			assert.Error(t, store.Set(ctx, key, "x"), "key %q", key)
		}
	})
}

func TestCookieStorage(t *testing.T) {
	cookieStore := sessions.NewCookieStore([]byte("a-very-secret-key-for-testing-!"))
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	sess, err := cookieStore.Get(req, SessionName)
	require.NoError(t, err)

	store := NewCookieStorage(sess, req, rec)

	_, ok, err := store.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, KeyToken, "abc"))
	require.NoError(t, store.Set(ctx, KeyUser, `{"username":"ops"}`))
	assert.NotEmpty(t, rec.Result().Cookies(), "writes should save the cookie")

	// A second request carrying the cookie sees the same values.
	next := httptest.NewRequest(http.MethodGet, "/", nil)
	cookies := rec.Result().Cookies()
	next.AddCookie(cookies[len(cookies)-1])
	sess2, err := cookieStore.Get(next, SessionName)
	require.NoError(t, err)
	store2 := NewCookieStorage(sess2, next, httptest.NewRecorder())

	v, ok, err := store2.Get(ctx, KeyUser)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"username":"ops"}`, v)

	require.NoError(t, store2.Remove(ctx, KeyToken))
	_, ok, err = store2.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	t.Run("client id is stable", func(t *testing.T) {
		id, err := store2.ClientID()
		require.NoError(t, err)
		again, err := store2.ClientID()
		require.NoError(t, err)
		assert.Equal(t, id, again)
	})

	t.Run("non-string values are rejected", func(t *testing.T) {
		sess2.Values["weird"] = 42
		_, _, err := store2.Get(ctx, "weird")
		assert.Error(t, err)
	})
}

func TestWatcher_ReportsChangesFromOtherWriters(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	w, err := NewWatcher(dir, KeyToken, KeyUser)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	seen := map[string]bool{}
	go w.Run(ctx, func(key string) {
		mu.Lock()
		seen[key] = true
		mu.Unlock()
	})

	store := NewFileStorage(afero.NewOsFs(), dir)
	require.NoError(t, store.Set(ctx, KeyToken, "abc"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated"), []byte("x"), 0o600))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return seen[KeyToken]
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.False(t, seen["unrelated"])
}
