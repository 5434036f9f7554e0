package credentials_test

import (
	"testing"
	"time"

	"github.com/hubdash/go-hub-dashboards/credentials"
	"github.com/hubdash/go-hub-dashboards/kvstore/memstore"
	"github.com/stretchr/testify/require"
)

const testToken = "test-access-token"

func newTestStore(t *testing.T, now *time.Time) (*credentials.Store, *memstore.Store) {
	t.Helper()

	kv := memstore.New()
	store, err := credentials.NewStore(kv, credentials.WithNowTime(func() time.Time { return *now }))
	require.NoError(t, err)
	return store, kv
}

func TestStore_SetAndGet(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store, _ := newTestStore(t, &now)

	session := credentials.Session{
		AccessToken: testToken,
		TokenType:   "Bearer",
		ExpiresAt:   now.Add(time.Hour),
		Source:      credentials.SourceRedirect,
	}
	require.NoError(t, store.Set(session))

	got := store.Get()
	require.NotNil(t, got)
	require.Equal(t, testToken, got.AccessToken)
	require.Equal(t, credentials.SourceRedirect, got.Source)
}

func TestStore_SetReplacesPriorSession(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store, _ := newTestStore(t, &now)

	require.NoError(t, store.Set(credentials.Session{
		AccessToken: "first",
		ExpiresAt:   now.Add(time.Hour),
		Source:      credentials.SourceRedirect,
	}))
	require.NoError(t, store.Set(credentials.Session{
		AccessToken: "second",
		ExpiresAt:   now.Add(time.Hour),
		Source:      credentials.SourceDirectPaste,
	}))

	got := store.Get()
	require.NotNil(t, got)
	require.Equal(t, "second", got.AccessToken)
	require.Equal(t, credentials.SourceDirectPaste, got.Source)
}

func TestStore_LazyExpiry(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	now := t0
	store, kv := newTestStore(t, &now)

	require.NoError(t, store.Set(credentials.Session{
		AccessToken: testToken,
		ExpiresAt:   t0.Add(60 * time.Minute),
		Source:      credentials.SourceDirectPaste,
	}))

	t.Run("valid just before expiry", func(t *testing.T) {
		now = t0.Add(59 * time.Minute)
		require.NotNil(t, store.Get())
	})

	t.Run("absent after expiry and persisted copy cleared", func(t *testing.T) {
		now = t0.Add(61 * time.Minute)
		require.Nil(t, store.Get())
		require.Equal(t, 0, kv.Len())
	})

	t.Run("stays absent on subsequent reads", func(t *testing.T) {
		require.Nil(t, store.Get())
	})
}

func TestStore_Clear(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store, kv := newTestStore(t, &now)

	require.NoError(t, store.Set(credentials.Session{
		AccessToken: testToken,
		ExpiresAt:   now.Add(time.Hour),
		Source:      credentials.SourceRedirect,
	}))
	require.NoError(t, store.Clear())
	require.Nil(t, store.Get())
	require.Equal(t, 0, kv.Len())
}

func TestStore_MalformedSessionTreatedAsAbsent(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store, kv := newTestStore(t, &now)

	require.NoError(t, kv.Set(credentials.DefaultSessionKey, "not-json{{"))
	require.Nil(t, store.Get())
	require.Equal(t, 0, kv.Len())
}
