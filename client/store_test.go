package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ok, err := store.Load("auth", &Session{})
	require.NoError(t, err)
	assert.False(t, ok)

	saved := Session{User: &User{ID: "abc", Name: "Ada"}, Token: "tok"}
	require.NoError(t, store.Save("auth", saved))

	var loaded Session
	ok, err = store.Load("auth", &loaded)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, saved, loaded)

	require.NoError(t, store.Clear("auth"))
	ok, err = store.Load("auth", &loaded)
	require.NoError(t, err)
	assert.False(t, ok)

	// Clearing an absent key is not an error.
	require.NoError(t, store.Clear("auth"))
}

func TestCart(t *testing.T) {
	store := NewMemStore()
	cart, err := NewCart(store)
	require.NoError(t, err)

	require.NoError(t, cart.Add(Product{ID: "p1", Name: "camera", Price: 250}))
	require.NoError(t, cart.Add(Product{ID: "p2", Name: "tripod", Price: 40}))
	require.NoError(t, cart.Add(Product{ID: "p1", Name: "camera", Price: 250}))

	assert.Len(t, cart.Items(), 3)
	assert.InDelta(t, 540, cart.Total(), 0.001)

	// Remove drops only the first matching line.
	require.NoError(t, cart.Remove("p1"))
	assert.Len(t, cart.Items(), 2)
	assert.InDelta(t, 290, cart.Total(), 0.001)

	// A fresh cart over the same store sees the persisted lines.
	reloaded, err := NewCart(store)
	require.NoError(t, err)
	assert.Len(t, reloaded.Items(), 2)

	require.NoError(t, cart.Reset())
	assert.Empty(t, cart.Items())
	assert.Zero(t, cart.Total())
}

func TestSearchState(t *testing.T) {
	store := NewMemStore()
	search, err := NewSearch(store)
	require.NoError(t, err)
	assert.Empty(t, search.Get().Keyword)

	require.NoError(t, search.Set("camera", []Product{{ID: "p1", Name: "camera"}}))

	reloaded, err := NewSearch(store)
	require.NoError(t, err)
	assert.Equal(t, "camera", reloaded.Get().Keyword)
	require.Len(t, reloaded.Get().Results, 1)

	require.NoError(t, search.Reset())
	assert.Empty(t, search.Get().Keyword)
}
