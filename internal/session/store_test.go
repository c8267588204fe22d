package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_CreateAndResolve(t *testing.T) {
	store := NewStore()

	token := store.Create("user-1")
	assert.NotEmpty(t, token)

	userID, ok := store.Resolve(token)
	assert.True(t, ok)
	assert.Equal(t, "user-1", userID)
}

func TestStore_Resolve_UnknownToken(t *testing.T) {
	store := NewStore()

	_, ok := store.Resolve("no-such-token")
	assert.False(t, ok)
}

func TestStore_Destroy(t *testing.T) {
	store := NewStore()

	token := store.Create("user-1")
	store.Destroy(token)

	_, ok := store.Resolve(token)
	assert.False(t, ok)

	// destroying again is a no-op
	store.Destroy(token)
	assert.Equal(t, 0, store.Len())
}

func TestStore_TokensAreUnique(t *testing.T) {
	store := NewStore()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := store.Create("user-1")
		assert.False(t, seen[token])
		seen[token] = true
	}
	assert.Equal(t, 100, store.Len())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", n)
			token := store.Create(userID)

			got, ok := store.Resolve(token)
			assert.True(t, ok)
			assert.Equal(t, userID, got)

			store.Destroy(token)
			_, ok = store.Resolve(token)
			assert.False(t, ok)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, store.Len())
}
