package identity

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionStore(t *testing.T) {
	store := NewSessionStore()
	id := Identity{UserID: "u1", Role: RoleStudent}

	var wg sync.WaitGroup
	ids := make(chan string, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- store.Create(id, "tok").ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for sid := range ids {
		assert.False(t, seen[sid], "session ids are unique")
		seen[sid] = true
	}
	assert.Equal(t, 20, store.Len())

	for sid := range seen {
		sess, err := store.Get(sid)
		assert.NoError(t, err)
		assert.Equal(t, id, sess.Identity)
		assert.True(t, store.Delete(sid))
		assert.False(t, store.Delete(sid))
	}
	_, err := store.Get("missing")
	assert.Equal(t, ErrSessionNotFound, err)
}
