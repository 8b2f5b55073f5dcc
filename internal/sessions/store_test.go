package sessions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cur8t/agents/internal/entities"
)

func TestMemoryStorePutGetDelete(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.Get("missing")
	assert.False(t, ok)

	session := &entities.Session{
		ID:        "abc",
		Stage:     entities.StageUploaded,
		CreatedAt: time.Now(),
	}
	store.Put(session)

	got, ok := store.Get("abc")
	require.True(t, ok)
	assert.Equal(t, entities.StageUploaded, got.Stage)
	assert.Equal(t, 1, store.Len())

	assert.True(t, store.Delete("abc"))
	assert.False(t, store.Delete("abc"))
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreDeleteExpired(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()

	store.Put(&entities.Session{ID: "old", CreatedAt: now.Add(-48 * time.Hour)})
	store.Put(&entities.Session{ID: "fresh", CreatedAt: now})

	removed := store.DeleteExpired(now.Add(-24 * time.Hour))
	assert.Equal(t, 1, removed)

	_, ok := store.Get("old")
	assert.False(t, ok)
	_, ok = store.Get("fresh")
	assert.True(t, ok)
}
