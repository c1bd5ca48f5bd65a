package guestbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	r := NewRecord(Field{"username", "alice"}, Field{"message", "hello"})

	assert.Equal(t, "alice", r.Get("username"))
	assert.Equal(t, "", r.Get("nickname"), "absent fields read as empty")

	_, ok := r.Lookup("nickname")
	assert.False(t, ok)

	r.Set("username", "bob")
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, map[string]string{"username": "bob", "message": "hello"}, r.Map())
}

func TestRecord_clone(t *testing.T) {
	r := NewRecord(Field{"username", "alice"})
	cp, err := r.clone()
	require.NoError(t, err)
	require.Equal(t, r, cp)

	cp.Set("username", "mallory")
	assert.Equal(t, "alice", r.Get("username"), "clone must not share fields")
}

func TestRecord_MarshalJSON(t *testing.T) {
	r := NewRecord(Field{"z", "<b>&"}, Field{"a", "Привіт"})

	b, err := r.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":"<b>&","a":"Привіт"}`, string(b))

	empty, err := Record{}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(empty))
}

func TestRecord_cloneEmpty(t *testing.T) {
	cp, err := Record{}.clone()
	require.NoError(t, err)
	assert.Equal(t, 0, cp.Len())

	s := NewStore()
	require.NoError(t, s.Put("2024-05-01 09:30:00", Record{}))

	stored, ok := s.Get("2024-05-01 09:30:00")
	require.True(t, ok)
	assert.Equal(t, "", stored.Get("username"))
}
