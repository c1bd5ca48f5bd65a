package guestbook

import (
	"io/ioutil"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestAccessor_Load(t *testing.T) {
	t.Run("missing file is an empty store", func(t *testing.T) {
		a := NewAccessor(filepath.Join(t.TempDir(), "storage", "data.json"), nil)

		s, err := a.Load()
		require.NoError(t, err)
		assert.Equal(t, 0, s.Len())
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data.json")
		require.NoError(t, ioutil.WriteFile(path, []byte(`{"oops"`), 0644))

		_, err := NewAccessor(path, nil).Load()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrCorruptStore))
	})
}

func TestAccessor_Save(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 9, 30, 15, 999, time.Local)}
	path := filepath.Join(t.TempDir(), "storage", "data.json")
	a := NewAccessor(path, clock.now)

	t.Run("first save creates the file under a second precision key", func(t *testing.T) {
		ts, err := a.Save(NewRecord(Field{"username", "alice"}, Field{"message", "hello"}))
		require.NoError(t, err)
		assert.Equal(t, "2024-05-01 09:30:15", ts)

		b, err := ioutil.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "alice", gjson.GetBytes(b, "2024-05-01 09:30:15.username").String())
		assert.Equal(t, "hello", gjson.GetBytes(b, "2024-05-01 09:30:15.message").String())
		assert.Contains(t, string(b), "\n    \"2024-05-01 09:30:15\": {\n        \"username\": \"alice\",")
	})

	t.Run("a later second adds a key", func(t *testing.T) {
		clock.advance(time.Second)
		ts, err := a.Save(NewRecord(Field{"username", "bob"}, Field{"message", "hi"}))
		require.NoError(t, err)
		assert.Equal(t, "2024-05-01 09:30:16", ts)

		s, err := a.Load()
		require.NoError(t, err)
		assert.Equal(t, 2, s.Len())
	})

	t.Run("the same second overwrites", func(t *testing.T) {
		_, err := a.Save(NewRecord(Field{"username", "carol"}))
		require.NoError(t, err)

		s, err := a.Load()
		require.NoError(t, err)
		require.Equal(t, 2, s.Len())

		r, ok := s.Get("2024-05-01 09:30:16")
		require.True(t, ok)
		assert.Equal(t, "carol", r.Get("username"))
		assert.Equal(t, "", r.Get("message"))
	})

	t.Run("a corrupt file is not overwritten", func(t *testing.T) {
		corrupt := filepath.Join(t.TempDir(), "data.json")
		require.NoError(t, ioutil.WriteFile(corrupt, []byte(`not json`), 0644))

		_, err := NewAccessor(corrupt, clock.now).Save(NewRecord(Field{"a", "b"}))
		assert.True(t, errors.Is(err, ErrCorruptStore))

		b, err := ioutil.ReadFile(corrupt)
		require.NoError(t, err)
		assert.Equal(t, `not json`, string(b))
	})
}

func TestAccessor_Save_Concurrent(t *testing.T) {
	var mu sync.Mutex
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	next := 0
	now := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		next++
		return base.Add(time.Duration(next) * time.Second)
	}

	a := NewAccessor(filepath.Join(t.TempDir(), "data.json"), now)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := a.Save(NewRecord(Field{"username", "someone"}))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	s, err := a.Load()
	require.NoError(t, err)
	assert.Equal(t, 20, s.Len(), "no update may be lost")
}
