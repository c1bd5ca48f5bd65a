package storage

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, ioutil.WriteFile(path, []byte("a"), 0644))

	assert.True(t, FileExists(path))
	assert.False(t, FileExists(dir), "directories are not files")
	assert.False(t, FileExists(filepath.Join(dir, "absent")))
}

func TestReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.txt")
	contents := strings.Repeat("0123456789", 1000)
	require.NoError(t, ioutil.WriteFile(path, []byte(contents), 0644))

	f, fClose, err := OpenFile(path)
	require.NoError(t, err)
	defer fClose()

	size, err := FileSize(f)
	require.NoError(t, err)
	assert.Equal(t, len(contents), size)

	b, err := ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, contents, string(b))
}

func TestReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "data.json")
	tmpPath := path + ".tmp"

	t.Run("writes through a tmp file", func(t *testing.T) {
		require.NoError(t, Replace(path, tmpPath, func(w io.Writer) error {
			_, err := io.WriteString(w, "first")
			return err
		}))

		b, err := ioutil.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "first", string(b))
		assert.NoFileExists(t, tmpPath)
	})

	t.Run("a failed write keeps the old contents", func(t *testing.T) {
		boom := errors.New("boom")
		err := Replace(path, tmpPath, func(w io.Writer) error {
			_, _ = io.WriteString(w, "partial")
			return boom
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, boom))

		b, err := ioutil.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "first", string(b))

		_, statErr := os.Stat(tmpPath)
		assert.True(t, os.IsNotExist(statErr))
	})
}
