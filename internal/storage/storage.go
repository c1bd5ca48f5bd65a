package storage

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const (
	DefaultFilePerm os.FileMode = 0666
	DefaultDirPerm  os.FileMode = 0755
)

var ErrStorageFailed = errors.New("storage error")

type Closer func() error

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular()
}

func OpenFile(path string) (*os.File, Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "could not open file %s", path)
	}

	return f, f.Close, nil
}

// CreateFile truncates or creates the file at path, creating missing
// parent directories along the way.
func CreateFile(path string, perm os.FileMode) (*os.File, Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPerm); err != nil {
		return nil, nil, errors.Wrapf(err, "could not create directory for %s", path)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "could not create file %s", path)
	}

	return f, f.Close, nil
}

func FileSize(f *os.File) (int, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, errors.Wrapf(err, "could not measure file %s size", f.Name())
	}

	size64 := info.Size()
	if int64(int(size64)) != size64 {
		return 0, errors.Wrapf(ErrStorageFailed, "file %s is too large", f.Name())
	}

	return int(size64), nil
}

// ReadAll reads f from its current offset to EOF.
func ReadAll(f *os.File) ([]byte, error) {
	size, err := FileSize(f)
	if err != nil {
		return nil, err
	}

	size++ // one byte for final read at EOF

	// If a file claims a small size, read at least 512 bytes.
	// In particular, files in Linux's /proc claim size 0 but
	// then do not work right if read in small pieces,
	// so an initial read of 1 byte would not work correctly.
	if size < 512 {
		size = 512
	}

	data := make([]byte, 0, size)
	for {
		if len(data) >= cap(data) {
			d := append(data[:cap(data)], 0)
			data = d[:len(data)]
		}
		n, err := f.Read(data[len(data):cap(data)])
		data = data[:len(data)+n]
		if err != nil {
			if err == io.EOF {
				return data, nil
			}
			return nil, errors.Wrapf(err, "could not read file %s", f.Name())
		}
	}
}

// Replace writes the contents produced by write into tmpPath and then
// renames it over path, so readers never observe a partially written file.
func Replace(path, tmpPath string, write func(w io.Writer) error) error {
	tmpF, tmpClose, err := CreateFile(tmpPath, DefaultFilePerm)
	if err != nil {
		return err
	}

	if err := write(tmpF); err != nil {
		_ = tmpClose()
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "could not write to tmp file %s", tmpPath)
	}

	if err := tmpF.Sync(); err != nil {
		_ = tmpClose()
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "could not sync tmp file %s", tmpPath)
	}

	if err := tmpClose(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "could not close tmp file %s", tmpPath)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "could not replace %s with %s", path, tmpPath)
	}

	return nil
}
