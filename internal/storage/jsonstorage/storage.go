package jsonstorage

import (
	"io"
	"sync"

	"github.com/denismitr/guestbook/internal/storage"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

var ErrInvalidDocument = errors.New("invalid json document")

const indent = "    "

// JSONStorage is a single JSON document kept in one file. The document is
// always rewritten in full.
type JSONStorage struct {
	path    string
	tmpPath string
	mu      sync.RWMutex
}

func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path, tmpPath: path + ".tmp"}
}

func (s *JSONStorage) Path() string {
	return s.path
}

func (s *JSONStorage) Exists() bool {
	return storage.FileExists(s.path)
}

// Read returns the raw document. A missing file is reported with ok == false
// and no error.
func (s *JSONStorage) Read() (data []byte, ok bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !storage.FileExists(s.path) {
		return nil, false, nil
	}

	f, fClose, err := storage.OpenFile(s.path)
	if err != nil {
		return nil, false, err
	}

	defer fClose()

	data, err = storage.ReadAll(f)
	if err != nil {
		return nil, false, err
	}

	return data, true, nil
}

// Write validates the document, pretty prints it and swaps it in place
// of the current file.
func (s *JSONStorage) Write(doc []byte) error {
	if !gjson.ValidBytes(doc) {
		return errors.Wrapf(ErrInvalidDocument, "refusing to write %d bytes to %s", len(doc), s.path)
	}

	out := pretty.PrettyOptions(doc, &pretty.Options{Width: 80, Indent: indent})

	s.mu.Lock()
	defer s.mu.Unlock()

	return storage.Replace(s.path, s.tmpPath, func(w io.Writer) error {
		_, err := w.Write(out)
		return err
	})
}
