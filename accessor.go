package guestbook

import (
	"sync"
	"time"

	"github.com/denismitr/guestbook/internal/storage/jsonstorage"
	"github.com/pkg/errors"
)

// Accessor loads and saves the store document. Nothing is cached between
// calls: every Load reads the file and every Save rewrites it.
type Accessor struct {
	mu   sync.Mutex
	file *jsonstorage.JSONStorage
	now  func() time.Time
}

func NewAccessor(path string, now func() time.Time) *Accessor {
	if now == nil {
		now = time.Now
	}

	return &Accessor{file: jsonstorage.NewJSONStorage(path), now: now}
}

func (a *Accessor) Path() string {
	return a.file.Path()
}

// Load returns the persisted store, or an empty one when nothing was saved yet.
func (a *Accessor) Load() (*Store, error) {
	data, ok, err := a.file.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "could not load store from %s", a.file.Path())
	}

	if !ok {
		return NewStore(), nil
	}

	s, err := decodeStore(data)
	if err != nil {
		return nil, errors.Wrapf(err, "could not load store from %s", a.file.Path())
	}

	return s, nil
}

// Save puts r under the current timestamp and rewrites the whole document.
// A submission within the same second as a previous one replaces it.
// It returns the key r was stored under.
func (a *Accessor) Save(r Record) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ts := a.now().Format(TimestampLayout)

	s, err := a.Load()
	if err != nil {
		return "", err
	}

	if err := s.Put(ts, r); err != nil {
		return "", err
	}

	doc, err := s.MarshalJSON()
	if err != nil {
		return "", err
	}

	if err := a.file.Write(doc); err != nil {
		return "", errors.Wrapf(err, "could not save record under %s", ts)
	}

	return ts, nil
}
