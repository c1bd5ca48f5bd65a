package guestbook

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/tidwall/btree"
	"github.com/tidwall/gjson"
)

// TimestampLayout formats store keys as YYYY-MM-DD HH:MM:SS.
const TimestampLayout = "2006-01-02 15:04:05"

var ErrCorruptStore = errors.New("corrupt store")

// Entry is one timestamp and the record saved under it.
type Entry struct {
	Timestamp string
	Record    Record
}

func byTimestamp(a, b interface{}) bool {
	return a.(*Entry).Timestamp < b.(*Entry).Timestamp
}

// Store maps timestamps to records. Iteration is ascending by timestamp,
// which for TimestampLayout keys is chronological.
type Store struct {
	entries *btree.BTree
}

func NewStore() *Store {
	return &Store{entries: btree.NewNonConcurrent(byTimestamp)}
}

// Put inserts a copy of r under ts, replacing whatever was stored there.
func (s *Store) Put(ts string, r Record) error {
	cp, err := r.clone()
	if err != nil {
		return errors.Wrapf(err, "could not put record under %s", ts)
	}

	s.entries.Set(&Entry{Timestamp: ts, Record: cp})
	return nil
}

func (s *Store) Get(ts string) (Record, bool) {
	found := s.entries.Get(&Entry{Timestamp: ts})
	if found == nil {
		return Record{}, false
	}

	return found.(*Entry).Record, true
}

func (s *Store) Len() int {
	return s.entries.Len()
}

func (s *Store) Entries() []Entry {
	result := make([]Entry, 0, s.entries.Len())
	s.entries.Ascend(nil, func(i interface{}) bool {
		result = append(result, *i.(*Entry))
		return true
	})

	return result
}

func (s *Store) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')

	var err error
	first := true
	s.entries.Ascend(nil, func(i interface{}) bool {
		ent := i.(*Entry)
		if !first {
			buf.WriteByte(',')
		}
		first = false

		if err = writeJSONString(buf, ent.Timestamp); err != nil {
			return false
		}

		buf.WriteByte(':')
		err = ent.Record.writeJSON(buf)
		return err == nil
	})

	if err != nil {
		return nil, errors.Wrap(err, "could not encode store")
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeStore parses a persisted document. Every member of the top level
// object must itself be an object; scalar field values are kept as their
// string form.
func decodeStore(data []byte) (*Store, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.Wrap(ErrCorruptStore, "document is not valid json")
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, errors.Wrapf(ErrCorruptStore, "document must be an object, got %s", doc.Type)
	}

	s := NewStore()

	var err error
	doc.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			err = errors.Wrapf(ErrCorruptStore, "entry %q must be an object, got %s", key.String(), value.Type)
			return false
		}

		var r Record
		value.ForEach(func(name, v gjson.Result) bool {
			r.Set(name.String(), v.String())
			return true
		})

		s.entries.Set(&Entry{Timestamp: key.String(), Record: r})
		return true
	})

	if err != nil {
		return nil, err
	}

	return s, nil
}
