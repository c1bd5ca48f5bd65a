package guestbook

import (
	"bytes"
	"encoding/json"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

// Field is a single submitted form field.
type Field struct {
	Name  string
	Value string
}

// Record is one submitted form: field names mapped to values in the order
// they first appeared. No schema is enforced.
type Record struct {
	Fields []Field
}

func NewRecord(fields ...Field) Record {
	var r Record
	for _, f := range fields {
		r.Set(f.Name, f.Value)
	}
	return r
}

// Set overwrites the value of an existing field in place or appends a new one.
func (r *Record) Set(name, value string) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			r.Fields[i].Value = value
			return
		}
	}

	r.Fields = append(r.Fields, Field{Name: name, Value: value})
}

// Get returns the value of name or an empty string when the field is absent.
func (r Record) Get(name string) string {
	v, _ := r.Lookup(name)
	return v
}

func (r Record) Lookup(name string) (string, bool) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			return r.Fields[i].Value, true
		}
	}

	return "", false
}

func (r Record) Len() int {
	return len(r.Fields)
}

func (r Record) Map() map[string]string {
	m := make(map[string]string, len(r.Fields))
	for _, f := range r.Fields {
		m[f.Name] = f.Value
	}
	return m
}

func (r Record) clone() (Record, error) {
	var cp Record
	if err := copier.CopyWithOption(&cp, &r, copier.Option{DeepCopy: true}); err != nil {
		return Record{}, errors.Wrap(err, "could not copy record")
	}

	return cp, nil
}

// MarshalJSON encodes the record as an object keeping field order.
func (r Record) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := r.writeJSON(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r Record) writeJSON(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	for i, f := range r.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}

		if err := writeJSONString(buf, f.Name); err != nil {
			return err
		}

		buf.WriteByte(':')

		if err := writeJSONString(buf, f.Value); err != nil {
			return err
		}
	}
	buf.WriteByte('}')

	return nil
}

// writeJSONString writes s as a JSON string leaving non-ASCII text and
// HTML characters as they are.
func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}

	buf.Truncate(buf.Len() - 1) // Encode terminates every value with a newline
	return nil
}
