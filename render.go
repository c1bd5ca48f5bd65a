package guestbook

import (
	"html/template"
	"io"

	"github.com/denismitr/guestbook/internal/storage"
	"github.com/pkg/errors"
)

var ErrTemplateMissing = errors.New("template missing")

// Renderer turns a store into the HTML page listing its entries.
// The template receives a "messages" value holding the entries in
// timestamp order.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer(path string) (*Renderer, error) {
	if !storage.FileExists(path) {
		return nil, errors.Wrapf(ErrTemplateMissing, "no template at %s", path)
	}

	tmpl, err := template.ParseFiles(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse template %s", path)
	}

	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) Render(w io.Writer, s *Store) error {
	data := map[string]interface{}{
		"messages": s.Entries(),
	}

	if err := r.tmpl.Execute(w, data); err != nil {
		return errors.Wrapf(err, "could not render %s", r.tmpl.Name())
	}

	return nil
}
