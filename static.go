package guestbook

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/denismitr/guestbook/internal/storage"
	"github.com/pkg/errors"
)

const (
	contentTypeHTML    = "text/html"
	defaultContentType = "text/plain"
)

type fileCache interface {
	Add(key string, value []byte) bool
	Get(key string) ([]byte, bool)
	Purge()
}

// StaticResolver serves raw files found beneath root.
type StaticResolver struct {
	root  string
	cache fileCache
}

func NewStaticResolver(root string, cache fileCache) *StaticResolver {
	return &StaticResolver{root: root, cache: cache}
}

// Resolve maps a URL path onto a regular file beneath root.
// Paths are not confined to root.
func (sr *StaticResolver) Resolve(urlPath string) (string, bool) {
	rel := strings.TrimPrefix(urlPath, "/")
	if rel == "" {
		return "", false
	}

	path := filepath.Join(sr.root, filepath.FromSlash(rel))
	if !storage.FileExists(path) {
		return "", false
	}

	return path, true
}

// Serve sends the file with a content type detected from its extension.
func (sr *StaticResolver) Serve(w http.ResponseWriter, path string, status int) error {
	return sr.send(w, path, ContentType(path), status)
}

// ServeHTML sends a page stored under root as text/html.
func (sr *StaticResolver) ServeHTML(w http.ResponseWriter, name string, status int) error {
	return sr.send(w, filepath.Join(sr.root, name), contentTypeHTML, status)
}

func (sr *StaticResolver) send(w http.ResponseWriter, path, contentType string, status int) error {
	b, err := sr.read(path)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(status)
	_, err = w.Write(b)
	return err
}

// read returns the file bytes, going to disk only when the file changed
// since it was cached.
func (sr *StaticResolver) read(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not stat %s", path)
	}

	key := fmt.Sprintf("%s\x00%d\x00%d", path, info.Size(), info.ModTime().UnixNano())
	if b, ok := sr.cache.Get(key); ok {
		return b, nil
	}

	f, fClose, err := storage.OpenFile(path)
	if err != nil {
		return nil, err
	}

	defer fClose()

	b, err := storage.ReadAll(f)
	if err != nil {
		return nil, err
	}

	sr.cache.Add(key, b)
	return b, nil
}

// ContentType guesses the MIME type from the file extension and falls back
// to text/plain.
func ContentType(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}

	return defaultContentType
}
