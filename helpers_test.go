package guestbook_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	indexFixture   = "<html><body>index</body></html>"
	messageFixture = `<html><body><form method="post"><input name="username"><textarea name="message"></textarea></form></body></html>`
	errorFixture   = "<html><body>not found</body></html>"
	readFixture    = `<html><body>{{range .messages}}<section>{{.Timestamp}}|{{range .Record.Fields}}{{.Name}}={{.Value}};{{end}}|{{.Record.Get "nickname"}}</section>{{end}}</body></html>`
	cssFixture     = "body { color: red; }"
)

// seedRoot lays out an application root with the fixed pages, the read
// template and one stylesheet.
func seedRoot(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"index.html":          indexFixture,
		"message.html":        messageFixture,
		"error.html":          errorFixture,
		"templates/read.html": readFixture,
		"static/style.css":    cssFixture,
	}

	for name, contents := range files {
		writeFile(t, filepath.Join(root, name), contents)
	}

	return root
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, ioutil.WriteFile(path, []byte(contents), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}
