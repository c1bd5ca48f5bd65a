package guestbook

import (
	"io/ioutil"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ServerTimeouts(t *testing.T) {
	app, closer, err := New(Config{Root: "web", Logger: log.New(ioutil.Discard, "", 0)})
	require.NoError(t, err)
	defer closer()

	assert.Equal(t, readHeaderTimeout, app.server.ReadHeaderTimeout)
	assert.NotEqual(t, shutdownTimeout, app.server.ReadHeaderTimeout, "header reads are bounded independently of shutdown")
}
