package guestbook

import (
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

var ErrMalformedForm = errors.New("malformed form body")
var ErrMissingContentLength = errors.New("missing or invalid content length")

// ParseForm splits a URL-encoded body on '&' and every pair on its first '='.
// Keys and values are percent-decoded, '+' decodes to a space.
// A segment without '=' makes the whole body malformed.
func ParseForm(body string) (Record, error) {
	var r Record

	for _, segment := range strings.Split(body, "&") {
		i := strings.IndexByte(segment, '=')
		if i < 0 {
			return Record{}, errors.Wrapf(ErrMalformedForm, "segment %q has no '='", segment)
		}

		key, err := url.QueryUnescape(segment[:i])
		if err != nil {
			return Record{}, errors.Wrapf(ErrMalformedForm, "could not decode key %q: %s", segment[:i], err.Error())
		}

		value, err := url.QueryUnescape(segment[i+1:])
		if err != nil {
			return Record{}, errors.Wrapf(ErrMalformedForm, "could not decode value of %q: %s", key, err.Error())
		}

		r.Set(key, value)
	}

	return r, nil
}

// readForm reads exactly Content-Length bytes of the request body and parses them.
func readForm(req *http.Request) (Record, error) {
	if req.ContentLength < 0 {
		return Record{}, ErrMissingContentLength
	}

	body, err := ioutil.ReadAll(io.LimitReader(req.Body, req.ContentLength))
	if err != nil {
		return Record{}, errors.Wrap(err, "could not read request body")
	}

	if int64(len(body)) != req.ContentLength {
		return Record{}, errors.Wrapf(
			ErrMalformedForm,
			"body has %d bytes, content length promised %d",
			len(body), req.ContentLength,
		)
	}

	return ParseForm(string(body))
}
