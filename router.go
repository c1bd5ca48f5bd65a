package guestbook

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
)

const (
	indexPage   = "index.html"
	messagePage = "message.html"
	errorPage   = "error.html"
)

// Router dispatches requests by method and path. GET paths without a
// registered route fall through to the static resolver, every POST is a
// form submission.
type Router struct {
	routes   map[string]map[string]http.HandlerFunc
	fallback map[string]http.HandlerFunc

	static   *StaticResolver
	renderer *Renderer
	accessor *Accessor
	logger   *log.Logger
	verbose  bool
}

func NewRouter(static *StaticResolver, renderer *Renderer, accessor *Accessor, logger *log.Logger, verbose bool) *Router {
	rt := &Router{
		routes:   make(map[string]map[string]http.HandlerFunc),
		fallback: make(map[string]http.HandlerFunc),
		static:   static,
		renderer: renderer,
		accessor: accessor,
		logger:   logger,
		verbose:  verbose,
	}

	rt.Handle(http.MethodGet, "/", rt.page(indexPage))
	rt.Handle(http.MethodGet, "/message", rt.page(messagePage))
	rt.Handle(http.MethodGet, "/read", rt.read)
	rt.fallback[http.MethodGet] = rt.serveStatic
	rt.fallback[http.MethodPost] = rt.submit

	return rt
}

func (rt *Router) Handle(method, path string, handler http.HandlerFunc) {
	if rt.routes[method] == nil {
		rt.routes[method] = make(map[string]http.HandlerFunc)
	}
	rt.routes[method][path] = handler
}

func (rt *Router) findHandler(method, path string) http.HandlerFunc {
	if methodHandlers, ok := rt.routes[method]; ok {
		if handler, ok := methodHandlers[path]; ok {
			return handler
		}
	}

	if handler, ok := rt.fallback[method]; ok {
		return handler
	}

	return rt.notImplemented
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.findHandler(r.Method, r.URL.Path)(w, r)
}

func (rt *Router) page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := rt.static.ServeHTML(w, name, http.StatusOK); err != nil {
			rt.fail(w, err, http.StatusInternalServerError)
		}
	}
}

func (rt *Router) read(w http.ResponseWriter, r *http.Request) {
	s, err := rt.accessor.Load()
	if err != nil {
		rt.fail(w, err, http.StatusInternalServerError)
		return
	}

	buf := &bytes.Buffer{}
	if err := rt.renderer.Render(buf, s); err != nil {
		rt.fail(w, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (rt *Router) serveStatic(w http.ResponseWriter, r *http.Request) {
	path, ok := rt.static.Resolve(r.URL.Path)
	if !ok {
		if err := rt.static.ServeHTML(w, errorPage, http.StatusNotFound); err != nil {
			rt.fail(w, err, http.StatusNotFound)
		}
		return
	}

	if err := rt.static.Serve(w, path, http.StatusOK); err != nil {
		rt.fail(w, err, http.StatusInternalServerError)
	}
}

func (rt *Router) submit(w http.ResponseWriter, r *http.Request) {
	rec, err := readForm(r)
	if err != nil {
		rt.fail(w, err, http.StatusBadRequest)
		return
	}

	ts, err := rt.accessor.Save(rec)
	if err != nil {
		rt.fail(w, err, http.StatusInternalServerError)
		return
	}

	if rt.verbose {
		rt.logger.Printf("saved record under %q: %v", ts, rec.Map())
	}

	w.Header().Set("Location", "/")
	w.WriteHeader(http.StatusFound)
}

func (rt *Router) notImplemented(w http.ResponseWriter, r *http.Request) {
	httpError(w, http.StatusNotImplemented)
}

func (rt *Router) fail(w http.ResponseWriter, err error, status int) {
	rt.logger.Printf("Error handling request: %v", err)
	httpError(w, status)
}

func httpError(w http.ResponseWriter, code int) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	fmt.Fprintf(w, "%d %s", code, http.StatusText(code))
}
