package guestbook

import (
	"context"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/denismitr/guestbook/internal/lru"
	"github.com/pkg/errors"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
)

type Closer func() error

func NullCloser() error { return nil }

// App wires the storage accessor, renderer and static resolver into a router
// and serves it over HTTP.
type App struct {
	cfg      Config
	accessor *Accessor
	cache    fileCache
	handler  http.Handler
	server   *http.Server
}

func New(cfg Config) (*App, Closer, error) {
	cfg.applyDefaults()

	renderer, err := NewRenderer(resolvePath(cfg.Root, filepath.Join(cfg.TemplatesDir, readTemplate)))
	if err != nil {
		return nil, NullCloser, err
	}

	var cache fileCache = lru.NullCache{}
	if !cfg.DisableFileCache {
		c, err := lru.NewCache(fileCacheShards, cfg.FileCacheBytes, nil)
		if err != nil {
			return nil, NullCloser, errors.Wrap(err, "could not create file cache")
		}
		cache = c
	}

	accessor := NewAccessor(resolvePath(cfg.Root, cfg.DataFile), cfg.Now)
	static := NewStaticResolver(cfg.Root, cache)

	var handler http.Handler = NewRouter(static, renderer, accessor, cfg.Logger, cfg.Log)
	if cfg.Log {
		handler = loggingMiddleware(cfg.Logger, handler)
	}

	app := &App{
		cfg:      cfg,
		accessor: accessor,
		cache:    cache,
		handler:  handler,
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ErrorLog:          cfg.Logger,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}

	return app, app.close, nil
}

func (a *App) Handler() http.Handler {
	return a.handler
}

func (a *App) Accessor() *Accessor {
	return a.accessor
}

// ListenAndServe binds the configured address and serves until ctx is done.
func (a *App) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", a.cfg.Addr)
	if err != nil {
		return errors.Wrapf(err, "could not listen on %s", a.cfg.Addr)
	}

	return a.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is done, then stops
// accepting, waits for in-flight requests and closes the listener.
func (a *App) Serve(ctx context.Context, listener net.Listener) error {
	a.cfg.Logger.Printf("Starting server on port %s...", port(listener.Addr()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
	}

	a.cfg.Logger.Println("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "could not shut down gracefully")
	}

	<-errCh
	a.cfg.Logger.Println("Server has been stopped")
	return nil
}

func (a *App) close() error {
	a.cache.Purge()
	if err := a.server.Close(); err != nil {
		return errors.Wrap(err, "could not close server")
	}

	return nil
}

func resolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(root, path)
}

func port(addr net.Addr) string {
	_, p, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}

	return p
}
