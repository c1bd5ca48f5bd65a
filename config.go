package guestbook

import (
	"log"
	"os"
	"time"

	"github.com/pbnjay/memory"
)

const (
	defaultAddr         = ":3000"
	defaultRoot         = "web"
	defaultDataFile     = "storage/data.json"
	defaultTemplatesDir = "templates"
	readTemplate        = "read.html"

	fileCacheShards               = 16
	maxFileCacheBytes      uint64 = 64 << 20
	fallbackFileCacheBytes uint64 = 8 << 20
)

type Config struct {
	// Addr is the listen address, all interfaces on port 3000 by default.
	Addr string

	// Root holds the fixed pages, the static files and the templates.
	Root string

	// DataFile and TemplatesDir are relative to Root unless absolute.
	DataFile     string
	TemplatesDir string

	// Log enables a line per request and per saved record.
	Log bool

	DisableFileCache bool
	FileCacheBytes   uint64

	Now    func() time.Time
	Logger *log.Logger
}

func (cfg *Config) applyDefaults() {
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}

	if cfg.Root == "" {
		cfg.Root = defaultRoot
	}

	if cfg.DataFile == "" {
		cfg.DataFile = defaultDataFile
	}

	if cfg.TemplatesDir == "" {
		cfg.TemplatesDir = defaultTemplatesDir
	}

	if cfg.FileCacheBytes == 0 {
		cfg.FileCacheBytes = defaultFileCacheBytes()
	}

	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr, "", log.LstdFlags)
	}
}

// defaultFileCacheBytes reserves 1/256 of physical memory for file bodies.
func defaultFileCacheBytes() uint64 {
	total := memory.TotalMemory()
	if total == 0 {
		return fallbackFileCacheBytes
	}

	if n := total / 256; n < maxFileCacheBytes {
		return n
	}

	return maxFileCacheBytes
}
