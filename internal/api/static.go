package api

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// StaticAssets serves files from the static directory with content-hash
// cache busting. Paths carry a version query parameter (for example
// /static/css/gallery.css?v=abc123). A matching hash gets immutable cache
// headers; anything else gets a short cache lifetime.
type StaticAssets struct {
	mu       sync.RWMutex
	hashes   map[string]string // path -> content hash
	dir      string
	basePath string
}

// NewStaticAssets creates a StaticAssets manager that scans the given directory.
func NewStaticAssets(dir, basePath string, logger *slog.Logger) *StaticAssets {
	sa := &StaticAssets{
		hashes:   make(map[string]string),
		dir:      dir,
		basePath: basePath,
	}
	sa.scan(logger)
	return sa
}

// Path returns a cache-busted URL for a static file.
// Example: Path("/css/gallery.css") returns "/static/css/gallery.css?v=a1b2c3d4e5f6"
func (sa *StaticAssets) Path(filePath string) string {
	sa.mu.RLock()
	hash, ok := sa.hashes[filePath]
	sa.mu.RUnlock()

	prefix := sa.basePath + "/static"
	if !ok {
		return prefix + filePath
	}
	return prefix + filePath + "?v=" + hash[:12]
}

// Has reports whether filePath was found in the static directory.
func (sa *StaticAssets) Has(filePath string) bool {
	sa.mu.RLock()
	defer sa.mu.RUnlock()
	_, ok := sa.hashes[filePath]
	return ok
}

// Handler returns an HTTP handler that serves static files with appropriate cache headers.
func (sa *StaticAssets) Handler() http.Handler {
	prefix := sa.basePath + "/static"
	stripped := http.StripPrefix(prefix+"/", http.FileServer(http.Dir(sa.dir)))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if v := r.URL.Query().Get("v"); v != "" {
			relativePath := strings.TrimPrefix(r.URL.Path, prefix)
			sa.mu.RLock()
			expectedHash, exists := sa.hashes[relativePath]
			sa.mu.RUnlock()

			if exists && strings.HasPrefix(expectedHash, v) {
				w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
			} else {
				w.Header().Set("Cache-Control", "public, max-age=3600")
			}
		} else {
			w.Header().Set("Cache-Control", "public, max-age=300")
		}

		stripped.ServeHTTP(w, r)
	})
}

func (sa *StaticAssets) scan(logger *slog.Logger) {
	hashes := make(map[string]string)

	err := filepath.WalkDir(sa.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}

		data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from walking the configured static dir
		if err != nil {
			logger.Warn("failed to hash static file", "path", path, "error", err)
			return nil
		}

		rel, err := filepath.Rel(sa.dir, path)
		if err != nil {
			return nil
		}
		h := sha256.Sum256(data)
		hashes["/"+filepath.ToSlash(rel)] = hex.EncodeToString(h[:])
		return nil
	})
	if err != nil {
		logger.Warn("scanning static dir", "dir", sa.dir, "error", err)
	}

	sa.mu.Lock()
	sa.hashes = hashes
	sa.mu.Unlock()

	logger.Info("static assets scanned", slog.Int("files", len(hashes)))
}
