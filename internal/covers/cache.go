// Package covers keeps a local cache of book cover images so the catalog
// can serve them without hitting the upstream image host on every request.
package covers

import (
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Cache stores fetched cover images on disk, keyed by book ID and cover URL.
type Cache struct {
	dir        string
	httpClient *http.Client
}

// NewCache creates a cover cache backed by the given directory.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create covers dir: %w", err)
	}

	return &Cache{
		dir: dir,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Get returns the path of the cached cover for a book, fetching it from the
// cover URL on a cache miss. An empty cover URL yields an empty path with no
// error: not every book has a cover.
func (c *Cache) Get(bookID uint, coverURL string) (string, error) {
	if coverURL == "" {
		return "", nil
	}

	path := filepath.Join(c.dir, c.filename(bookID, coverURL))

	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := c.fetch(coverURL, path); err != nil {
		return "", fmt.Errorf("fetch cover for book %d: %w", bookID, err)
	}

	return path, nil
}

// Has reports whether a cover for the book is already cached.
func (c *Cache) Has(bookID uint, coverURL string) bool {
	if coverURL == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(c.dir, c.filename(bookID, coverURL)))
	return err == nil
}

// Invalidate removes all cached covers for a book. Used when the book is
// deleted or its cover URL changes.
func (c *Cache) Invalidate(bookID uint) error {
	matches, err := filepath.Glob(filepath.Join(c.dir, fmt.Sprintf("cover_%d_*", bookID)))
	if err != nil {
		return err
	}

	for _, match := range matches {
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

// Dir returns the cache directory path.
func (c *Cache) Dir() string {
	return c.dir
}

// filename derives a stable cache filename from the book ID and URL hash, so
// a changed cover URL naturally maps to a fresh cache entry.
func (c *Cache) filename(bookID uint, coverURL string) string {
	hash := sha256.Sum256([]byte(coverURL))
	return fmt.Sprintf("cover_%d_%x.jpg", bookID, hash[:8])
}

func (c *Cache) fetch(url, path string) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "LendHub/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	// Write to a temp file in the same directory, then rename. A crashed
	// download never leaves a truncated cover behind.
	tmpFile, err := os.CreateTemp(c.dir, "cover_tmp_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}
