package timeline

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
)

// Cache stores raw timeline responses on disk, one file per request URL
type Cache struct {
	dir string
}

// NewCache returns a cache rooted at dir
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

func (c *Cache) path(reqURL string) string {
	return filepath.Join(c.dir, url.QueryEscape(reqURL))
}

// Get returns the cached body for reqURL. ok is false on a miss.
func (c *Cache) Get(reqURL string) (body string, ok bool, err error) {
	data, err := os.ReadFile(c.path(reqURL))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading cache entry: %w", err)
	}
	return string(data), true, nil
}

// Put stores body for reqURL
func (c *Cache) Put(reqURL, body string) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	if err := os.WriteFile(c.path(reqURL), []byte(body), 0600); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}
