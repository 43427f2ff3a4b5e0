// Package assetcache is a named on-disk cache for static assets (sprite
// images). Reads are cache-first with a network fallback. API JSON never
// goes through here.
package assetcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Makepad-fr/pokedex/internal/config"
)

// maxAssetSize caps a single download.
const maxAssetSize = 8 << 20

// Cache stores blobs under <dir>/<name>/.
type Cache struct {
	name         string
	dir          string
	writeThrough bool
	http         *http.Client
	log          *zap.Logger

	mu sync.Mutex
}

// Option customizes a Cache.
type Option func(*Cache)

func WithHTTPClient(hc *http.Client) Option { return func(c *Cache) { c.http = hc } }
func WithLogger(l *zap.Logger) Option       { return func(c *Cache) { c.log = l.Named("assetcache") } }

// New opens (lazily) the cache described by cfg.
func New(cfg config.CacheConfig, opts ...Option) *Cache {
	c := &Cache{
		name:         cfg.Name,
		dir:          filepath.Join(cfg.Dir, cfg.Name),
		writeThrough: cfg.WriteThrough,
		http:         &http.Client{},
		log:          zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Cache) Name() string { return c.name }
func (c *Cache) Dir() string  { return c.dir }

// Install downloads every manifest entry and stores them together. If any
// download fails nothing is written.
func (c *Cache) Install(ctx context.Context, manifest []string) error {
	type blob struct {
		url, contentType string
		body             []byte
	}
	blobs := make([]blob, 0, len(manifest))
	for _, u := range manifest {
		body, ct, err := c.download(ctx, u)
		if err != nil {
			return fmt.Errorf("install %s: %w", c.name, err)
		}
		blobs = append(blobs, blob{u, ct, body})
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	idx, err := c.loadIndex()
	if err != nil {
		return err
	}
	for _, b := range blobs {
		e, err := c.writeBlob(b.url, b.contentType, b.body)
		if err != nil {
			return err
		}
		idx[b.url] = e
	}
	if err := c.saveIndex(idx); err != nil {
		return err
	}
	c.log.Info("cache installed", zap.String("cache", c.name), zap.Int("entries", len(blobs)))
	return nil
}

// Match returns the cached body for url, if any.
func (c *Cache) Match(url string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx, err := c.loadIndex()
	if err != nil {
		return nil, false, err
	}
	e, ok := idx[url]
	if !ok {
		return nil, false, nil
	}
	b, err := os.ReadFile(filepath.Join(c.dir, e.File))
	if errors.Is(err, os.ErrNotExist) {
		// Blob vanished under us; treat as a miss.
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read blob: %w", err)
	}
	return b, true, nil
}

// Fetch serves url from the cache, falling back to the network. Network
// hits are stored when write-through is enabled.
func (c *Cache) Fetch(ctx context.Context, url string) ([]byte, error) {
	if b, ok, err := c.Match(url); err != nil {
		c.log.Warn("cache read failed", zap.String("url", url), zap.Error(err))
	} else if ok {
		c.log.Debug("cache hit", zap.String("url", url))
		return b, nil
	}

	body, ct, err := c.download(ctx, url)
	if err != nil {
		return nil, err
	}
	if c.writeThrough {
		if err := c.Put(url, ct, body); err != nil {
			c.log.Warn("cache write failed", zap.String("url", url), zap.Error(err))
		}
	}
	return body, nil
}

// Put stores body for url.
func (c *Cache) Put(url, contentType string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx, err := c.loadIndex()
	if err != nil {
		return err
	}
	e, err := c.writeBlob(url, contentType, body)
	if err != nil {
		return err
	}
	idx[url] = e
	return c.saveIndex(idx)
}

// Len reports the number of cached entries.
func (c *Cache) Len() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx, err := c.loadIndex()
	if err != nil {
		return 0, err
	}
	return len(idx), nil
}

// Clear deletes the named cache.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.RemoveAll(c.dir); err != nil {
		return fmt.Errorf("remove cache: %w", err)
	}
	return nil
}

func (c *Cache) download(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("new request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, "", fmt.Errorf("get %s: status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize))
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", url, err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func (c *Cache) writeBlob(url, contentType string, body []byte) (entry, error) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return entry{}, fmt.Errorf("mkdir: %w", err)
	}
	sum := sha256.Sum256([]byte(url))
	name := hex.EncodeToString(sum[:]) + ".bin"
	if err := os.WriteFile(filepath.Join(c.dir, name), body, 0o644); err != nil {
		return entry{}, fmt.Errorf("write blob: %w", err)
	}
	return entry{URL: url, File: name, ContentType: contentType, Size: len(body)}, nil
}

func sortEntries(list []entry) {
	sort.Slice(list, func(i, j int) bool { return list[i].URL < list[j].URL })
}
