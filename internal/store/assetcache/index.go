package assetcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// JSON-backed index: one human-readable file per named cache mapping
// asset URL to blob file name. Single process, no locking across processes.

const indexFileName = "index.json"

type entry struct {
	URL         string `json:"url"`
	File        string `json:"file"`
	ContentType string `json:"content_type,omitempty"`
	Size        int    `json:"size"`
}

func (c *Cache) indexPath() string { return filepath.Join(c.dir, indexFileName) }

func (c *Cache) loadIndex() (map[string]entry, error) {
	b, err := os.ReadFile(c.indexPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]entry{}, nil
		}
		return nil, fmt.Errorf("read index: %w", err)
	}
	var list []entry
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	idx := make(map[string]entry, len(list))
	for _, e := range list {
		idx[e.URL] = e
	}
	return idx, nil
}

func (c *Cache) saveIndex(idx map[string]entry) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	list := make([]entry, 0, len(idx))
	for _, e := range idx {
		list = append(list, e)
	}
	sortEntries(list)
	b, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	tmp := c.indexPath() + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, c.indexPath()); err != nil {
		return fmt.Errorf("rename index: %w", err)
	}
	return nil
}
