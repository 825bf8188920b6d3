// Package storage persists the set of already-posted identifiers (links and
// image URLs) across invocations.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Record is one posted identifier.
type Record struct {
	Key      string    `json:"key"` // link or image URL
	Kind     string    `json:"kind"`
	Title    string    `json:"title"`
	Host     string    `json:"host"`
	PostedAt time.Time `json:"posted_at"`
}

// FileStore keeps posted records in a JSON file. Records older than the TTL
// are dropped on load.
type FileStore struct {
	path  string
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]Record
}

// NewFileStore opens (or initializes) the store at path. A missing file is an
// empty store, not an error.
func NewFileStore(path string, ttlHours int) (*FileStore, error) {
	fs := &FileStore{
		path:  path,
		ttl:   time.Duration(ttlHours) * time.Hour,
		items: make(map[string]Record),
	}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *FileStore) load() error {
	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read seen file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parse seen file: %w", err)
	}

	cutoff := time.Now().Add(-fs.ttl)
	for _, r := range records {
		if r.PostedAt.After(cutoff) {
			fs.items[r.Key] = r
		}
	}
	return nil
}

func (fs *FileStore) save() error {
	records := make([]Record, 0, len(fs.items))
	for _, r := range fs.items {
		records = append(records, r)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal seen records: %w", err)
	}
	if dir := filepath.Dir(fs.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create seen dir: %w", err)
		}
	}
	if err := os.WriteFile(fs.path, data, 0o644); err != nil {
		return fmt.Errorf("write seen file: %w", err)
	}
	return nil
}

// Contains reports whether the key was posted inside the TTL.
func (fs *FileStore) Contains(key string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	r, ok := fs.items[key]
	return ok && r.PostedAt.After(time.Now().Add(-fs.ttl))
}

// Mark records a posted key and persists immediately, so a crash between
// publish and shutdown can not cause a repost.
func (fs *FileStore) Mark(key, kind, title, host string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.items[key] = Record{Key: key, Kind: kind, Title: title, Host: host, PostedAt: time.Now()}
	return fs.save()
}

// LastHost returns the source host of the most recent record of a kind, or
// empty when none exists.
func (fs *FileStore) LastHost(kind string) string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	var (
		newest time.Time
		host   string
	)
	for _, r := range fs.items {
		if r.Kind == kind && r.PostedAt.After(newest) {
			newest = r.PostedAt
			host = r.Host
		}
	}
	return host
}

// Close flushes the store.
func (fs *FileStore) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.save()
}
