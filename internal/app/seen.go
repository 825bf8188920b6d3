package app

import (
	"github.com/redhorizon/rhnews/internal/config"
	"github.com/redhorizon/rhnews/internal/storage"
)

// SeenStore is the persistence boundary for already-posted identifiers.
// Implemented by the JSON file store and the Postgres store.
type SeenStore interface {
	Contains(key string) bool
	Mark(key, kind, title, host string) error
	LastHost(kind string) string
	Close() error
}

// openSeenStore picks the Postgres store when DATABASE_URL is configured and
// the file store otherwise.
func openSeenStore(cfg *config.Config) (SeenStore, error) {
	if cfg.DatabaseURL != "" {
		return storage.NewPostgresStore(cfg.DatabaseURL, cfg.SeenTTLHours)
	}
	return storage.NewFileStore(cfg.SeenFilePath, cfg.SeenTTLHours)
}
