// Package rss loads the feed configuration and fetches raw entries.
package rss

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Entry is one raw feed entry as delivered by a source, before any
// normalization. Optional fields are pointers or empty strings so downstream
// code never touches gofeed's maybe-missing fields directly.
type Entry struct {
	Title     string
	Link      string
	Summary   string // raw, may contain markup
	Published *time.Time
	Updated   *time.Time
	MediaURL  string // structured media/enclosure image when the feed provides one
	FeedURL   string
	FeedTitle string
}

// Config is the YAML feed configuration: source lists by category plus the
// keyword tables the scorer and selector consume.
type Config struct {
	NewsFeeds   []string `yaml:"news_feeds"`
	ImageFeeds  []string `yaml:"image_feeds"`
	SignalFeeds []string `yaml:"signal_feeds"`

	// Authority maps a source host to its trust weight. Hosts absent from
	// the map weigh zero and can never trigger a standalone breaking post.
	Authority map[string]float64 `yaml:"authority"`

	AggregatorHosts []string `yaml:"aggregator_hosts"`
	Keywords        []string `yaml:"keywords"`
	NegativeHints   []string `yaml:"negative_hints"`
	PriorityWords   []string `yaml:"priority_words"`
	FlagshipWords   []string `yaml:"flagship_words"`
	TitleStopwords  []string `yaml:"title_stopwords"`
	DefaultTags     []string `yaml:"default_tags"`
}

// LoadConfig reads the feed configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feeds config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse feeds config: %w", err)
	}
	if len(cfg.NewsFeeds) == 0 {
		return nil, fmt.Errorf("feeds config %s lists no news_feeds", path)
	}
	return &cfg, nil
}
