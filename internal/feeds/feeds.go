// Package feeds fetches the configured news feeds and normalizes their
// entries. RSS, Atom and JSON Feed documents are all handled by the same
// parser; the configured type is advisory only.
package feeds

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"github.com/grego360/daily-dashboard/internal/config"
	"github.com/grego360/daily-dashboard/internal/domain"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultMaxItems = 10
	userAgent       = "daily-dashboard/1.0"
)

// Result is the outcome of fetching one feed. Err is set on failure; the UI
// renders the error inline and the feed contributes nothing to the
// aggregate.
type Result struct {
	Name  string
	Items []domain.NewsItem
	Err   error
}

// Fetcher downloads and parses feeds concurrently
type Fetcher struct {
	parser  *gofeed.Parser
	timeout time.Duration
	log     zerolog.Logger
}

// NewFetcher creates a feed fetcher with a bounded per-feed timeout
func NewFetcher(timeout time.Duration, log zerolog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	parser.Client = &http.Client{Timeout: timeout}

	return &Fetcher{
		parser:  parser,
		timeout: timeout,
		log:     log.With().Str("component", "feeds").Logger(),
	}
}

// FetchAll fetches every enabled feed concurrently and returns one result
// per feed, in configuration order. Disabled feeds are skipped entirely.
func (f *Fetcher) FetchAll(ctx context.Context, cfgs []config.FeedConfig) []Result {
	var enabled []config.FeedConfig
	for _, c := range cfgs {
		if c.IsEnabled() {
			enabled = append(enabled, c)
		}
	}

	results := make([]Result, len(enabled))
	var wg sync.WaitGroup
	for i, c := range enabled {
		wg.Add(1)
		go func(i int, c config.FeedConfig) {
			defer wg.Done()
			results[i] = f.fetch(ctx, c)
		}(i, c)
	}
	wg.Wait()

	return results
}

// Aggregate merges successful results into one list sorted newest first
func Aggregate(results []Result) []domain.NewsItem {
	var items []domain.NewsItem
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		items = append(items, r.Items...)
	}
	domain.SortNewsItems(items)
	return items
}

// fetch downloads one feed and normalizes its entries
func (f *Fetcher) fetch(ctx context.Context, cfg config.FeedConfig) Result {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	feed, err := f.parser.ParseURLWithContext(cfg.URL, ctx)
	if err != nil {
		f.log.Warn().Err(err).Str("feed", cfg.Name).Msg("feed fetch failed")
		return Result{Name: cfg.Name, Err: err}
	}

	max := cfg.MaxItems
	if max <= 0 {
		max = defaultMaxItems
	}

	items := make([]domain.NewsItem, 0, max)
	for _, entry := range feed.Items {
		if entry == nil {
			continue
		}
		items = append(items, normalize(entry, cfg.Name))
		if len(items) >= max {
			break
		}
	}

	f.log.Debug().Str("feed", cfg.Name).Int("items", len(items)).Msg("feed fetched")
	return Result{Name: cfg.Name, Items: items}
}

// normalize converts a parsed entry into the domain item. Updated time
// stands in when no publish time is present.
func normalize(entry *gofeed.Item, source string) domain.NewsItem {
	item := domain.NewsItem{
		Title:   entry.Title,
		Link:    entry.Link,
		Source:  source,
		Summary: entry.Description,
	}
	if entry.PublishedParsed != nil {
		item.Published = *entry.PublishedParsed
	} else if entry.UpdatedParsed != nil {
		item.Published = *entry.UpdatedParsed
	}
	return item
}
