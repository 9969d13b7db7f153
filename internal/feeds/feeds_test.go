package feeds

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grego360/daily-dashboard/internal/config"
	"github.com/grego360/daily-dashboard/internal/domain"
)

const rssDoc = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Example</title>
  <item>
    <title>First story</title>
    <link>https://example.com/1</link>
    <description>summary one</description>
    <pubDate>Mon, 17 Aug 2026 09:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Second story</title>
    <link>https://example.com/2</link>
    <pubDate>Sun, 16 Aug 2026 09:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Third story</title>
    <link>https://example.com/3</link>
    <pubDate>Sat, 15 Aug 2026 09:00:00 GMT</pubDate>
  </item>
</channel>
</rss>`

func serveRSS(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rssDoc)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchAllNormalizesItems(t *testing.T) {
	srv := serveRSS(t)
	f := NewFetcher(2*time.Second, zerolog.Nop())

	results := f.FetchAll(context.Background(), []config.FeedConfig{
		{Name: "Example", URL: srv.URL, Type: config.FeedTypeRSS},
	})

	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	require.Len(t, results[0].Items, 3)

	first := results[0].Items[0]
	assert.Equal(t, "First story", first.Title)
	assert.Equal(t, "https://example.com/1", first.Link)
	assert.Equal(t, "Example", first.Source)
	assert.Equal(t, "summary one", first.Summary)
	assert.False(t, first.Published.IsZero())
}

func TestFetchAllCapsItems(t *testing.T) {
	srv := serveRSS(t)
	f := NewFetcher(2*time.Second, zerolog.Nop())

	results := f.FetchAll(context.Background(), []config.FeedConfig{
		{Name: "Example", URL: srv.URL, MaxItems: 2},
	})

	require.Len(t, results, 1)
	assert.Len(t, results[0].Items, 2)
}

func TestFetchAllSkipsDisabledFeeds(t *testing.T) {
	srv := serveRSS(t)
	f := NewFetcher(2*time.Second, zerolog.Nop())

	off := false
	results := f.FetchAll(context.Background(), []config.FeedConfig{
		{Name: "Off", URL: srv.URL, Enabled: &off},
		{Name: "On", URL: srv.URL},
	})

	require.Len(t, results, 1)
	assert.Equal(t, "On", results[0].Name)
}

func TestFetchAllReportsPerFeedErrors(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer bad.Close()

	srv := serveRSS(t)
	f := NewFetcher(2*time.Second, zerolog.Nop())

	results := f.FetchAll(context.Background(), []config.FeedConfig{
		{Name: "Broken", URL: bad.URL},
		{Name: "Example", URL: srv.URL},
	})

	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.Len(t, results[1].Items, 3)
}

func TestAggregateSortsAndSkipsFailures(t *testing.T) {
	now := time.Now()
	results := []Result{
		{Name: "A", Items: []domain.NewsItem{
			{Title: "old", Published: now.Add(-2 * time.Hour)},
		}},
		{Name: "B", Err: fmt.Errorf("unreachable")},
		{Name: "C", Items: []domain.NewsItem{
			{Title: "new", Published: now},
		}},
	}

	items := Aggregate(results)
	require.Len(t, items, 2)
	assert.Equal(t, "new", items[0].Title)
	assert.Equal(t, "old", items[1].Title)
}
