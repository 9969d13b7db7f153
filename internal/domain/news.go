package domain

import (
	"fmt"
	"sort"
	"time"
)

// NewsItem is a single normalized entry from any configured feed
type NewsItem struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Source    string    `json:"source"`
	Summary   string    `json:"summary,omitempty"`
	Published time.Time `json:"published"`
}

// DisplayTitle truncates the title for single-line panel rendering
func (n NewsItem) DisplayTitle() string {
	const max = 80
	if len(n.Title) <= max {
		return n.Title
	}
	return n.Title[:max-3] + "..."
}

// RelativeTime renders the publish time as "5m ago", "2h ago" and so on.
// Items without a publish time render as empty.
func (n NewsItem) RelativeTime() string {
	if n.Published.IsZero() {
		return ""
	}

	d := time.Since(n.Published)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return fmt.Sprintf("%dw ago", int(d.Hours()/(24*7)))
	}
}

// SortNewsItems orders items newest first; items without a publish time sink
// to the bottom
func SortNewsItems(items []NewsItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Published.IsZero() || items[j].Published.IsZero() {
			return !items[i].Published.IsZero()
		}
		return items[i].Published.After(items[j].Published)
	})
}
