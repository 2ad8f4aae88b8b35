package transport

import (
	"io"
	"strings"
	"time"

	"feedagg/models"

	"github.com/mmcdole/gofeed/atom"
)

// AtomAdapter parses Atom 0.3/1.0 documents. Unlike the universal parser it
// keeps the <author><uri> of entries, which multi-author feeds rely on.
type AtomAdapter struct{}

func (a *AtomAdapter) Parse(r io.Reader, feedURL string) (any, error) {
	feed, err := (&atom.Parser{}).Parse(r)
	if err != nil {
		return nil, err
	}
	return &atomDocument{feed: feed, feedURL: feedURL}, nil
}

type atomDocument struct {
	feed    *atom.Feed
	feedURL string
}

// Author is the name of the first feed-level author
func (d *atomDocument) Author() string {
	for _, p := range d.feed.Authors {
		if p != nil && strings.TrimSpace(p.Name) != "" {
			return strings.TrimSpace(p.Name)
		}
	}
	return ""
}

func (d *atomDocument) URL() string {
	return alternateLink(d.feed.Links)
}

func (d *atomDocument) Entries() []models.RawEntry {
	entries := make([]models.RawEntry, 0, len(d.feed.Entries))
	for i, e := range d.feed.Entries {
		if e == nil {
			continue
		}
		link := alternateLink(e.Links)
		entry := models.RawEntry{
			ID:          entryID(e.ID, link, d.feedURL, i),
			URL:         link,
			Title:       strings.TrimSpace(e.Title),
			Summary:     e.Summary,
			PublishedAt: firstTime(e.PublishedParsed, e.UpdatedParsed),
		}
		if e.Content != nil {
			entry.Content = e.Content.Value
		}
		for _, p := range e.Authors {
			if p == nil || strings.TrimSpace(p.Name) == "" {
				continue
			}
			entry.Author = strings.TrimSpace(p.Name)
			entry.AuthorURL = strings.TrimSpace(p.URI)
			break
		}
		entries = append(entries, entry)
	}
	return entries
}

// alternateLink picks rel="alternate" (or no rel), falling back to the first link
func alternateLink(links []*atom.Link) string {
	var first string
	for _, l := range links {
		if l == nil || l.Href == "" {
			continue
		}
		if l.Rel == "" || l.Rel == "alternate" {
			return l.Href
		}
		if first == "" {
			first = l.Href
		}
	}
	return first
}

func firstTime(times ...*time.Time) time.Time {
	for _, t := range times {
		if t != nil && !t.IsZero() {
			return *t
		}
	}
	return time.Time{}
}
