package transport

import (
	"io"
	"strings"

	"feedagg/models"

	"github.com/mmcdole/gofeed"
)

// UniversalAdapter uses gofeed's format-agnostic model. It serves JSON Feed
// and anything the specific adapters do not recognize. Entry author urls are
// not available through this model.
type UniversalAdapter struct{}

func (a *UniversalAdapter) Parse(r io.Reader, feedURL string) (any, error) {
	feed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, err
	}
	return &universalDocument{feed: feed, feedURL: feedURL}, nil
}

type universalDocument struct {
	feed    *gofeed.Feed
	feedURL string
}

func (d *universalDocument) Author() string {
	return firstPerson(d.feed.Authors)
}

func (d *universalDocument) URL() string {
	return d.feed.Link
}

func (d *universalDocument) Entries() []models.RawEntry {
	entries := make([]models.RawEntry, 0, len(d.feed.Items))
	for i, item := range d.feed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, models.RawEntry{
			ID:          entryID(item.GUID, item.Link, d.feedURL, i),
			URL:         item.Link,
			Title:       strings.TrimSpace(item.Title),
			Author:      firstPerson(item.Authors),
			Content:     item.Content,
			Summary:     item.Description,
			PublishedAt: firstTime(item.PublishedParsed, item.UpdatedParsed),
		})
	}
	return entries
}

func firstPerson(people []*gofeed.Person) string {
	for _, p := range people {
		if p != nil && strings.TrimSpace(p.Name) != "" {
			return strings.TrimSpace(p.Name)
		}
	}
	return ""
}
