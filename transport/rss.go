package transport

import (
	"fmt"
	"io"
	"strings"

	"feedagg/models"

	"github.com/mmcdole/gofeed/rss"
)

// RSSAdapter parses RSS 0.9x/1.0/2.0 documents. RSS has no feed-level author
// element, so the channel title stands in for it and the channel link for
// the author url.
type RSSAdapter struct{}

func (a *RSSAdapter) Parse(r io.Reader, feedURL string) (any, error) {
	feed, err := (&rss.Parser{}).Parse(r)
	if err != nil {
		return nil, err
	}
	return &rssDocument{feed: feed, feedURL: feedURL}, nil
}

type rssDocument struct {
	feed    *rss.Feed
	feedURL string
}

func (d *rssDocument) Author() string {
	return strings.TrimSpace(d.feed.Title)
}

func (d *rssDocument) URL() string {
	if d.feed.Link != "" {
		return d.feed.Link
	}
	if len(d.feed.Links) > 0 {
		return d.feed.Links[0]
	}
	return ""
}

func (d *rssDocument) Entries() []models.RawEntry {
	entries := make([]models.RawEntry, 0, len(d.feed.Items))
	for i, item := range d.feed.Items {
		if item == nil {
			continue
		}
		var guid string
		if item.GUID != nil {
			guid = item.GUID.Value
		}
		entries = append(entries, models.RawEntry{
			ID:          entryID(guid, item.Link, d.feedURL, i),
			URL:         item.Link,
			Title:       strings.TrimSpace(item.Title),
			Author:      rssItemAuthor(item),
			Content:     item.Content,
			Summary:     item.Description,
			PublishedAt: firstTime(item.PubDateParsed),
		})
	}
	return entries
}

// rssItemAuthor prefers <author>, then the first dc:creator
func rssItemAuthor(item *rss.Item) string {
	if author := strings.TrimSpace(item.Author); author != "" {
		return author
	}
	if item.DublinCoreExt != nil {
		for _, creator := range item.DublinCoreExt.Creator {
			if creator = strings.TrimSpace(creator); creator != "" {
				return creator
			}
		}
	}
	return ""
}

// entryID falls back to the entry link, then to a position-based id so that
// entries without any identifier are not collapsed into one.
func entryID(id, link, feedURL string, index int) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	if link = strings.TrimSpace(link); link != "" {
		return link
	}
	return fmt.Sprintf("%s#entry-%d", feedURL, index)
}
