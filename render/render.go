// Package render writes aggregate results to disk: a JSON data file for the
// site renderer and, when requested, a meta feed in Atom format.
package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"feedagg/config"
	"feedagg/models"

	gfeeds "github.com/gorilla/feeds"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// Page is one compiled aggregator page
type Page struct {
	Name   string
	Result models.AggregateResult
	// MetaFeed is the relative output path of the meta feed, empty when none
	MetaFeed string
}

// FeedID is the stable Atom id of the page's meta feed
func (p Page) FeedID() string {
	return "urn:feedagg:" + p.Name + ":" + MetaFeedPath(p.MetaFeed)
}

// MetaFeedPath normalizes a requested meta feed path into a clean relative
// path below the output directory. An empty value yields the default.
func MetaFeedPath(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return config.DefaultMetaFeed
	}
	cleaned := path.Clean("/" + filepath.ToSlash(value))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return config.DefaultMetaFeed
	}
	if path.Ext(cleaned) == "" {
		cleaned += ".xml"
	}
	return cleaned
}

// WritePage writes <dir>/<name>.json and the meta feed, if any. It returns
// the paths written.
func WritePage(dir string, page Page) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	data, err := json.MarshalIndent(page.Result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode aggregate: %w", err)
	}
	jsonPath := filepath.Join(dir, page.Name+".json")
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write aggregate: %w", err)
	}
	written := []string{jsonPath}

	if page.MetaFeed != "" {
		atom, err := Atom(page.Result, page.FeedID(), time.Now())
		if err != nil {
			return written, err
		}
		metaPath := filepath.Join(dir, filepath.FromSlash(MetaFeedPath(page.MetaFeed)))
		if err := os.MkdirAll(filepath.Dir(metaPath), 0o755); err != nil {
			return written, fmt.Errorf("create meta feed dir: %w", err)
		}
		if err := os.WriteFile(metaPath, []byte(atom), 0o644); err != nil {
			return written, fmt.Errorf("write meta feed: %w", err)
		}
		written = append(written, metaPath)
	}

	log.WithFields(log.Fields{
		"page":  page.Name,
		"files": written,
	}).Info("Wrote aggregate")
	return written, nil
}

// Atom renders the aggregate as an Atom document with the given feed id. The
// feed's updated time is the newest post date, or now when there are no posts.
func Atom(result models.AggregateResult, id string, now time.Time) (string, error) {
	updated := now
	if len(result.Posts) > 0 && !result.Posts[0].PublishedAt.IsZero() {
		updated = result.Posts[0].PublishedAt
	}

	feed := &gfeeds.Feed{
		Title:   result.Title,
		Link:    &gfeeds.Link{},
		Updated: updated,
		Created: updated,
		Items: lo.Map(result.Posts, func(p models.AggregatePost, _ int) *gfeeds.Item {
			return &gfeeds.Item{
				Id:      p.ID,
				Title:   p.Title,
				Link:    &gfeeds.Link{Href: p.URL},
				Author:  &gfeeds.Author{Name: p.Author},
				Content: p.Content,
				Created: p.PublishedAt,
				Updated: p.PublishedAt,
			}
		}),
	}

	atomFeed := (&gfeeds.Atom{Feed: feed}).AtomFeed()
	atomFeed.Id = id
	// the aggregate has no page url of its own
	atomFeed.Link = nil

	atom, err := gfeeds.ToXML(atomFeed)
	if err != nil {
		return "", fmt.Errorf("encode meta feed: %w", err)
	}
	return atom, nil
}
