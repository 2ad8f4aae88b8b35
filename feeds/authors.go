package feeds

import (
	"sort"
	"strings"
	"sync"

	"feedagg/models"

	"github.com/samber/lo"
)

// firstNonEmpty implements a fallback chain: the first value that is not
// blank wins.
func firstNonEmpty(values ...string) string {
	v, _ := lo.Find(values, func(s string) bool {
		return strings.TrimSpace(s) != ""
	})
	return strings.TrimSpace(v)
}

// FeedAuthor resolves the feed-level author name and url for a source.
// entries must already be bounded.
func FeedAuthor(spec models.FeedSourceSpec, feed models.RawFeed, entries []models.RawEntry) (string, string) {
	var firstEntryAuthor string
	if len(entries) > 0 {
		firstEntryAuthor = entries[0].Author
	}
	name := firstNonEmpty(spec.AuthorOverride, feed.Author, firstEntryAuthor, models.UnavailableAuthor)
	url := firstNonEmpty(spec.AuthorURLOverride, feed.URL)
	return name, url
}

// ResolveAuthors returns copies of entries with author and author url
// resolved, plus one roster record per entry. The inputs are not modified.
func ResolveAuthors(spec models.FeedSourceSpec, feed models.RawFeed, entries []models.RawEntry) ([]models.RawEntry, []models.AuthorRecord) {
	feedAuthor, feedURL := FeedAuthor(spec, feed, entries)

	resolved := make([]models.RawEntry, len(entries))
	records := make([]models.AuthorRecord, len(entries))
	for i, e := range entries {
		e.Author = firstNonEmpty(spec.AuthorOverride, e.Author, feedAuthor)
		e.AuthorURL = firstNonEmpty(spec.AuthorURLOverride, e.AuthorURL, feedURL)
		resolved[i] = e
		records[i] = SplitName(e.Author, e.AuthorURL)
	}
	return resolved, records
}

// SplitName splits a display name on the first whitespace run. Everything
// after the first token becomes the last name, joined by single spaces.
func SplitName(name, url string) models.AuthorRecord {
	fields := strings.Fields(name)
	record := models.AuthorRecord{URL: url}
	if len(fields) > 0 {
		record.FirstName = fields[0]
		record.LastName = strings.Join(fields[1:], " ")
	}
	return record
}

type authorKey struct {
	last, first, url string
}

// AuthorRoster is a set of author records keyed by (last, first, url).
// It is safe for concurrent use.
type AuthorRoster struct {
	mu      sync.Mutex
	records map[authorKey]models.AuthorRecord
}

func NewAuthorRoster() *AuthorRoster {
	return &AuthorRoster{records: make(map[authorKey]models.AuthorRecord)}
}

func (r *AuthorRoster) Add(records ...models.AuthorRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range records {
		r.records[authorKey{last: rec.LastName, first: rec.FirstName, url: rec.URL}] = rec
	}
}

func (r *AuthorRoster) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Sorted returns the roster ordered by last name then first name. The url
// breaks remaining ties so the output is stable across runs.
func (r *AuthorRoster) Sorted() []models.AuthorRecord {
	r.mu.Lock()
	authors := lo.Values(r.records)
	r.mu.Unlock()

	sort.Slice(authors, func(i, j int) bool {
		a, b := authors[i], authors[j]
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		return a.URL < b.URL
	})
	return authors
}
