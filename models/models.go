package models

import "time"

// UnavailableAuthor is used when no author can be resolved for a feed
const UnavailableAuthor = "Author Unavailable"

// FeedSourceSpec is one configured feed. Identity is the URL.
type FeedSourceSpec struct {
	URL               string `json:"url"`
	AuthorOverride    string `json:"author,omitempty"`
	AuthorURLOverride string `json:"authorUrl,omitempty"`
}

// RawFeed as returned by the transport, after capability checks
type RawFeed struct {
	// Source is the configured url the feed was fetched from
	Source  string
	URL     string
	Author  string
	Entries []RawEntry
}

// RawEntry is a single entry of a RawFeed. ID is only unique within its feed.
type RawEntry struct {
	ID          string
	URL         string
	Title       string
	Author      string
	AuthorURL   string
	Content     string
	Summary     string
	PublishedAt time.Time
}

// AuthorRecord is a roster entry derived from a resolved author name
type AuthorRecord struct {
	FirstName string `json:"first"`
	LastName  string `json:"last"`
	URL       string `json:"url"`
}

// AggregatePost is a single post of the aggregated result
type AggregatePost struct {
	ID              string    `json:"id"`
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	AuthorURL       string    `json:"author_url"`
	Content         string    `json:"content"`
	PublishedAt     time.Time `json:"date"`
	FormattedDate   string    `json:"date_formatted"`
	CommentsEnabled bool      `json:"comments"`
	Language        string    `json:"language,omitempty"`
}

// AggregateResult is the merged output of one aggregator page
type AggregateResult struct {
	Title   string          `json:"title"`
	Authors []AuthorRecord  `json:"authors"`
	Posts   []AggregatePost `json:"posts"`
}
