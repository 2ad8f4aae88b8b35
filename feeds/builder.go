package feeds

import (
	"time"

	"feedagg/models"

	"github.com/samber/lo"
)

// DateFormatter renders a timestamp with a site date format spec
type DateFormatter func(t time.Time, format string) string

// LanguageTagger returns an ISO 639-1 code for text, or "" when unsure
type LanguageTagger interface {
	Tag(text string) string
}

// BuildOptions carries the collaborators of the aggregate builder
type BuildOptions struct {
	DateFormat string
	FormatDate DateFormatter
	Tagger     LanguageTagger
}

// Build assembles the aggregate result from merged entries and the roster.
// It performs no I/O.
func Build(title string, entries []models.RawEntry, roster *AuthorRoster, opts BuildOptions) models.AggregateResult {
	posts := lo.Map(entries, func(e models.RawEntry, _ int) models.AggregatePost {
		post := models.AggregatePost{
			ID:              e.ID,
			URL:             e.URL,
			Title:           e.Title,
			Author:          e.Author,
			AuthorURL:       e.AuthorURL,
			Content:         lo.Ternary(e.Content != "", e.Content, e.Summary),
			PublishedAt:     e.PublishedAt,
			CommentsEnabled: false,
		}
		if opts.FormatDate != nil {
			post.FormattedDate = opts.FormatDate(e.PublishedAt, opts.DateFormat)
		}
		if opts.Tagger != nil {
			post.Language = opts.Tagger.Tag(e.Title + "\n" + post.Content)
		}
		return post
	})

	authors := []models.AuthorRecord{}
	if roster != nil {
		authors = roster.Sorted()
	}

	return models.AggregateResult{
		Title:   title,
		Authors: authors,
		Posts:   posts,
	}
}
