package feeds

import (
	"context"
	"errors"
	"time"

	"feedagg/models"
)

// Transport retrieves and parses the document at url. The returned value is
// checked against the capability interfaces below.
type Transport interface {
	Fetch(ctx context.Context, url string) (any, error)
}

type EntrySource interface {
	Entries() []models.RawEntry
}

type AuthorSource interface {
	Author() string
}

type URLSource interface {
	URL() string
}

// Fetcher resolves a source spec into a validated RawFeed
type Fetcher struct {
	transport Transport
	timeout   time.Duration
}

func NewFetcher(transport Transport, timeout time.Duration) *Fetcher {
	return &Fetcher{transport: transport, timeout: timeout}
}

// Fetch returns a *SkipError for any per-source failure. If ctx itself was
// cancelled the context error is returned instead.
func (f *Fetcher) Fetch(ctx context.Context, spec models.FeedSourceSpec) (models.RawFeed, error) {
	fetchCtx := ctx
	if f.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	doc, err := f.transport.Fetch(fetchCtx, spec.URL)
	if ctx.Err() != nil {
		return models.RawFeed{}, ctx.Err()
	}
	if err != nil {
		return models.RawFeed{}, &SkipError{Reason: FetchFailed, URL: spec.URL, Err: err}
	}
	if doc == nil {
		return models.RawFeed{}, &SkipError{Reason: FetchFailed, URL: spec.URL, Err: errors.New("empty document")}
	}

	entrySrc, hasEntries := doc.(EntrySource)
	authorSrc, hasAuthor := doc.(AuthorSource)
	urlSrc, hasURL := doc.(URLSource)

	var missing []string
	if !hasEntries {
		missing = append(missing, "entries")
	}
	if !hasAuthor {
		missing = append(missing, "author")
	}
	if !hasURL {
		missing = append(missing, "url")
	}
	if len(missing) > 0 {
		return models.RawFeed{}, &SkipError{Reason: CapabilityMissing, URL: spec.URL, Missing: missing}
	}

	return models.RawFeed{
		Source:  spec.URL,
		URL:     urlSrc.URL(),
		Author:  authorSrc.Author(),
		Entries: entrySrc.Entries(),
	}, nil
}
