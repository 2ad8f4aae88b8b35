package feeds_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"feedagg/models"
)

var baseTime = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return baseTime.AddDate(0, 0, -n)
}

// fakeDoc exposes every capability
type fakeDoc struct {
	url     string
	author  string
	entries []models.RawEntry
}

func (d *fakeDoc) Entries() []models.RawEntry { return d.entries }
func (d *fakeDoc) Author() string             { return d.author }
func (d *fakeDoc) URL() string                { return d.url }

// entriesOnlyDoc lacks the author and url capabilities
type entriesOnlyDoc struct {
	entries []models.RawEntry
}

func (d *entriesOnlyDoc) Entries() []models.RawEntry { return d.entries }

type fakeTransport struct {
	mu    sync.Mutex
	docs  map[string]any
	errs  map[string]error
	delay time.Duration
	// block makes Fetch wait for the context
	block map[string]bool

	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		docs:  map[string]any{},
		errs:  map[string]error{},
		block: map[string]bool{},
	}
}

func (t *fakeTransport) add(url string, doc any) *fakeTransport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.docs[url] = doc
	return t
}

func (t *fakeTransport) fail(url string, err error) *fakeTransport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errs[url] = err
	return t
}

func (t *fakeTransport) Fetch(ctx context.Context, url string) (any, error) {
	t.calls.Add(1)
	n := t.inFlight.Add(1)
	defer t.inFlight.Add(-1)
	for {
		seen := t.maxSeen.Load()
		if n <= seen || t.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	t.mu.Lock()
	doc, hasDoc := t.docs[url]
	err := t.errs[url]
	block := t.block[url]
	t.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if t.delay > 0 {
		select {
		case <-time.After(t.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if !hasDoc {
		return nil, errors.New("no such host")
	}
	return doc, nil
}

func entry(id string, published time.Time) models.RawEntry {
	return models.RawEntry{
		ID:          id,
		URL:         "https://example.com/" + id,
		Title:       fmt.Sprintf("Post %s", id),
		Content:     "content of " + id,
		PublishedAt: published,
	}
}

func specs(urls ...string) []models.FeedSourceSpec {
	out := make([]models.FeedSourceSpec, len(urls))
	for i, u := range urls {
		out[i] = models.FeedSourceSpec{URL: u}
	}
	return out
}
