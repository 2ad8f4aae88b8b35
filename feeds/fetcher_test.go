package feeds_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"feedagg/feeds"
	"feedagg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcherFetch(t *testing.T) {
	tr := newFakeTransport().
		add("https://a.example/feed", &fakeDoc{
			url:     "https://a.example/",
			author:  "Alice Example",
			entries: []models.RawEntry{entry("a1", daysAgo(1))},
		}).
		add("https://partial.example/feed", &entriesOnlyDoc{}).
		add("https://odd.example/feed", struct{}{}).
		fail("https://down.example/feed", errors.New("connection refused"))
	fetcher := feeds.NewFetcher(tr, time.Second)

	t.Run("valid document", func(t *testing.T) {
		feed, err := fetcher.Fetch(context.Background(), models.FeedSourceSpec{URL: "https://a.example/feed"})
		require.NoError(t, err)
		assert.Equal(t, "https://a.example/feed", feed.Source)
		assert.Equal(t, "https://a.example/", feed.URL)
		assert.Equal(t, "Alice Example", feed.Author)
		assert.Len(t, feed.Entries, 1)
	})

	tests := []struct {
		name    string
		url     string
		reason  feeds.SkipReason
		missing []string
	}{
		{
			name:   "transport failure",
			url:    "https://down.example/feed",
			reason: feeds.FetchFailed,
		},
		{
			name:   "unknown host",
			url:    "https://nowhere.example/feed",
			reason: feeds.FetchFailed,
		},
		{
			name:    "missing author and url",
			url:     "https://partial.example/feed",
			reason:  feeds.CapabilityMissing,
			missing: []string{"author", "url"},
		},
		{
			name:    "no capabilities at all",
			url:     "https://odd.example/feed",
			reason:  feeds.CapabilityMissing,
			missing: []string{"entries", "author", "url"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fetcher.Fetch(context.Background(), models.FeedSourceSpec{URL: tt.url})
			require.Error(t, err)

			var skip *feeds.SkipError
			require.ErrorAs(t, err, &skip)
			assert.Equal(t, tt.reason, skip.Reason)
			assert.Equal(t, tt.url, skip.URL)
			assert.Equal(t, tt.missing, skip.Missing)
		})
	}
}

func TestFetcherTimeoutIsFetchFailed(t *testing.T) {
	tr := newFakeTransport()
	tr.block["https://slow.example/feed"] = true
	fetcher := feeds.NewFetcher(tr, 20*time.Millisecond)

	_, err := fetcher.Fetch(context.Background(), models.FeedSourceSpec{URL: "https://slow.example/feed"})

	reason, ok := feeds.SkipReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, feeds.FetchFailed, reason)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetcherParentCancellation(t *testing.T) {
	tr := newFakeTransport()
	tr.block["https://slow.example/feed"] = true
	fetcher := feeds.NewFetcher(tr, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := fetcher.Fetch(ctx, models.FeedSourceSpec{URL: "https://slow.example/feed"})
	assert.ErrorIs(t, err, context.Canceled)
	_, isSkip := feeds.SkipReasonOf(err)
	assert.False(t, isSkip)
}

func TestExtract(t *testing.T) {
	feed := models.RawFeed{
		Source: "https://a.example/feed",
		Entries: []models.RawEntry{
			entry("1", daysAgo(5)),
			entry("2", daysAgo(1)),
			entry("3", daysAgo(3)),
		},
	}

	t.Run("bounded in feed order", func(t *testing.T) {
		bounded, err := feeds.Extract(feed, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2"}, ids(bounded))
	})

	t.Run("limit above entry count", func(t *testing.T) {
		bounded, err := feeds.Extract(feed, 10)
		require.NoError(t, err)
		assert.Len(t, bounded, 3)
	})

	t.Run("zero limit", func(t *testing.T) {
		_, err := feeds.Extract(feed, 0)
		reason, ok := feeds.SkipReasonOf(err)
		require.True(t, ok)
		assert.Equal(t, feeds.NoEntries, reason)
	})

	t.Run("empty feed", func(t *testing.T) {
		_, err := feeds.Extract(models.RawFeed{Source: "https://empty.example/feed"}, 5)
		var skip *feeds.SkipError
		require.ErrorAs(t, err, &skip)
		assert.Equal(t, feeds.NoEntries, skip.Reason)
		assert.Equal(t, "https://empty.example/feed", skip.URL)
	})
}

func ids(entries []models.RawEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}
