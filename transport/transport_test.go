package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"feedagg/feeds"
	"feedagg/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveFile(t *testing.T, name, contentType string) *httptest.Server {
	t.Helper()
	body, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTransport() *transport.HTTPTransport {
	return transport.NewHTTPTransport(transport.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "feedagg-test",
		MaxBodyBytes: 1 << 20,
	})
}

type document interface {
	feeds.EntrySource
	feeds.AuthorSource
	feeds.URLSource
}

func fetchDocument(t *testing.T, url string) document {
	t.Helper()
	doc, err := newTransport().Fetch(context.Background(), url)
	require.NoError(t, err)
	d, ok := doc.(document)
	require.True(t, ok, "document %T lacks capabilities", doc)
	return d
}

func TestFetchAtom(t *testing.T) {
	srv := serveFile(t, "atom.xml", "application/atom+xml")
	doc := fetchDocument(t, srv.URL)

	assert.Equal(t, "Ada Lovelace", doc.Author())
	assert.Equal(t, "https://ada.example/", doc.URL())

	entries := doc.Entries()
	require.Len(t, entries, 2)
	first := entries[0]
	assert.Equal(t, "tag:ada.example,2024:engines", first.ID)
	assert.Equal(t, "https://ada.example/engines", first.URL)
	assert.Equal(t, "Analytical engines", first.Title)
	assert.Equal(t, "Charles Babbage", first.Author)
	assert.Equal(t, "https://charles.example", first.AuthorURL)
	assert.Equal(t, "<p>Gears all the way down.</p>", first.Content)
	assert.True(t, first.PublishedAt.Equal(time.Date(2024, time.March, 9, 8, 0, 0, 0, time.UTC)))

	// no id: the link stands in, no published date: updated is used
	assert.Equal(t, "https://ada.example/notes", entries[1].ID)
	assert.Equal(t, "Only a summary here.", entries[1].Summary)
	assert.True(t, entries[1].PublishedAt.Equal(time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)))
}

func TestFetchRSS(t *testing.T) {
	srv := serveFile(t, "rss.xml", "application/rss+xml")
	doc := fetchDocument(t, srv.URL)

	assert.Equal(t, "Grace Hopper", doc.Author())
	assert.Equal(t, "https://grace.example/", doc.URL())

	entries := doc.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "grace-1", entries[0].ID)
	assert.Equal(t, "Grace Brewster Hopper", entries[0].Author)
	assert.Equal(t, "About eleven inches of wire.", entries[0].Summary)
	assert.True(t, entries[0].PublishedAt.Equal(time.Date(2024, time.March, 9, 8, 0, 0, 0, time.UTC)))

	assert.Equal(t, "https://grace.example/no-guid", entries[1].ID)
	assert.Equal(t, srv.URL+"#entry-2", entries[2].ID)
	assert.True(t, entries[2].PublishedAt.IsZero())
}

func TestFetchJSONFeed(t *testing.T) {
	srv := serveFile(t, "feed.json", "application/feed+json")
	doc := fetchDocument(t, srv.URL)

	assert.Equal(t, "Alan Turing", doc.Author())
	assert.Equal(t, "https://alan.example/", doc.URL())

	entries := doc.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "alan-1", entries[0].ID)
	assert.Equal(t, "https://alan.example/machines", entries[0].URL)
	assert.Equal(t, "<p>Tape.</p>", entries[0].Content)
}

func TestFetchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		case "/garbage":
			_, _ = w.Write([]byte("this is not a feed"))
		case "/huge":
			_, _ = w.Write([]byte("<rss>" + strings.Repeat("x", 2048) + "</rss>"))
		}
	}))
	defer srv.Close()

	tr := transport.NewHTTPTransport(transport.HTTPConfig{Timeout: time.Second, MaxBodyBytes: 1024})

	tests := []struct {
		path string
		err  error
	}{
		{path: "/missing", err: transport.ErrHTTPStatus},
		{path: "/garbage", err: transport.ErrUnsupportedFormat},
		{path: "/huge", err: transport.ErrBodyTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := tr.Fetch(context.Background(), srv.URL+tt.path)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestFetchSendsUserAgent(t *testing.T) {
	var userAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, _ = newTransport().Fetch(context.Background(), srv.URL)
	assert.Equal(t, "feedagg-test", userAgent)
}

func TestFetchHonoursContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := newTransport().Fetch(ctx, srv.URL)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}
