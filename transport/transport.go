// Package transport fetches feed documents over HTTP and parses them with a
// format-specific adapter.
package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

var (
	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "feedagg_fetch_duration_seconds",
		Help:    "Duration of feed HTTP requests including parsing",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms .. ~25s
	}, []string{"format"})

	fetchBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedagg_fetch_bytes_total",
		Help: "Total number of feed payload bytes read",
	})
)

var (
	// ErrHTTPStatus is returned for non-2xx responses
	ErrHTTPStatus = errors.New("unexpected http status")
	// ErrUnsupportedFormat is returned when no adapter recognizes the payload
	ErrUnsupportedFormat = errors.New("unsupported feed format")
	// ErrBodyTooLarge is returned when the payload exceeds the configured limit
	ErrBodyTooLarge = errors.New("feed body too large")
)

// Adapter parses one feed format into a document exposing Entries, Author and URL.
type Adapter interface {
	Parse(r io.Reader, feedURL string) (any, error)
}

// HTTPConfig holds the outbound request settings
type HTTPConfig struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

// HTTPTransport retrieves feeds and hands the payload to the adapter matching
// the sniffed format.
type HTTPTransport struct {
	client   *http.Client
	config   HTTPConfig
	adapters map[gofeed.FeedType]Adapter
	fallback Adapter
}

func NewHTTPTransport(config HTTPConfig) *HTTPTransport {
	return &HTTPTransport{
		client: &http.Client{Timeout: config.Timeout},
		config: config,
		adapters: map[gofeed.FeedType]Adapter{
			gofeed.FeedTypeAtom: &AtomAdapter{},
			gofeed.FeedTypeRSS:  &RSSAdapter{},
			gofeed.FeedTypeJSON: &UniversalAdapter{},
		},
		fallback: &UniversalAdapter{},
	}
}

// Fetch downloads and parses the feed at feedURL
func (t *HTTPTransport) Fetch(ctx context.Context, feedURL string) (any, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if t.config.UserAgent != "" {
		req.Header.Set("User-Agent", t.config.UserAgent)
	}
	req.Header.Set("Accept", "application/atom+xml, application/rss+xml, application/feed+json, application/xml;q=0.9, */*;q=0.8")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d", ErrHTTPStatus, resp.StatusCode)
	}

	body, err := t.readBody(resp.Body)
	if err != nil {
		return nil, err
	}

	format := gofeed.DetectFeedType(bytes.NewReader(body))
	adapter, ok := t.adapters[format]
	if !ok {
		adapter = t.fallback
	}

	doc, err := adapter.Parse(bytes.NewReader(body), feedURL)
	if err != nil {
		if format == gofeed.FeedTypeUnknown {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	elapsed := time.Since(start)
	fetchDuration.WithLabelValues(formatName(format)).Observe(elapsed.Seconds())
	log.WithFields(log.Fields{
		"url":     feedURL,
		"format":  formatName(format),
		"bytes":   len(body),
		"latency": elapsed,
	}).Debug("Fetched feed")

	return doc, nil
}

func (t *HTTPTransport) readBody(r io.Reader) ([]byte, error) {
	limit := t.config.MaxBodyBytes
	if limit <= 0 {
		body, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		fetchBytes.Add(float64(len(body)))
		return body, nil
	}

	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	fetchBytes.Add(float64(len(body)))
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, limit)
	}
	return body, nil
}

func formatName(format gofeed.FeedType) string {
	switch format {
	case gofeed.FeedTypeAtom:
		return "atom"
	case gofeed.FeedTypeRSS:
		return "rss"
	case gofeed.FeedTypeJSON:
		return "json"
	default:
		return "unknown"
	}
}
