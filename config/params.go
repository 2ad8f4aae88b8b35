package config

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"feedagg/models"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTitle     = "Blog Feed"
	DefaultPostLimit = 5
	DefaultMetaFeed  = "atom.xml"
)

// ErrConfiguration is returned when the page parameters cannot be used at all.
var ErrConfiguration = errors.New("configuration error")

var knownSourceKeys = []string{"url", "author", "author_url"}

// Params are the resolved aggregator parameters of one page. Treat as read-only.
type Params struct {
	Title     string
	PostLimit int
	Sources   []models.FeedSourceSpec

	// MetaFeed is the requested meta feed path, empty when none was requested
	MetaFeed string
}

// Warning is a non-fatal problem found while normalizing parameters
type Warning struct {
	Kind    string
	Message string
}

func (w Warning) String() string {
	return w.Kind + ": " + w.Message
}

const (
	WarnUnknownConfigKey = "UnknownConfigKey"
	WarnInvalidSource    = "InvalidSource"
	WarnInvalidValue     = "InvalidValue"
)

// ParseParams normalizes raw page metadata into Params. Only a missing or
// non-sequence feed_list is fatal, everything else degrades to a warning.
func ParseParams(data map[string]any) (Params, []Warning, error) {
	var warnings []Warning
	warn := func(kind, format string, args ...any) {
		w := Warning{Kind: kind, Message: fmt.Sprintf(format, args...)}
		log.WithField("kind", kind).Warn(w.Message)
		warnings = append(warnings, w)
	}

	params := Params{
		Title:     DefaultTitle,
		PostLimit: DefaultPostLimit,
	}

	if raw, ok := data["title"]; ok && raw != nil {
		if title, ok := raw.(string); ok && strings.TrimSpace(title) != "" {
			params.Title = title
		} else {
			warn(WarnInvalidValue, "invalid title %v, using %q", raw, DefaultTitle)
		}
	}

	if raw, ok := data["post_limit"]; ok && raw != nil {
		limit, err := parseLimit(raw)
		if err != nil {
			warn(WarnInvalidValue, "invalid post_limit %v, using %d", raw, DefaultPostLimit)
		} else {
			params.PostLimit = limit
		}
	}

	if raw, ok := data["meta_feed"]; ok {
		path, _ := raw.(string)
		if strings.TrimSpace(path) == "" {
			path = DefaultMetaFeed
		}
		params.MetaFeed = path
	}

	rawList, ok := data["feed_list"]
	if !ok || rawList == nil {
		return Params{}, warnings, fmt.Errorf("%w: feed_list is required", ErrConfiguration)
	}

	var items []any
	switch list := rawList.(type) {
	case []any:
		items = list
	case []string:
		items = lo.Map(list, func(s string, _ int) any { return s })
	default:
		return Params{}, warnings, fmt.Errorf("%w: feed_list must be a list, got %T", ErrConfiguration, rawList)
	}

	specs := make([]models.FeedSourceSpec, 0, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case string:
			if url := strings.TrimSpace(v); url != "" {
				specs = append(specs, models.FeedSourceSpec{URL: url})
			} else {
				warn(WarnInvalidSource, "feed_list[%d] is empty", i)
			}
		case map[string]any:
			spec, ok := parseSourceMap(i, v, warn)
			if ok {
				specs = append(specs, spec)
			}
		default:
			warn(WarnInvalidSource, "feed_list[%d] has unsupported type %T", i, item)
		}
	}

	params.Sources = lo.UniqBy(specs, func(s models.FeedSourceSpec) string {
		return s.URL
	})

	return params, warnings, nil
}

func parseSourceMap(i int, m map[string]any, warn func(kind, format string, args ...any)) (models.FeedSourceSpec, bool) {
	unknown := lo.Filter(lo.Keys(m), func(k string, _ int) bool {
		return !lo.Contains(knownSourceKeys, k)
	})
	if len(unknown) > 0 {
		sort.Strings(unknown)
		warn(WarnUnknownConfigKey, "unknown feed parameters: %v", unknown)
	}

	url, _ := m["url"].(string)
	url = strings.TrimSpace(url)
	if url == "" {
		warn(WarnInvalidSource, "feed_list[%d] has no url", i)
		return models.FeedSourceSpec{}, false
	}

	spec := models.FeedSourceSpec{URL: url}
	if raw, ok := m["author"]; ok && raw != nil {
		if author, ok := raw.(string); ok {
			spec.AuthorOverride = strings.TrimSpace(author)
		} else {
			warn(WarnInvalidValue, "feed %s: author must be a string", url)
		}
	}
	if raw, ok := m["author_url"]; ok && raw != nil {
		if authorURL, ok := raw.(string); ok {
			spec.AuthorURLOverride = strings.TrimSpace(authorURL)
		} else {
			warn(WarnInvalidValue, "feed %s: author_url must be a string", url)
		}
	}
	return spec, true
}

func parseLimit(raw any) (int, error) {
	var limit int
	switch v := raw.(type) {
	case int:
		limit = v
	case int64:
		limit = int(v)
	case uint64:
		limit = int(v)
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("not an integer: %v", v)
		}
		limit = int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, err
		}
		limit = n
	default:
		return 0, fmt.Errorf("unsupported type %T", raw)
	}
	if limit < 0 {
		return 0, fmt.Errorf("negative limit %d", limit)
	}
	return limit, nil
}
