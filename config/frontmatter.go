package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// AggregatorLayout marks a page as a feed aggregator page
const AggregatorLayout = "feed_aggregator"

var (
	// ErrMissingFrontMatter indicates the page did not start with a YAML fence.
	ErrMissingFrontMatter = errors.New("config: missing frontmatter")
	// ErrMalformedFrontMatter indicates the YAML block was not closed or not a mapping.
	ErrMalformedFrontMatter = errors.New("config: malformed frontmatter")
)

// Page is a source page whose front-matter carries aggregator parameters.
type Page struct {
	// Name is the file name without extension, used for output files
	Name   string
	Layout string
	Data   map[string]any
}

// IsAggregator reports whether the page asks for feed aggregation
func (p Page) IsAggregator() bool {
	return p.Layout == AggregatorLayout
}

// LoadPage reads a page file and parses its front-matter
func LoadPage(path string) (Page, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Page{}, fmt.Errorf("error reading page: %w", err)
	}
	data, err := ParseFrontMatter(content)
	if err != nil {
		return Page{}, fmt.Errorf("%s: %w", path, err)
	}

	base := filepath.Base(path)
	page := Page{
		Name: strings.TrimSuffix(base, filepath.Ext(base)),
		Data: data,
	}
	if layout, ok := data["layout"].(string); ok {
		page.Layout = layout
	}
	return page, nil
}

// ParseFrontMatter extracts the metadata block from a document that starts
// with `---` YAML fences. The page body is ignored.
func ParseFrontMatter(content []byte) (map[string]any, error) {
	normalized := bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return nil, ErrMissingFrontMatter
	}
	rest := normalized[4:]

	var meta []byte
	switch {
	case bytes.HasPrefix(rest, []byte("---\n")) || bytes.Equal(rest, []byte("---")):
		// empty block
	default:
		parts := bytes.SplitN(rest, []byte("\n---"), 2)
		if len(parts) < 2 {
			return nil, ErrMalformedFrontMatter
		}
		meta = parts[0]
	}

	data := map[string]any{}
	if err := yaml.Unmarshal(meta, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrontMatter, err)
	}
	return data, nil
}
