package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"feedagg/config"
	"feedagg/dates"
	"feedagg/feeds"
	"feedagg/language"
	"feedagg/render"
	"feedagg/transport"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var pageExtensions = []string{".md", ".markdown", ".html", ".htm"}

// buildFlags are shared by every command that compiles pages
func buildFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   "feedagg.toml",
			Usage:   "Path to the site configuration file",
			EnvVars: []string{"FEEDAGG_CONFIG"},
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "Maximum number of concurrent feed fetches (overrides config)",
			EnvVars: []string{"FEEDAGG_WORKERS"},
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Usage:   "Timeout for each feed fetch (overrides config)",
			EnvVars: []string{"FEEDAGG_TIMEOUT"},
		},
	}
}

// loadSiteConfig loads the TOML config and applies flag overrides
func loadSiteConfig(ctx *cli.Context) (*config.TomlConfig, error) {
	cfg, err := config.LoadConfig(ctx.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if workers := ctx.Int("workers"); workers > 0 {
		cfg.Fetch.Workers = workers
	}
	if timeout := ctx.Duration("timeout"); timeout > 0 {
		cfg.Fetch.Timeout = timeout
	}
	return cfg, nil
}

func newAggregator(cfg *config.TomlConfig) *feeds.Aggregator {
	opts := feeds.Options{
		Workers:    cfg.Fetch.Workers,
		Timeout:    cfg.Fetch.Timeout,
		DateFormat: cfg.DateFormat,
		FormatDate: dates.Format,
	}
	if cfg.Language.Detect {
		opts.Tagger = language.NewDetector(cfg.Language.Languages)
	}

	return feeds.New(transport.NewHTTPTransport(transport.HTTPConfig{
		// The per-fetch context deadline governs; the client timeout is a backstop
		Timeout:      cfg.Fetch.Timeout + 5*time.Second,
		UserAgent:    cfg.Fetch.UserAgent,
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
	}), opts)
}

// pagePaths expands directories into the page files they contain
func pagePaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && strings.HasPrefix(d.Name(), "_site") {
				return filepath.SkipDir
			}
			if !d.IsDir() && lo.Contains(pageExtensions, strings.ToLower(filepath.Ext(path))) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return lo.Uniq(paths), nil
}

// compilePages aggregates every feed aggregator page. Pages with other
// layouts or without front-matter are skipped; unreadable or malformed
// front-matter fails the build.
func compilePages(ctx context.Context, aggregator *feeds.Aggregator, paths []string) ([]render.Page, error) {
	var pages []render.Page
	for _, path := range paths {
		page, err := config.LoadPage(path)
		if errors.Is(err, config.ErrMissingFrontMatter) {
			log.WithField("path", path).Debug("Skipping page without front-matter")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", path, err)
		}
		if !page.IsAggregator() {
			continue
		}

		params, _, err := config.ParseParams(page.Data)
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", path, err)
		}

		result, err := aggregator.Run(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", path, err)
		}

		pages = append(pages, render.Page{
			Name:     page.Name,
			Result:   result,
			MetaFeed: params.MetaFeed,
		})
	}
	return pages, nil
}
