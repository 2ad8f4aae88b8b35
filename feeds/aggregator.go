// Package feeds merges independently published feeds into one aggregate.
package feeds

import (
	"context"
	"fmt"
	"time"

	"feedagg/config"
	"feedagg/models"

	log "github.com/sirupsen/logrus"
)

// Options configures an Aggregator
type Options struct {
	// Workers caps the number of concurrent fetches
	Workers int
	// Timeout applies to each fetch separately
	Timeout    time.Duration
	DateFormat string
	FormatDate DateFormatter
	Tagger     LanguageTagger
}

type Aggregator struct {
	fetcher *Fetcher
	workers int
	build   BuildOptions
}

func New(transport Transport, opts Options) *Aggregator {
	return &Aggregator{
		fetcher: NewFetcher(transport, opts.Timeout),
		workers: opts.Workers,
		build: BuildOptions{
			DateFormat: opts.DateFormat,
			FormatDate: opts.FormatDate,
			Tagger:     opts.Tagger,
		},
	}
}

// Run aggregates every source of params. Per-source failures are logged and
// skipped; only cancellation of ctx makes Run fail.
func (a *Aggregator) Run(ctx context.Context, params config.Params) (models.AggregateResult, error) {
	if err := ctx.Err(); err != nil {
		return models.AggregateResult{}, err
	}
	start := time.Now()

	pp := NewParallelProcessor(ctx, a.workers, func(ctx context.Context, spec models.FeedSourceSpec) Contribution {
		return a.processSource(ctx, spec, params.PostLimit)
	})
	contributions, err := pp.Run(params.Sources)
	if err != nil {
		return models.AggregateResult{}, fmt.Errorf("aggregation cancelled: %w", err)
	}

	roster := NewAuthorRoster()
	entryLists := make([][]models.RawEntry, 0, len(contributions))
	for _, c := range contributions {
		if c.Err != nil {
			continue
		}
		roster.Add(c.Authors...)
		entryLists = append(entryLists, c.Entries)
	}

	result := Build(params.Title, Merge(entryLists), roster, a.build)

	elapsed := time.Since(start)
	aggregationDuration.Observe(elapsed.Seconds())
	postsAggregated.Set(float64(len(result.Posts)))
	log.WithFields(log.Fields{
		"title":    params.Title,
		"sources":  len(params.Sources),
		"included": len(entryLists),
		"posts":    len(result.Posts),
		"authors":  len(result.Authors),
		"latency":  elapsed,
	}).Info("Aggregated feeds")

	return result, nil
}

// processSource runs fetch, extract and author resolution for one source.
func (a *Aggregator) processSource(ctx context.Context, spec models.FeedSourceSpec, limit int) Contribution {
	feed, err := a.fetcher.Fetch(ctx, spec)
	if err == nil {
		var bounded []models.RawEntry
		bounded, err = Extract(feed, limit)
		if err == nil {
			entries, authors := ResolveAuthors(spec, feed, bounded)
			feedsAggregated.Inc()
			log.WithFields(log.Fields{
				"url":     spec.URL,
				"entries": len(entries),
			}).Debug("Processed feed")
			return Contribution{Entries: entries, Authors: authors}
		}
	}

	if ctx.Err() != nil {
		return Contribution{Err: ctx.Err()}
	}

	reason, _ := SkipReasonOf(err)
	feedSkips.WithLabelValues(string(reason)).Inc()
	fields := log.Fields{"url": spec.URL, "reason": reason}
	if reason == NoEntries {
		log.WithFields(fields).Debug("Skipping feed without entries")
	} else {
		log.WithFields(fields).Warn(err.Error())
	}
	return Contribution{Err: err}
}
