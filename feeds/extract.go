package feeds

import (
	"feedagg/models"

	"github.com/samber/lo"
)

// Extract takes the first limit entries in the order the feed lists them.
func Extract(feed models.RawFeed, limit int) ([]models.RawEntry, error) {
	bounded := lo.Slice(feed.Entries, 0, limit)
	if len(bounded) == 0 {
		return nil, &SkipError{Reason: NoEntries, URL: feed.Source}
	}
	return bounded, nil
}
