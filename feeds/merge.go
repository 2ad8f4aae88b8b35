package feeds

import (
	"slices"

	"feedagg/models"

	"github.com/samber/lo"
)

// Merge concatenates the contributions in the given order, drops entries
// whose id was already seen and sorts the rest newest first. The sort is
// stable, so entries with equal timestamps keep their concatenated order.
//
// Ids are compared across feeds even though feeds only promise uniqueness
// within themselves.
func Merge(contributions [][]models.RawEntry) []models.RawEntry {
	all := lo.Flatten(contributions)
	unique := lo.UniqBy(all, func(e models.RawEntry) string {
		return e.ID
	})
	slices.SortStableFunc(unique, func(a, b models.RawEntry) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})
	return unique
}
