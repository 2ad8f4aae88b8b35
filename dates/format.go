// Package dates renders post timestamps with a site date format spec.
package dates

import (
	"fmt"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// Ordinal is the format spec for "Jan 2<span>nd</span>, 2006" style dates
const Ordinal = "ordinal"

// Format renders t with a strftime spec, or the ordinal style when spec is
// "ordinal" or empty. The zero time renders as an empty string.
func Format(t time.Time, spec string) string {
	if t.IsZero() {
		return ""
	}
	spec = strings.TrimSpace(spec)
	if spec == "" || spec == Ordinal {
		return Ordinalize(t)
	}
	return strftime.Format(spec, t)
}

// Ordinalize renders t as e.g. "Mar 1<span>st</span>, 2024"
func Ordinalize(t time.Time) string {
	return fmt.Sprintf("%s %d<span>%s</span>, %d", t.Format("Jan"), t.Day(), OrdinalSuffix(t.Day()), t.Year())
}

// OrdinalSuffix returns the English ordinal suffix for n
func OrdinalSuffix(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
