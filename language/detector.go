// Package language tags aggregated posts with the language they are written in.
package language

import (
	"strings"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

const minimumRelativeDistance = 0.25

// Detector wraps a lingua detector restricted to a set of languages
type Detector struct {
	detector lingua.LanguageDetector
}

// NewDetector builds a detector for the given ISO 639-1 codes. Unknown codes
// are ignored; with fewer than two usable codes all languages are loaded.
func NewDetector(codes []string) *Detector {
	languages := isoToLingua(codes)
	if len(languages) < 2 {
		if len(codes) > 0 {
			log.WithField("languages", codes).Warn("Fewer than two known languages configured, detecting among all languages")
		}
		languages = lingua.AllLanguages()
	}

	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			WithMinimumRelativeDistance(minimumRelativeDistance).
			Build(),
	}
}

// Tag returns the lower-case ISO 639-1 code of text, or "" if the language
// could not be determined with enough confidence.
func (d *Detector) Tag(text string) string {
	text = strings.TrimSpace(text)
	if !HasEnoughLetters(text) {
		return ""
	}
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}

func isoToLingua(codes []string) []lingua.Language {
	wanted := lo.Map(codes, func(c string, _ int) string {
		return strings.ToLower(strings.TrimSpace(c))
	})
	return lo.Filter(lingua.AllLanguages(), func(lang lingua.Language, _ int) bool {
		return lo.Contains(wanted, strings.ToLower(lang.IsoCode639_1().String()))
	})
}

// HasEnoughLetters reports whether more than 30% of the runes in text are
// letters. Link lists and code listings fail this and are left untagged.
func HasEnoughLetters(text string) bool {
	if len(text) == 0 {
		return false
	}

	letters, total := 0, 0
	for _, r := range text {
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return float64(letters)/float64(total) > 0.30
}
