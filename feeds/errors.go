package feeds

import (
	"errors"
	"fmt"
	"strings"
)

// SkipReason tells why a source contributed nothing to the aggregate
type SkipReason string

const (
	FetchFailed       SkipReason = "FetchFailed"
	CapabilityMissing SkipReason = "CapabilityMissing"
	NoEntries         SkipReason = "NoEntries"
)

// SkipError is returned by the per-source stages. It is never fatal to a run.
type SkipError struct {
	Reason SkipReason
	URL    string
	// Missing lists the capabilities the document lacked
	Missing []string
	Err     error
}

func (e *SkipError) Error() string {
	switch e.Reason {
	case CapabilityMissing:
		return fmt.Sprintf("feed %s does not support: %s", e.URL, strings.Join(e.Missing, ", "))
	case NoEntries:
		return fmt.Sprintf("feed %s has no entries", e.URL)
	default:
		if e.Err != nil {
			return fmt.Sprintf("failed to acquire feed %s: %v", e.URL, e.Err)
		}
		return fmt.Sprintf("failed to acquire feed %s", e.URL)
	}
}

func (e *SkipError) Unwrap() error {
	return e.Err
}

// SkipReasonOf returns the skip reason of err, if it is a SkipError
func SkipReasonOf(err error) (SkipReason, bool) {
	var skip *SkipError
	if errors.As(err, &skip) {
		return skip.Reason, true
	}
	return "", false
}
