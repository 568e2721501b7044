package reap

import (
	"github.com/rcarmo/pskill/pkg/applets/procutil"
)

// DefaultMarker is the token that identifies a text-search step in a
// listing. Records carrying it are never targeted.
const DefaultMarker = "grep"

// SkipReason explains why a listed record was not targeted.
type SkipReason string

const (
	SkipEmpty      SkipReason = "empty"
	SkipMarker     SkipReason = "marker"
	SkipInvalidPID SkipReason = "invalid-pid"
	SkipSelf       SkipReason = "self"
)

// Target is a record selected for termination.
type Target struct {
	PID    int
	Record procutil.Record
}

// Skip is a record rejected by Select.
type Skip struct {
	Record string     `yaml:"record" json:"record"`
	Reason SkipReason `yaml:"reason" json:"reason"`
}

// Select applies the targeting policy to a listing, in order:
// empty records, records carrying marker as a token (unless marker is ""),
// records without a usable PID, and PIDs owned by the enumeration itself
// are skipped. Everything else is a target. Listing order is preserved.
func Select(listing procutil.Listing, marker string) ([]Target, []Skip) {
	var targets []Target
	var skipped []Skip
	for _, rec := range listing.Records {
		if rec.Empty() {
			skipped = append(skipped, Skip{Reason: SkipEmpty})
			continue
		}
		if marker != "" && rec.Has(marker) {
			skipped = append(skipped, Skip{Record: rec.Text(), Reason: SkipMarker})
			continue
		}
		pid, err := rec.PID()
		if err != nil {
			skipped = append(skipped, Skip{Record: rec.Text(), Reason: SkipInvalidPID})
			continue
		}
		if listing.Excluded(pid) {
			skipped = append(skipped, Skip{Record: rec.Text(), Reason: SkipSelf})
			continue
		}
		targets = append(targets, Target{PID: pid, Record: rec})
	}
	return targets, skipped
}
