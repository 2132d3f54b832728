// Package clock normalizes kickoff times from source-local zones into the
// single reference zone all comparisons run in.
package clock

import (
	"fmt"
	"time"
)

const (
	// DateLayout and TimeLayout are the wire formats used across all
	// sources and the output schedule.
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// PreRollOffset is subtracted from kickoff to get the "servers should
	// be live by" time.
	PreRollOffset = 10 * time.Minute
)

// Converter translates source-local date/times into one reference zone.
type Converter struct {
	ref *time.Location
}

// NewConverter creates a converter targeting the given reference zone.
func NewConverter(ref *time.Location) *Converter {
	if ref == nil {
		ref = time.UTC
	}
	return &Converter{ref: ref}
}

// Location returns the reference zone.
func (c *Converter) Location() *time.Location {
	return c.ref
}

// ToReference converts a local time-of-day on a calendar date in the source
// zone into the reference zone, applying the zone's real offset for that
// date (DST included). On parse failure the inputs are returned unchanged
// together with the error so a single bad row never aborts a source pass.
func (c *Converter) ToReference(date, timeOfDay string, src *time.Location) (string, string, error) {
	if src == nil {
		src = time.UTC
	}
	local, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+timeOfDay, src)
	if err != nil {
		return date, timeOfDay, fmt.Errorf("parse %q %q: %w", date, timeOfDay, err)
	}
	ref := local.In(c.ref)
	return ref.Format(DateLayout), ref.Format(TimeLayout), nil
}

// PreRoll returns timeOfDay minus PreRollOffset, wrapping across midnight.
// On parse failure the input is returned unchanged with the error.
func PreRoll(timeOfDay string) (string, error) {
	t, err := time.Parse(TimeLayout, timeOfDay)
	if err != nil {
		return timeOfDay, fmt.Errorf("parse %q: %w", timeOfDay, err)
	}
	return t.Add(-PreRollOffset).Format(TimeLayout), nil
}

// WithinWindow reports whether two times-of-day fall within window of each
// other. Listing sources routinely publish times tens of minutes off the
// authoritative kickoff, so this is a weak signal, not a hard gate.
// Unparseable input counts as outside the window.
func WithinWindow(t1, t2 string, window time.Duration) bool {
	a, err := time.Parse(TimeLayout, t1)
	if err != nil {
		return false
	}
	b, err := time.Parse(TimeLayout, t2)
	if err != nil {
		return false
	}
	delta := a.Sub(b)
	if delta < 0 {
		delta = -delta
	}
	return delta <= window
}
