// Package prayer holds the core domain types: the daily set of prayer
// times and the logic for finding the next upcoming prayer.
package prayer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Canonical prayer/event names in chronological order. Sunrise is
// informational only and is excluded from notifications.
const (
	Fajr    = "Fajr"
	Sunrise = "Sunrise"
	Dhuhr   = "Dhuhr"
	Asr     = "Asr"
	Maghrib = "Maghrib"
	Isha    = "Isha"
)

// Names lists every tracked prayer/event in canonical order.
var Names = []string{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// NotifyNames lists the prayers that get a pre-prayer notification.
// Sunrise is skipped.
var NotifyNames = []string{Fajr, Dhuhr, Asr, Maghrib, Isha}

// TimeSet maps the six canonical prayer names to "HH:MM" strings for a
// single (city, day). The API may append a timezone suffix like " (+08)"
// which is stripped during parsing. A TimeSet is never mutated after
// creation; refreshes build a new value.
type TimeSet struct {
	Fajr    string `json:"Fajr"`
	Sunrise string `json:"Sunrise"`
	Dhuhr   string `json:"Dhuhr"`
	Asr     string `json:"Asr"`
	Maghrib string `json:"Maghrib"`
	Isha    string `json:"Isha"`
}

// Get returns the raw time string for the given canonical prayer name.
// Unknown names return "".
func (ts TimeSet) Get(name string) string {
	switch name {
	case Fajr:
		return ts.Fajr
	case Sunrise:
		return ts.Sunrise
	case Dhuhr:
		return ts.Dhuhr
	case Asr:
		return ts.Asr
	case Maghrib:
		return ts.Maghrib
	case Isha:
		return ts.Isha
	}
	return ""
}

// IsZero reports whether no prayer time is set at all.
func (ts TimeSet) IsZero() bool {
	return ts == TimeSet{}
}

// Next is the derived next-prayer value: a name and an absolute timestamp.
// It is recomputed on demand and never stored.
type Next struct {
	Name string
	At   time.Time
}

// LookupFunc resolves the TimeSet for another date (used to roll over to
// tomorrow's Fajr once all of today's prayers have passed). It reports
// false when no data could be resolved.
type LookupFunc func(date time.Time) (TimeSet, bool)

// placeholderDelay is the ultimate fallback when even Fajr cannot be
// parsed: "6 hours from now" labeled Fajr. This tier is only reachable
// when every time string in the set is malformed; it is kept as a
// documented degenerate case so the countdown never goes blank.
const placeholderDelay = 6 * time.Hour

// NextPrayer returns the first prayer strictly after now, walking the
// canonical order. A prayer at the exact current minute counts as passed.
// Malformed time strings are skipped.
//
// When all of today's prayers have passed it resolves tomorrow via
// lookup and returns tomorrow's Fajr. If that yields nothing it reuses
// today's Fajr pushed one calendar day forward, and as a last resort
// falls back to the placeholder. The result is always in the future.
func NextPrayer(times TimeSet, now time.Time, lookup LookupFunc) Next {
	for _, name := range Names {
		at, err := Clock(times.Get(name), now)
		if err != nil {
			continue
		}
		if at.After(now) {
			return Next{Name: name, At: at}
		}
	}

	tomorrow := now.AddDate(0, 0, 1)

	if lookup != nil {
		if ts, ok := lookup(tomorrow); ok {
			if at, err := Clock(ts.Fajr, tomorrow); err == nil {
				return Next{Name: Fajr, At: at}
			}
			log.Warn().Str("raw", ts.Fajr).Msg("tomorrow's Fajr is unparsable")
		}
	}

	// Tomorrow could not be resolved: reuse today's known Fajr, one day on.
	if at, err := Clock(times.Fajr, tomorrow); err == nil {
		return Next{Name: Fajr, At: at}
	}

	return Next{Name: Fajr, At: now.Add(placeholderDelay)}
}

// Clock parses a raw "HH:MM" string (optionally suffixed with a
// whitespace-delimited annotation like "(+08)") into an absolute time on
// the same calendar day as date, in date's location.
func Clock(raw string, date time.Time) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, " "); idx != -1 {
		s = s[:idx]
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid time format: %q", raw)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid hour in %q: %w", raw, err)
	}
	min, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid minute in %q: %w", raw, err)
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return time.Time{}, fmt.Errorf("time out of range: %q", raw)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), hour, min, 0, 0, date.Location()), nil
}

// Countdown formats the remaining time until next as "HH:MM:SS",
// clamped at 00:00:00 once the moment has passed.
func Countdown(next Next, now time.Time) string {
	d := next.At.Sub(now)
	if d < 0 {
		return "00:00:00"
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// Remaining formats a duration as "Xh Ym" for compact display.
func Remaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
