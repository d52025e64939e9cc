// Package window selects the matches that fall inside a trailing lookback window
// measured back from the most recent match in the dataset.
package window

import (
	"math"
	"strings"
	"time"

	"github.com/pable/go-cs-mapstats/internal/model"
)

// MinLookbackDays is the floor applied to the effective lookback when the dataset
// spans at least that many days.
const MinLookbackDays = 7

// dateLayouts are tried in order when parsing a match start date.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate parses a match start date. ok is false for empty or unparseable text.
func ParseDate(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Selection is the outcome of applying a window to a match set.
type Selection struct {
	Matches []model.MatchRecord // in input order
	Window  model.Window
}

// Empty reports whether no match fell inside the window.
func (s Selection) Empty() bool { return len(s.Matches) == 0 }

// Select keeps the matches of the given tier (all tiers when tier is empty) whose start
// date parses, then those inside [asOf - lookback, asOf] where asOf is the latest
// start date. The requested lookback is clamped to [min(7, span), span] days.
//
// A selection with no parseable match is returned empty with a zero Window apart
// from RequestedDays; callers report it as "no data", never as the whole dataset.
func Select(matches []model.MatchRecord, requestedDays int, tier string) Selection {
	type dated struct {
		m model.MatchRecord
		t time.Time
	}
	var candidates []dated
	var earliest, latest time.Time
	for _, m := range matches {
		if tier != "" && !strings.EqualFold(strings.TrimSpace(m.Tier), tier) {
			continue
		}
		t, ok := ParseDate(m.StartDate)
		if !ok {
			continue
		}
		if len(candidates) == 0 || t.Before(earliest) {
			earliest = t
		}
		if len(candidates) == 0 || t.After(latest) {
			latest = t
		}
		candidates = append(candidates, dated{m, t})
	}

	sel := Selection{Window: model.Window{RequestedDays: requestedDays}}
	if len(candidates) == 0 {
		return sel
	}

	span := SpanDays(earliest, latest)
	effective := ClampDays(requestedDays, span)
	start := latest.Add(-time.Duration(effective) * 24 * time.Hour)

	sel.Window.SpanDays = span
	sel.Window.EffectiveDays = effective
	sel.Window.Start = start
	sel.Window.End = latest
	for _, c := range candidates {
		if c.t.Before(start) || c.t.After(latest) {
			continue
		}
		sel.Matches = append(sel.Matches, c.m)
	}
	return sel
}

// SpanDays returns the whole number of days covered by [from, to], rounded up and
// never less than one.
func SpanDays(from, to time.Time) int {
	days := int(math.Ceil(to.Sub(from).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// ClampDays bounds requested to [min(MinLookbackDays, span), span].
func ClampDays(requested, span int) int {
	lo := MinLookbackDays
	if span < lo {
		lo = span
	}
	switch {
	case requested < lo:
		return lo
	case requested > span:
		return span
	default:
		return requested
	}
}
