package window

import (
	"testing"
	"time"

	"github.com/pable/go-cs-mapstats/internal/model"
)

func match(id, date string) model.MatchRecord {
	return model.MatchRecord{MatchID: id, StartDate: date, Tier: "S"}
}

func ids(ms []model.MatchRecord) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.MatchID)
	}
	return out
}

func TestParseDateLayouts(t *testing.T) {
	for _, s := range []string{
		"2025-03-01T12:00:00Z",
		"2025-03-01 12:00:00",
		"2025-03-01T12:00:00",
		"2025-03-01 12:00",
		"2025-03-01",
	} {
		if _, ok := ParseDate(s); !ok {
			t.Errorf("ParseDate(%q): expected ok", s)
		}
	}
	for _, s := range []string{"", "  ", "yesterday", "2025-13-01"} {
		if _, ok := ParseDate(s); ok {
			t.Errorf("ParseDate(%q): expected failure", s)
		}
	}
}

func TestClampDays(t *testing.T) {
	cases := []struct {
		requested, span, want int
	}{
		{30, 60, 30},
		{1, 60, 7},   // floor at 7
		{90, 60, 60}, // capped by span
		{1, 3, 3},    // small dataset: floor shrinks to span
		{10, 3, 3},
		{0, 1, 1},
	}
	for _, c := range cases {
		if got := ClampDays(c.requested, c.span); got != c.want {
			t.Errorf("ClampDays(%d, %d) = %d, want %d", c.requested, c.span, got, c.want)
		}
	}
}

func TestSpanDays(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := SpanDays(base, base); got != 1 {
		t.Errorf("same instant: want 1, got %d", got)
	}
	if got := SpanDays(base, base.Add(36*time.Hour)); got != 2 {
		t.Errorf("36h: want 2, got %d", got)
	}
	if got := SpanDays(base, base.AddDate(0, 0, 30)); got != 30 {
		t.Errorf("30d: want 30, got %d", got)
	}
}

func TestSelect_InclusiveBoundsAndOrder(t *testing.T) {
	matches := []model.MatchRecord{
		match("old", "2025-01-01"),
		match("edge", "2025-01-21"), // exactly as_of - 10 days
		match("latest", "2025-01-31"),
		match("mid", "2025-01-25"),
		match("before-edge", "2025-01-20"),
	}
	sel := Select(matches, 10, "S")
	got := ids(sel.Matches)
	want := []string{"edge", "latest", "mid"}
	if len(got) != len(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("want %v, got %v", want, got)
		}
	}
	if sel.Window.EffectiveDays != 10 || sel.Window.RequestedDays != 10 {
		t.Errorf("unexpected window days: %+v", sel.Window)
	}
	if sel.Window.SpanDays != 30 {
		t.Errorf("span: want 30, got %d", sel.Window.SpanDays)
	}
	wantEnd := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	if !sel.Window.End.Equal(wantEnd) {
		t.Errorf("end: want %v, got %v", wantEnd, sel.Window.End)
	}
	if !sel.Window.Start.Equal(wantEnd.AddDate(0, 0, -10)) {
		t.Errorf("start: got %v", sel.Window.Start)
	}
}

func TestSelect_UnparseableDatesExcluded(t *testing.T) {
	matches := []model.MatchRecord{
		match("a", "2025-02-01"),
		match("bad", "not a date"),
		match("empty", ""),
	}
	sel := Select(matches, 30, "")
	if len(sel.Matches) != 1 || sel.Matches[0].MatchID != "a" {
		t.Fatalf("expected only match a, got %v", ids(sel.Matches))
	}
}

func TestSelect_NoParseableDatesIsEmpty(t *testing.T) {
	sel := Select([]model.MatchRecord{match("bad", "??")}, 30, "")
	if !sel.Empty() {
		t.Fatal("expected empty selection")
	}
	if sel.Window.RequestedDays != 30 || sel.Window.EffectiveDays != 0 {
		t.Errorf("unexpected window: %+v", sel.Window)
	}
	if !sel.Window.End.IsZero() {
		t.Error("expected zero end time for empty selection")
	}
}

func TestSelect_TierFilter(t *testing.T) {
	matches := []model.MatchRecord{
		{MatchID: "s", StartDate: "2025-02-01", Tier: "S"},
		{MatchID: "a", StartDate: "2025-02-02", Tier: "A"},
		{MatchID: "s2", StartDate: "2025-02-03", Tier: "s"},
	}
	sel := Select(matches, 30, "S")
	got := ids(sel.Matches)
	if len(got) != 2 || got[0] != "s" || got[1] != "s2" {
		t.Fatalf("tier filter: got %v", got)
	}
	// The latest match of another tier must not move as_of.
	if sel.Window.End.Day() != 3 {
		t.Errorf("expected as_of on 2025-02-03, got %v", sel.Window.End)
	}
	if all := Select(matches, 30, ""); len(all.Matches) != 3 {
		t.Errorf("empty tier keeps all: got %d", len(all.Matches))
	}
}

func TestSelect_RequestedBelowFloorIsClamped(t *testing.T) {
	var matches []model.MatchRecord
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i <= 20; i++ {
		matches = append(matches, match(base.AddDate(0, 0, i).Format("0102"), base.AddDate(0, 0, i).Format("2006-01-02")))
	}
	sel := Select(matches, 1, "")
	if sel.Window.RequestedDays != 1 {
		t.Errorf("requested should be preserved, got %d", sel.Window.RequestedDays)
	}
	if sel.Window.EffectiveDays != MinLookbackDays {
		t.Errorf("effective: want %d, got %d", MinLookbackDays, sel.Window.EffectiveDays)
	}
	if len(sel.Matches) != MinLookbackDays+1 {
		t.Errorf("expected %d matches in a 7-day inclusive window, got %d", MinLookbackDays+1, len(sel.Matches))
	}
}
