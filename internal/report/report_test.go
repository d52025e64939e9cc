package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pable/go-cs-mapstats/internal/aggregator"
	"github.com/pable/go-cs-mapstats/internal/model"
)

func sampleResult() *model.Result {
	end := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	alpha := model.TeamPerformance{
		Team: "Alpha", TeamID: "1", BestMap: "Mirage", BestMapPlayed: 1, BestMapLabel: "100.0%",
		TotalMatches: 1, MatchesWon: 1,
		Maps: []model.TeamMapStat{{MapName: "Mirage", Played: 1, Won: 1}},
	}
	return &model.Result{
		Window: model.Window{RequestedDays: 3, EffectiveDays: 7, SpanDays: 40, Start: end.AddDate(0, 0, -7), End: end},
		Statistics: model.Statistics{
			TotalMatches: 1, TotalMaps: 1, TrackedTeams: 2,
			PickPerMap: []model.PickCount{{MapName: "Mirage", Count: 1}},
			BOResults:  []model.BOResult{{Label: "2-0", Count: 1}},
			MapStats:   []model.MapStat{{MapName: "Mirage", Matches: 1, AvgDiff: 12, StompPct: 100}},
			Teams:      []model.TeamPerformance{alpha},
		},
		TopTeams: []model.RankedTeam{{Rank: 1, TeamPerformance: alpha}},
	}
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	PrintResult(&buf, sampleResult())
	out := buf.String()
	for _, want := range []string{
		"last 7 days (requested 3, dataset spans 40)",
		"2025-02-22 → 2025-03-01",
		"Tracked teams  : 2",
		"Mirage",
		"2-0",
		"12.0",
		"100.0%",
		"Top Teams (by matches played)",
		"Alpha",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintResultNoData(t *testing.T) {
	var buf bytes.Buffer
	PrintResult(&buf, &model.Result{NoData: true, Window: model.Window{RequestedDays: 30}})
	out := buf.String()
	if !strings.Contains(out, NoDataMessage) || strings.Contains(out, "Map Picks") {
		t.Errorf("unexpected no-data output:\n%s", out)
	}
}

func TestPrintTopTeamsEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintTopTeamsTable(&buf, nil)
	if !strings.Contains(buf.String(), "no ranked team") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestPrintTeamDetailMarksBestMap(t *testing.T) {
	var buf bytes.Buffer
	tp := sampleResult().Teams[0]
	tp.Maps = append(tp.Maps, model.TeamMapStat{MapName: "Nuke", Played: 2, Won: 0})
	PrintTeamDetail(&buf, &tp)
	out := buf.String()
	if !strings.Contains(out, "Series : 1 played, 1 won") {
		t.Errorf("missing series line:\n%s", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Mirage") && strings.Contains(line, "│") && !strings.Contains(line, ">") {
			t.Errorf("best map row not marked: %q", line)
		}
	}
}

func TestPrintPolicyListsEveryRule(t *testing.T) {
	var buf bytes.Buffer
	PrintPolicy(&buf, aggregator.Policy)
	for _, r := range aggregator.Policy {
		if !strings.Contains(buf.String(), r.Computation) {
			t.Errorf("policy output missing %q", r.Computation)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"total_matches", "pick_per_map", "bo_results", "map_stats", "top_teams", "window"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("JSON missing %q", key)
		}
	}
}
