package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-cs-mapstats/internal/aggregator"
	"github.com/pable/go-cs-mapstats/internal/model"
)

const dateFmt = "2006-01-02"

// NoDataMessage is printed instead of tables when the window holds no matches.
const NoDataMessage = "No data for this selection."

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintResult prints the window header followed by every statistics table.
func PrintResult(w io.Writer, res *model.Result) {
	PrintWindow(w, res.Window)
	if res.NoData {
		fmt.Fprintln(w, NoDataMessage)
		return
	}
	PrintTotals(w, res)

	fmt.Fprintf(w, "\n--- Map Picks ---\n\n")
	PrintPickTable(w, res.PickPerMap)
	fmt.Fprintf(w, "\n--- Series Results ---\n\n")
	PrintBOTable(w, res.BOResults)
	fmt.Fprintf(w, "\n--- Map Volatility ---\n\n")
	PrintMapStatsTable(w, res.MapStats)

	title := "Top Teams (by matches played)"
	if res.Ranked {
		title = "Top Teams (external ranking)"
	}
	fmt.Fprintf(w, "\n--- %s ---\n\n", title)
	PrintTopTeamsTable(w, res.TopTeams)
}

// PrintWindow prints the requested and effective lookback with the window bounds.
func PrintWindow(w io.Writer, win model.Window) {
	if win.End.IsZero() {
		fmt.Fprintf(w, "\nWindow: last %d days (requested)\n\n", win.RequestedDays)
		return
	}
	clamped := ""
	if win.EffectiveDays != win.RequestedDays {
		clamped = fmt.Sprintf(" (requested %d, dataset spans %d)", win.RequestedDays, win.SpanDays)
	}
	fmt.Fprintf(w, "\nWindow: last %d days%s  |  %s → %s\n\n",
		win.EffectiveDays, clamped, win.Start.Format(dateFmt), win.End.Format(dateFmt))
}

// PrintTotals prints the headline counts.
func PrintTotals(w io.Writer, res *model.Result) {
	fmt.Fprintf(w, "  Matches        : %d\n", res.TotalMatches)
	fmt.Fprintf(w, "  Maps           : %d\n", res.TotalMaps)
	fmt.Fprintf(w, "  Tracked teams  : %d\n", res.TrackedTeams)
	if res.TeamIDConflicts > 0 {
		fmt.Fprintf(w, "  ID conflicts   : %d (first id kept)\n", res.TeamIDConflicts)
	}
}

// PrintPickTable prints how often each map was played.
func PrintPickTable(w io.Writer, picks []model.PickCount) {
	total := 0
	for _, p := range picks {
		total += p.Count
	}
	table := newTable(w)
	table.Header("MAP", "PICKS", "SHARE")
	for _, p := range picks {
		share := 0.0
		if total > 0 {
			share = 100 * float64(p.Count) / float64(total)
		}
		table.Append(p.MapName, strconv.Itoa(p.Count), fmt.Sprintf("%.1f%%", share))
	}
	table.Render()
}

// PrintBOTable prints the series score distribution.
func PrintBOTable(w io.Writer, results []model.BOResult) {
	table := newTable(w)
	table.Header("SCORE", "SERIES")
	for _, r := range results {
		table.Append(r.Label, strconv.Itoa(r.Count))
	}
	table.Render()
}

// PrintMapStatsTable prints per-map round differential figures.
func PrintMapStatsTable(w io.Writer, stats []model.MapStat) {
	table := newTable(w)
	table.Header("MAP", "MAPS", "AVG DIFF", "CLOSE%", "STOMP%", "OT%")
	for _, s := range stats {
		table.Append(
			s.MapName,
			strconv.Itoa(s.Matches),
			fmt.Sprintf("%.1f", s.AvgDiff),
			fmt.Sprintf("%.1f%%", s.ClosePct),
			fmt.Sprintf("%.1f%%", s.StompPct),
			fmt.Sprintf("%.1f%%", s.OTPct),
		)
	}
	table.Render()
}

// PrintTopTeamsTable prints the ranked team list.
func PrintTopTeamsTable(w io.Writer, teams []model.RankedTeam) {
	if len(teams) == 0 {
		fmt.Fprintln(w, "(no ranked team played in this window)")
		return
	}
	table := newTable(w)
	table.Header("#", "TEAM", "BEST MAP", "PLAYED", "WIN RATE", "MATCHES", "WON")
	for _, t := range teams {
		table.Append(
			strconv.Itoa(t.Rank),
			t.Team,
			t.BestMap,
			strconv.Itoa(t.BestMapPlayed),
			t.BestMapLabel,
			strconv.Itoa(t.TotalMatches),
			strconv.Itoa(t.MatchesWon),
		)
	}
	table.Render()
}

// PrintTeamDetail prints one team's series record and per-map breakdown.
func PrintTeamDetail(w io.Writer, t *model.TeamPerformance) {
	fmt.Fprintf(w, "Team: %s", t.Team)
	if t.TeamID != "" {
		fmt.Fprintf(w, "  (id %s)", t.TeamID)
	}
	fmt.Fprintf(w, "\n  Series : %d played, %d won\n", t.TotalMatches, t.MatchesWon)
	fmt.Fprintf(w, "  Best   : %s (%d played, %s)\n\n", t.BestMap, t.BestMapPlayed, t.BestMapLabel)

	table := newTable(w)
	table.Header(" ", "MAP", "PLAYED", "WON", "WIN%")
	for _, m := range t.Maps {
		marker := " "
		if m.MapName == t.BestMap {
			marker = ">"
		}
		table.Append(
			marker,
			m.MapName,
			strconv.Itoa(m.Played),
			strconv.Itoa(m.Won),
			fmt.Sprintf("%.0f%%", 100*m.WinRate()),
		)
	}
	table.Render()
}

// PrintMatchList prints stored matches, one per line.
func PrintMatchList(w io.Writer, matches []model.MatchRecord) {
	table := newTable(w)
	table.Header("ID", "DATE", "TIER", "TEAM 1", "TEAM 2", "SCORE", "WINNER")
	for _, m := range matches {
		table.Append(
			m.MatchID,
			m.StartDate,
			m.Tier,
			m.Team1Name,
			m.Team2Name,
			m.Team1Score.String()+"-"+m.Team2Score.String(),
			m.WinnerName,
		)
	}
	table.Render()
}

// PrintPolicy prints the per-computation row exclusion table.
func PrintPolicy(w io.Writer, rules []aggregator.Rule) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("COMPUTATION", "INPUT", "EXCLUDES")
	for _, r := range rules {
		table.Append(r.Computation, r.Input, r.Excludes)
	}
	table.Render()
}

// WriteJSON encodes the result as indented JSON.
func WriteJSON(w io.Writer, res *model.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
