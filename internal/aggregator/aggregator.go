package aggregator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pable/go-cs-mapstats/internal/model"
)

// Round-differential thresholds for map volatility.
const (
	closeMaxDiff = 2
	stompMinDiff = 6
	// regulationRounds is the round count that wins a map without overtime (MR12).
	regulationRounds = 13
	// overtimeMinLoser is the loser score an overtime map must have reached (12-12).
	overtimeMinLoser = regulationRounds - 1
)

// NoWinsLabel replaces the best-map win rate of a team with no series wins.
const NoWinsLabel = "No wins"

// ComputeStatistics derives every statistic from window-filtered matches and the map
// rows joined to them. It does not modify its inputs and returns the same value for
// the same arguments.
func ComputeStatistics(matches []model.MatchRecord, maps []JoinedMap) model.Statistics {
	st := model.Statistics{
		TotalMatches: len(matches),
		TotalMaps:    len(maps),
	}
	st.TrackedTeams = trackedTeams(matches)
	st.PickPerMap = pickPerMap(maps)
	st.BOResults = boResults(matches)
	st.MapStats = mapStats(maps)
	st.Teams, st.TeamIDConflicts = teamPerformance(matches, maps)
	return st
}

func trackedTeams(matches []model.MatchRecord) int {
	set := make(map[string]struct{})
	for _, m := range matches {
		set[m.Team1Name] = struct{}{}
		set[m.Team2Name] = struct{}{}
	}
	return len(set)
}

// pickPerMap counts rows per map name, most played first; ties keep first-seen order.
func pickPerMap(maps []JoinedMap) []model.PickCount {
	var out []model.PickCount
	pos := make(map[string]int)
	for _, m := range maps {
		i, ok := pos[m.MapName]
		if !ok {
			i = len(out)
			pos[m.MapName] = i
			out = append(out, model.PickCount{MapName: m.MapName})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// boResults counts "{high}-{low}" series scores, ordered by label.
func boResults(matches []model.MatchRecord) []model.BOResult {
	counts := make(map[string]int)
	for i := range matches {
		m := &matches[i]
		if !seriesScored(m) {
			continue
		}
		hi, lo := m.Team1Score.N, m.Team2Score.N
		if lo > hi {
			hi, lo = lo, hi
		}
		counts[fmt.Sprintf("%d-%d", hi, lo)]++
	}
	out := make([]model.BOResult, 0, len(counts))
	for label, n := range counts {
		out = append(out, model.BOResult{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// mapStats computes round-differential volatility per map, most played first.
//
// The average differential divides by valid rows (at least 1); the percentages divide
// by every row of the map, including rows whose scores did not parse.
func mapStats(maps []JoinedMap) []model.MapStat {
	type accum struct {
		total, valid, diffSum int
		close, stomp, ot      int
	}
	var order []string
	accs := make(map[string]*accum)
	for i := range maps {
		m := &maps[i]
		a := accs[m.MapName]
		if a == nil {
			a = &accum{}
			accs[m.MapName] = a
			order = append(order, m.MapName)
		}
		a.total++
		if !roundsScored(&m.MapRecord) {
			continue
		}
		w, l := m.WinnerScore.N, m.LoserScore.N
		diff := w - l
		if diff < 0 {
			diff = -diff
		}
		a.valid++
		a.diffSum += diff
		if diff <= closeMaxDiff {
			a.close++
		}
		if diff >= stompMinDiff {
			a.stomp++
		}
		if w > regulationRounds && l >= overtimeMinLoser {
			a.ot++
		}
	}

	out := make([]model.MapStat, 0, len(order))
	for _, name := range order {
		a := accs[name]
		denom := a.valid
		if denom == 0 {
			denom = 1
		}
		out = append(out, model.MapStat{
			MapName:    name,
			Matches:    a.total,
			AvgDiff:    float64(a.diffSum) / float64(denom),
			ClosePct:   pct(a.close, a.total),
			StompPct:   pct(a.stomp, a.total),
			OTPct:      pct(a.ot, a.total),
			ValidRows:  a.valid,
			CloseCount: a.close,
			StompCount: a.stomp,
			OTCount:    a.ot,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Matches > out[j].Matches })
	return out
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}

// teamPerformance builds one entry per team with at least one map row, in the order
// teams were first seen. The first identifier seen for a name is kept; conflicts
// counts names later seen with a different identifier.
func teamPerformance(matches []model.MatchRecord, maps []JoinedMap) (teams []model.TeamPerformance, conflicts int) {
	var order []string
	ids := make(map[string]string)
	conflicted := make(map[string]bool)
	see := func(name, id string) {
		prev, ok := ids[name]
		if !ok {
			ids[name] = id
			order = append(order, name)
			return
		}
		if id != "" && prev != "" && id != prev && !conflicted[name] {
			conflicted[name] = true
			conflicts++
		}
	}
	for _, m := range matches {
		see(m.Team1Name, m.Team1ID)
		see(m.Team2Name, m.Team2ID)
	}

	for _, name := range order {
		if strings.TrimSpace(name) == "" {
			continue
		}
		id := ids[name]
		tp := model.TeamPerformance{Team: name, TeamID: id}
		for i := range matches {
			m := &matches[i]
			if m.Team1Name != name && m.Team2Name != name {
				continue
			}
			tp.TotalMatches++
			if wonSeries(m, name, id) {
				tp.MatchesWon++
			}
		}

		tp.Maps = teamMaps(maps, name)
		if len(tp.Maps) == 0 {
			continue
		}
		best := bestMap(tp.Maps)
		tp.BestMap = best.MapName
		tp.BestMapPlayed = best.Played
		tp.BestMapLabel = winRateLabel(tp.MatchesWon, best.WinRate())
		teams = append(teams, tp)
	}
	return teams, conflicts
}

// wonSeries compares identifiers; a team without one falls back to the winner name.
func wonSeries(m *model.MatchRecord, name, id string) bool {
	if id != "" {
		return m.WinnerID == id
	}
	return strings.EqualFold(m.WinnerName, name)
}

// teamMaps tallies the team's map rows. A map counts as won when the winner name
// contains the team name, ignoring case.
func teamMaps(maps []JoinedMap, name string) []model.TeamMapStat {
	var out []model.TeamMapStat
	pos := make(map[string]int)
	lower := strings.ToLower(name)
	for i := range maps {
		m := &maps[i]
		if m.Match.Team1Name != name && m.Match.Team2Name != name {
			continue
		}
		j, ok := pos[m.MapName]
		if !ok {
			j = len(out)
			pos[m.MapName] = j
			out = append(out, model.TeamMapStat{MapName: m.MapName})
		}
		out[j].Played++
		if strings.Contains(strings.ToLower(m.WinnerName), lower) {
			out[j].Won++
		}
	}
	return out
}

// bestMap picks the highest win rate, then the most played, then the first seen.
// Maps with no plays are never chosen; stats must contain at least one played map.
func bestMap(stats []model.TeamMapStat) model.TeamMapStat {
	var best model.TeamMapStat
	for _, s := range stats {
		if s.Played == 0 {
			continue
		}
		if best.Played == 0 {
			best = s
			continue
		}
		// Compare s.Won/s.Played with best.Won/best.Played without floats.
		lhs, rhs := s.Won*best.Played, best.Won*s.Played
		if lhs > rhs || (lhs == rhs && s.Played > best.Played) {
			best = s
		}
	}
	return best
}

func winRateLabel(seriesWins int, rate float64) string {
	if seriesWins == 0 {
		return NoWinsLabel
	}
	return fmt.Sprintf("%.1f%%", rate*100)
}
