// Package ranking orders computed team performances for display.
package ranking

import (
	"sort"
	"strings"

	"github.com/pable/go-cs-mapstats/internal/model"
)

// DefaultTop is the size of the volume-ranked fallback list.
const DefaultTop = 5

// Resolve orders teams for the top-teams view.
//
// With a non-empty ranking list, entries are taken in list order and matched to
// teams by name ignoring case; entries without a computed team are dropped and
// repeated names keep their first entry. Each output carries the list's rank.
//
// Without a list, teams are ordered by total matches (ties keep input order) and
// the first top are returned ranked 1..top. A top below one means DefaultTop.
func Resolve(teams []model.TeamPerformance, list []model.RankingEntry, top int) (out []model.RankedTeam, ranked bool) {
	if len(list) > 0 {
		return fromList(teams, list), true
	}
	return byVolume(teams, top), false
}

func fromList(teams []model.TeamPerformance, list []model.RankingEntry) []model.RankedTeam {
	byName := make(map[string]int, len(teams))
	for i, t := range teams {
		key := strings.ToLower(strings.TrimSpace(t.Team))
		if _, ok := byName[key]; !ok {
			byName[key] = i
		}
	}

	out := make([]model.RankedTeam, 0, len(list))
	used := make(map[string]bool)
	for _, e := range list {
		key := strings.ToLower(strings.TrimSpace(e.Team))
		i, ok := byName[key]
		if !ok || used[key] {
			continue
		}
		used[key] = true
		out = append(out, model.RankedTeam{Rank: e.Rank, TeamPerformance: teams[i]})
	}
	return out
}

func byVolume(teams []model.TeamPerformance, top int) []model.RankedTeam {
	if top < 1 {
		top = DefaultTop
	}
	sorted := append([]model.TeamPerformance(nil), teams...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalMatches > sorted[j].TotalMatches
	})
	if len(sorted) > top {
		sorted = sorted[:top]
	}
	out := make([]model.RankedTeam, len(sorted))
	for i, t := range sorted {
		out[i] = model.RankedTeam{Rank: i + 1, TeamPerformance: t}
	}
	return out
}
