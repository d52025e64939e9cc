package aggregator

import (
	"errors"

	"github.com/pable/go-cs-mapstats/internal/model"
	"github.com/pable/go-cs-mapstats/internal/ranking"
	"github.com/pable/go-cs-mapstats/internal/window"
)

// ErrNilInput is returned when Analyze is called without an Input.
var ErrNilInput = errors.New("nil Input")

// Input is the full, unfiltered dataset plus the selection parameters.
type Input struct {
	Matches []model.MatchRecord
	Maps    []model.MapRecord
	Ranking []model.RankingEntry // optional

	LookbackDays int
	Tier         string // empty keeps every tier
	Top          int    // size of the fallback top-teams list; < 1 means ranking.DefaultTop
}

// Analyze runs window selection, the join, the aggregation engine and the ranking
// resolver. Malformed rows never cause an error; a window without matches yields a
// Result with NoData set and empty lists.
func Analyze(in *Input) (*model.Result, error) {
	if in == nil {
		return nil, ErrNilInput
	}

	sel := window.Select(in.Matches, in.LookbackDays, in.Tier)
	res := &model.Result{Window: sel.Window}
	if sel.Empty() {
		res.NoData = true
		return res, nil
	}

	joined := Join(BuildIndex(sel.Matches), in.Maps)
	res.Statistics = ComputeStatistics(sel.Matches, joined)
	res.TopTeams, res.Ranked = ranking.Resolve(res.Teams, in.Ranking, in.Top)
	return res, nil
}
