package aggregator

import (
	"strings"

	"github.com/pable/go-cs-mapstats/internal/model"
)

// Rule documents which rows one computation drops. The predicates below are the
// only place those decisions are made; each computation calls exactly the ones
// its Rule names.
type Rule struct {
	Computation string
	Input       string
	Excludes    string
}

// Policy is the exclusion table, in pipeline order. Rules are not
// uniform: a row dropped by one computation may still count in another.
var Policy = []Rule{
	{"window", "matches", "start date missing or unparseable; tier mismatch; outside [as_of-lookback, as_of]"},
	{"join", "maps", "empty map name; invalid winner round score; parent match not in window"},
	{"tracked teams", "matches", "nothing"},
	{"pick per map", "maps", "nothing beyond join"},
	{"best-of results", "matches", "either series score invalid"},
	{"map volatility: avg diff", "maps", "either round score invalid (denominator = valid rows, floor 1)"},
	{"map volatility: close/stomp/ot %", "maps", "either round score invalid from the numerator only (denominator = all rows)"},
	{"team totals", "matches", "nothing"},
	{"team maps", "maps", "rows whose parent match does not feature the team"},
	{"team output", "teams", "teams with zero map rows"},
}

// usableMap is the join-time filter applied regardless of window.
func usableMap(m *model.MapRecord) bool {
	return strings.TrimSpace(m.MapName) != "" && m.WinnerScore.Valid
}

// seriesScored gates the best-of distribution.
func seriesScored(m *model.MatchRecord) bool {
	return m.Team1Score.Valid && m.Team2Score.Valid
}

// roundsScored gates the volatility numerators and the average differential.
func roundsScored(m *model.MapRecord) bool {
	return m.WinnerScore.Valid && m.LoserScore.Valid
}
