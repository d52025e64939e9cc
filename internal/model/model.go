package model

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Score is a non-negative integer field read from a dataset cell. Cells that are
// empty, non-numeric or negative produce an invalid Score instead of an error.
type Score struct {
	N     int
	Valid bool
}

// ParseScore converts a raw cell into a Score.
func ParseScore(s string) Score {
	s = strings.TrimSpace(s)
	if s == "" {
		return Score{}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Integers written as floats ("13.0") are accepted.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return Score{}
		}
		n = int(f)
	}
	if n < 0 {
		return Score{}
	}
	return Score{N: n, Valid: true}
}

// ScoreOf returns a valid Score holding n.
func ScoreOf(n int) Score { return Score{N: n, Valid: true} }

func (s Score) String() string {
	if !s.Valid {
		return "—"
	}
	return strconv.Itoa(s.N)
}

// Value stores an invalid Score as NULL.
func (s Score) Value() (driver.Value, error) {
	if !s.Valid {
		return nil, nil
	}
	return int64(s.N), nil
}

// Scan reads an INTEGER or NULL column.
func (s *Score) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = Score{}
	case int64:
		*s = Score{N: int(v), Valid: v >= 0}
	case []byte:
		*s = ParseScore(string(v))
	case string:
		*s = ParseScore(v)
	default:
		return fmt.Errorf("scan score: unsupported type %T", src)
	}
	return nil
}

// ---- Row schemas ----

// MatchRecord is one completed series between two teams.
type MatchRecord struct {
	MatchID    string
	StartDate  string // raw timestamp text; parsed by the window selector
	Tier       string
	Team1ID    string
	Team1Name  string
	Team2ID    string
	Team2Name  string
	Team1Score Score // maps won in the series
	Team2Score Score
	WinnerID   string
	WinnerName string
	LoserID    string
	LoserName  string
}

// HasTeam reports whether name is team1 or team2 of the match (case-insensitive).
func (m *MatchRecord) HasTeam(name string) bool {
	return strings.EqualFold(m.Team1Name, name) || strings.EqualFold(m.Team2Name, name)
}

// MapRecord is one map played inside a match.
type MapRecord struct {
	MatchID     string
	MapName     string
	Rounds      Score
	Team1Name   string
	Team2Name   string
	WinnerName  string
	LoserName   string
	WinnerScore Score // rounds won by the map winner
	LoserScore  Score
}

// RankingEntry is one line of an externally supplied ranking list.
type RankingEntry struct {
	Rank int    `json:"rank"`
	Team string `json:"team"`
}

// ---- Derived statistics ----

// PickCount is the number of times a map was played in the window.
type PickCount struct {
	MapName string `json:"map_name"`
	Count   int    `json:"count"`
}

// BOResult counts series that ended with a given score line, e.g. "2-1".
type BOResult struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// MapStat holds volatility figures for one map.
type MapStat struct {
	MapName  string  `json:"map_name"`
	Matches  int     `json:"matches"`
	AvgDiff  float64 `json:"avg_diff"`
	ClosePct float64 `json:"close_pct"`
	StompPct float64 `json:"stomp_pct"`
	OTPct    float64 `json:"ot_pct"`

	// Raw counts behind the percentages.
	ValidRows  int `json:"valid_rows"`
	CloseCount int `json:"close_count"`
	StompCount int `json:"stomp_count"`
	OTCount    int `json:"ot_count"`
}

// TeamMapStat is a team's record on one map.
type TeamMapStat struct {
	MapName string `json:"map_name"`
	Played  int    `json:"played"`
	Won     int    `json:"won"`
}

// WinRate returns Won/Played in [0,1].
func (s TeamMapStat) WinRate() float64 {
	if s.Played == 0 {
		return 0
	}
	return float64(s.Won) / float64(s.Played)
}

// TeamPerformance summarises one team inside the window.
type TeamPerformance struct {
	Team          string        `json:"team"`
	TeamID        string        `json:"team_id"`
	BestMap       string        `json:"best_map"`
	BestMapPlayed int           `json:"best_map_played"`
	BestMapLabel  string        `json:"best_map_win_rate"`
	TotalMatches  int           `json:"total_matches"`
	MatchesWon    int           `json:"matches_won"`
	Maps          []TeamMapStat `json:"maps"`
}

// RankedTeam is a TeamPerformance tagged with its display rank.
type RankedTeam struct {
	Rank int `json:"rank"`
	TeamPerformance
}

// Statistics is the output of the aggregation engine for one window.
type Statistics struct {
	TotalMatches    int               `json:"total_matches"`
	TotalMaps       int               `json:"total_maps"`
	TrackedTeams    int               `json:"tracked_teams"`
	PickPerMap      []PickCount       `json:"pick_per_map"`
	BOResults       []BOResult        `json:"bo_results"`
	MapStats        []MapStat         `json:"map_stats"`
	Teams           []TeamPerformance `json:"teams"`
	TeamIDConflicts int               `json:"team_id_conflicts"`
}

// Window describes the time range the statistics were computed over.
type Window struct {
	RequestedDays int       `json:"requested_days"`
	EffectiveDays int       `json:"effective_days"`
	SpanDays      int       `json:"span_days"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
}

// Result is the immutable value handed to presentation.
type Result struct {
	NoData   bool         `json:"no_data"`
	Window   Window       `json:"window"`
	Ranked   bool         `json:"ranked"` // true when an external ranking list ordered TopTeams
	TopTeams []RankedTeam `json:"top_teams"`
	Statistics
}

// Team returns the performance entry for name, or nil.
func (r *Result) Team(name string) *TeamPerformance {
	for i := range r.Teams {
		if strings.EqualFold(r.Teams[i].Team, name) {
			return &r.Teams[i]
		}
	}
	return nil
}

// ImportSummary records one `load` run.
type ImportSummary struct {
	ID         string
	ImportedAt time.Time
	Source     string
	Matches    int
	Maps       int
	Rankings   int
}
