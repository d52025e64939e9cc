// Package ingest reads the match, map and ranking datasets into typed rows.
//
// Cells are copied as text; numeric cells go through model.ParseScore so a bad
// value becomes an invalid Score rather than an error. Only structural problems
// (unreadable CSV, missing required header) are reported as errors.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pable/go-cs-mapstats/internal/model"
)

// ErrMissingColumn is returned when a required header is absent.
var ErrMissingColumn = errors.New("missing required column")

// matchColumns maps a canonical column to the header spellings accepted for it.
var matchColumns = map[string][]string{
	"match_id":       {"match_id", "id"},
	"start_date":     {"start_date", "date", "start_time", "started_at"},
	"tier":           {"tier"},
	"team1_id":       {"team1_id"},
	"team1_name":     {"team1_name", "team1"},
	"team2_id":       {"team2_id"},
	"team2_name":     {"team2_name", "team2"},
	"team1_score_bo": {"team1_score_bo", "team1_score"},
	"team2_score_bo": {"team2_score_bo", "team2_score"},
	"winner_id":      {"winner_id", "winning_team_id"},
	"winner_name":    {"winner_name", "winner", "winning_team"},
	"loser_id":       {"loser_id", "losing_team_id"},
	"loser_name":     {"loser_name", "loser", "losing_team"},
}

var matchRequired = []string{"match_id", "start_date", "team1_name", "team2_name"}

var mapColumns = map[string][]string{
	"match_id":     {"match_id"},
	"map_name":     {"map_name", "map"},
	"rounds":       {"rounds", "total_rounds"},
	"team1_name":   {"team1_name", "team1"},
	"team2_name":   {"team2_name", "team2"},
	"winner_name":  {"winner_name", "winner", "map_winner"},
	"loser_name":   {"loser_name", "loser", "map_loser"},
	"winner_score": {"winner_score", "winner_rounds"},
	"loser_score":  {"loser_score", "loser_rounds"},
}

var mapRequired = []string{"match_id", "map_name"}

// Reader parses dataset files, logging row-level anomalies at debug level.
type Reader struct {
	Log zerolog.Logger
}

// NewReader returns a Reader that logs to log.
func NewReader(log zerolog.Logger) *Reader {
	return &Reader{Log: log}
}

// ReadMatches parses a matches CSV with a header row.
func (rd *Reader) ReadMatches(r io.Reader) ([]model.MatchRecord, error) {
	var out []model.MatchRecord
	err := rd.scan(r, "matches", matchColumns, matchRequired, func(rec row) {
		out = append(out, model.MatchRecord{
			MatchID:    rec.get("match_id"),
			StartDate:  rec.get("start_date"),
			Tier:       rec.get("tier"),
			Team1ID:    rec.get("team1_id"),
			Team1Name:  rec.get("team1_name"),
			Team2ID:    rec.get("team2_id"),
			Team2Name:  rec.get("team2_name"),
			Team1Score: model.ParseScore(rec.get("team1_score_bo")),
			Team2Score: model.ParseScore(rec.get("team2_score_bo")),
			WinnerID:   rec.get("winner_id"),
			WinnerName: rec.get("winner_name"),
			LoserID:    rec.get("loser_id"),
			LoserName:  rec.get("loser_name"),
		})
	})
	return out, err
}

// ReadMaps parses a maps CSV with a header row.
func (rd *Reader) ReadMaps(r io.Reader) ([]model.MapRecord, error) {
	var out []model.MapRecord
	err := rd.scan(r, "maps", mapColumns, mapRequired, func(rec row) {
		out = append(out, model.MapRecord{
			MatchID:     rec.get("match_id"),
			MapName:     rec.get("map_name"),
			Rounds:      model.ParseScore(rec.get("rounds")),
			Team1Name:   rec.get("team1_name"),
			Team2Name:   rec.get("team2_name"),
			WinnerName:  rec.get("winner_name"),
			LoserName:   rec.get("loser_name"),
			WinnerScore: model.ParseScore(rec.get("winner_score")),
			LoserScore:  model.ParseScore(rec.get("loser_score")),
		})
	})
	return out, err
}

// rankingFile is the object form of a ranking file: {"teams": [...]}.
type rankingFile struct {
	Teams []model.RankingEntry `json:"teams"`
}

// ReadRanking parses a ranking JSON file, either a bare array of {"rank","team"}
// objects or an object with a "teams" array. Entries without a team name are
// skipped; entries without a rank take their 1-based position. The returned slice
// keeps file order.
func (rd *Reader) ReadRanking(r io.Reader) ([]model.RankingEntry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read ranking: %w", err)
	}
	var entries []model.RankingEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		var f rankingFile
		if ferr := json.Unmarshal(data, &f); ferr != nil {
			return nil, fmt.Errorf("decode ranking: %w", err)
		}
		entries = f.Teams
	}

	out := make([]model.RankingEntry, 0, len(entries))
	for i, e := range entries {
		e.Team = strings.TrimSpace(e.Team)
		if e.Team == "" {
			continue
		}
		if e.Rank <= 0 {
			e.Rank = i + 1
		}
		out = append(out, e)
	}
	rd.Log.Debug().Int("entries", len(out)).Int("skipped", len(entries)-len(out)).Msg("ranking read")
	return out, nil
}

// row is one CSV record addressed by canonical column name.
type row struct {
	cells []string
	index map[string]int
}

func (r row) get(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

// scan reads the header, resolves column aliases and calls emit for every
// non-blank record.
func (rd *Reader) scan(r io.Reader, kind string, columns map[string][]string, required []string, emit func(row)) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return fmt.Errorf("%s: empty file", kind)
	}
	if err != nil {
		return fmt.Errorf("%s header: %w", kind, err)
	}
	index, err := resolveHeader(header, columns, required)
	if err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}

	var rows, blank, short int
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%s line %d: %w", kind, rows+blank+2, err)
		}
		if isBlank(rec) {
			blank++
			continue
		}
		if len(rec) < len(header) {
			short++
		}
		emit(row{cells: rec, index: index})
		rows++
	}
	rd.Log.Debug().
		Str("file", kind).
		Int("rows", rows).
		Int("blank", blank).
		Int("short", short).
		Msg("dataset read")
	return nil
}

func resolveHeader(header []string, columns map[string][]string, required []string) (map[string]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}

	index := make(map[string]int, len(columns))
	for col, aliases := range columns {
		for _, a := range aliases {
			if i, ok := pos[a]; ok {
				index[col] = i
				break
			}
		}
	}

	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return index, nil
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
