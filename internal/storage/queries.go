package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pable/go-cs-mapstats/internal/model"
)

// Overview holds the high-level counts shown by `summary`.
type Overview struct {
	Matches       int
	Maps          int
	Rankings      int
	UniqueMaps    int
	UniqueTeams   int
	EarliestMatch string
	LatestMatch   string
	Tiers         []TierCount
	LastImport    *model.ImportSummary
}

// TierCount is the number of stored matches per tier label.
type TierCount struct {
	Tier    string
	Matches int
}

// ReplaceDataset swaps the stored matches and maps for the given rows in one
// transaction and records the import. Rankings are replaced only when ranking is
// non-nil, so a load without a ranking file keeps the previous list.
func (db *DB) ReplaceDataset(source string, matches []model.MatchRecord, maps []model.MapRecord, ranking []model.RankingEntry) (model.ImportSummary, error) {
	summary := model.ImportSummary{
		ID:         uuid.NewString(),
		ImportedAt: time.Now().UTC().Truncate(time.Second),
		Source:     source,
		Matches:    len(matches),
		Maps:       len(maps),
		Rankings:   len(ranking),
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return summary, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM matches"); err != nil {
		return summary, fmt.Errorf("clear matches: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM maps"); err != nil {
		return summary, fmt.Errorf("clear maps: %w", err)
	}
	if err := insertMatches(tx, matches); err != nil {
		return summary, err
	}
	if err := insertMaps(tx, maps); err != nil {
		return summary, err
	}
	if ranking != nil {
		if err := replaceRanking(tx, ranking); err != nil {
			return summary, err
		}
	} else if err := tx.QueryRow("SELECT COUNT(1) FROM rankings").Scan(&summary.Rankings); err != nil {
		return summary, fmt.Errorf("count rankings: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO imports(id, imported_at, source, matches, maps, rankings)
		VALUES (?, ?, ?, ?, ?, ?)`,
		summary.ID, summary.ImportedAt.Format(time.RFC3339), summary.Source,
		summary.Matches, summary.Maps, summary.Rankings,
	)
	if err != nil {
		return summary, fmt.Errorf("insert import: %w", err)
	}
	return summary, tx.Commit()
}

// ReplaceRanking swaps the stored ranking list.
func (db *DB) ReplaceRanking(entries []model.RankingEntry) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := replaceRanking(tx, entries); err != nil {
		return err
	}
	return tx.Commit()
}

func insertMatches(tx *sql.Tx, matches []model.MatchRecord) error {
	stmt, err := tx.Prepare(`
		INSERT INTO matches(
			seq, match_id, start_date, tier,
			team1_id, team1_name, team2_id, team2_name,
			team1_score_bo, team2_score_bo,
			winner_id, winner_name, loser_id, loser_name
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, m := range matches {
		_, err = stmt.Exec(
			i, m.MatchID, m.StartDate, m.Tier,
			m.Team1ID, m.Team1Name, m.Team2ID, m.Team2Name,
			m.Team1Score, m.Team2Score,
			m.WinnerID, m.WinnerName, m.LoserID, m.LoserName,
		)
		if err != nil {
			return fmt.Errorf("insert match %s: %w", m.MatchID, err)
		}
	}
	return nil
}

func insertMaps(tx *sql.Tx, maps []model.MapRecord) error {
	stmt, err := tx.Prepare(`
		INSERT INTO maps(
			seq, match_id, map_name, rounds, team1_name, team2_name,
			winner_name, loser_name, winner_score, loser_score
		) VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, m := range maps {
		_, err = stmt.Exec(
			i, m.MatchID, m.MapName, m.Rounds, m.Team1Name, m.Team2Name,
			m.WinnerName, m.LoserName, m.WinnerScore, m.LoserScore,
		)
		if err != nil {
			return fmt.Errorf("insert map row %d: %w", i, err)
		}
	}
	return nil
}

func replaceRanking(tx *sql.Tx, entries []model.RankingEntry) error {
	if _, err := tx.Exec("DELETE FROM rankings"); err != nil {
		return fmt.Errorf("clear rankings: %w", err)
	}
	for i, e := range entries {
		if _, err := tx.Exec("INSERT INTO rankings(seq, rank, team) VALUES (?, ?, ?)", i, e.Rank, e.Team); err != nil {
			return fmt.Errorf("insert ranking %q: %w", e.Team, err)
		}
	}
	return nil
}

// LoadMatches returns every stored match in file order.
func (db *DB) LoadMatches() ([]model.MatchRecord, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, start_date, tier,
		       team1_id, team1_name, team2_id, team2_name,
		       team1_score_bo, team2_score_bo,
		       winner_id, winner_name, loser_id, loser_name
		FROM matches ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchRecord
	for rows.Next() {
		var m model.MatchRecord
		if err := rows.Scan(
			&m.MatchID, &m.StartDate, &m.Tier,
			&m.Team1ID, &m.Team1Name, &m.Team2ID, &m.Team2Name,
			&m.Team1Score, &m.Team2Score,
			&m.WinnerID, &m.WinnerName, &m.LoserID, &m.LoserName,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// LoadMaps returns every stored map row in file order.
func (db *DB) LoadMaps() ([]model.MapRecord, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, map_name, rounds, team1_name, team2_name,
		       winner_name, loser_name, winner_score, loser_score
		FROM maps ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MapRecord
	for rows.Next() {
		var m model.MapRecord
		if err := rows.Scan(
			&m.MatchID, &m.MapName, &m.Rounds, &m.Team1Name, &m.Team2Name,
			&m.WinnerName, &m.LoserName, &m.WinnerScore, &m.LoserScore,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// LoadRanking returns the stored ranking list in file order, or nil when none is stored.
func (db *DB) LoadRanking() ([]model.RankingEntry, error) {
	rows, err := db.conn.Query("SELECT rank, team FROM rankings ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RankingEntry
	for rows.Next() {
		var e model.RankingEntry
		if err := rows.Scan(&e.Rank, &e.Team); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListMatches returns up to limit matches, newest start date first. limit <= 0 means all.
func (db *DB) ListMatches(limit int) ([]model.MatchRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.conn.Query(`
		SELECT match_id, start_date, tier, team1_name, team2_name,
		       team1_score_bo, team2_score_bo, winner_name
		FROM matches ORDER BY start_date DESC, seq LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchRecord
	for rows.Next() {
		var m model.MatchRecord
		if err := rows.Scan(&m.MatchID, &m.StartDate, &m.Tier, &m.Team1Name, &m.Team2Name,
			&m.Team1Score, &m.Team2Score, &m.WinnerName); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetOverview returns counts and the date range of stored data.
func (db *DB) GetOverview() (Overview, error) {
	var ov Overview
	err := db.conn.QueryRow(`
		SELECT
			(SELECT COUNT(1) FROM matches),
			(SELECT COUNT(1) FROM maps),
			(SELECT COUNT(1) FROM rankings),
			(SELECT COUNT(DISTINCT map_name) FROM maps WHERE map_name != ''),
			(SELECT COUNT(DISTINCT name) FROM (
				SELECT team1_name AS name FROM matches UNION SELECT team2_name FROM matches
			) WHERE name != ''),
			COALESCE((SELECT MIN(start_date) FROM matches WHERE start_date != ''), ''),
			COALESCE((SELECT MAX(start_date) FROM matches WHERE start_date != ''), '')`).
		Scan(&ov.Matches, &ov.Maps, &ov.Rankings, &ov.UniqueMaps, &ov.UniqueTeams,
			&ov.EarliestMatch, &ov.LatestMatch)
	if err != nil {
		return ov, fmt.Errorf("overview counts: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT tier, COUNT(1) FROM matches GROUP BY tier ORDER BY COUNT(1) DESC, tier`)
	if err != nil {
		return ov, fmt.Errorf("tier counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tc TierCount
		if err := rows.Scan(&tc.Tier, &tc.Matches); err != nil {
			return ov, err
		}
		ov.Tiers = append(ov.Tiers, tc)
	}
	if err := rows.Err(); err != nil {
		return ov, err
	}

	ov.LastImport, err = db.LastImport()
	return ov, err
}

// LastImport returns the most recent import record, or nil if nothing was loaded.
func (db *DB) LastImport() (*model.ImportSummary, error) {
	var s model.ImportSummary
	var at string
	err := db.conn.QueryRow(`
		SELECT id, imported_at, source, matches, maps, rankings
		FROM imports ORDER BY imported_at DESC, rowid DESC LIMIT 1`).
		Scan(&s.ID, &at, &s.Source, &s.Matches, &s.Maps, &s.Rankings)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.ImportedAt, err = time.Parse(time.RFC3339, at)
	if err != nil {
		return nil, fmt.Errorf("parse import time: %w", err)
	}
	return &s, nil
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
