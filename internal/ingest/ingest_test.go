package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newTestReader() *Reader { return NewReader(zerolog.Nop()) }

const matchesCSV = `match_id,start_date,tier,team1_id,team1_name,team2_id,team2_name,team1_score_bo,team2_score_bo,winner_id,winner_name,loser_id,loser_name
101,2025-03-01 18:00:00,S,1,Vitality,2,Spirit,2,1,1,Vitality,2,Spirit
102,2025-03-02,S,3,MOUZ,1,Vitality,0,2,1,Vitality,3,MOUZ
,,,,,,,,,,,,
103,bad-date,A,4,FaZe,5,NAVI,W,-,4,FaZe,5,NAVI
`

func TestReadMatches(t *testing.T) {
	rows, err := newTestReader().ReadMatches(strings.NewReader(matchesCSV))
	if err != nil {
		t.Fatalf("ReadMatches: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows (blank skipped), got %d", len(rows))
	}
	m := rows[0]
	if m.MatchID != "101" || m.Team1Name != "Vitality" || m.Team2ID != "2" || m.WinnerID != "1" {
		t.Errorf("row 0 mismatch: %+v", m)
	}
	if !m.Team1Score.Valid || m.Team1Score.N != 2 || m.Team2Score.N != 1 {
		t.Errorf("series scores: %+v %+v", m.Team1Score, m.Team2Score)
	}
	bad := rows[2]
	if bad.StartDate != "bad-date" {
		t.Errorf("dates are kept verbatim, got %q", bad.StartDate)
	}
	if bad.Team1Score.Valid || bad.Team2Score.Valid {
		t.Error("non-numeric series scores should be invalid")
	}
}

func TestReadMatches_Aliases(t *testing.T) {
	in := "ID,Date,Team1,Team2,Team1_Score,Team2_Score,Winner\n" +
		"7,2025-01-01,A,B,2,0,A\n"
	rows, err := newTestReader().ReadMatches(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadMatches: %v", err)
	}
	if len(rows) != 1 || rows[0].MatchID != "7" || rows[0].Team2Name != "B" || rows[0].WinnerName != "A" {
		t.Errorf("alias mapping failed: %+v", rows)
	}
	if rows[0].Tier != "" || rows[0].WinnerID != "" {
		t.Error("absent optional columns should be empty")
	}
}

func TestReadMatches_MissingColumn(t *testing.T) {
	_, err := newTestReader().ReadMatches(strings.NewReader("match_id,team1_name\n1,A\n"))
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("want ErrMissingColumn, got %v", err)
	}
	if !strings.Contains(err.Error(), "start_date") || !strings.Contains(err.Error(), "team2_name") {
		t.Errorf("error should name the missing columns: %v", err)
	}
}

func TestReadMatches_Empty(t *testing.T) {
	if _, err := newTestReader().ReadMatches(strings.NewReader("")); err == nil {
		t.Error("expected error for empty file")
	}
}

func TestReadMaps(t *testing.T) {
	in := "\ufeffmatch_id,map_name,rounds,team1_name,team2_name,winner_name,loser_name,winner_score,loser_score\n" +
		"101,Mirage,24,Vitality,Spirit,Vitality,Spirit,13,11\n" +
		"101,Nuke,30,Vitality,Spirit,Spirit,Vitality,16,14\n" +
		"101,,,Vitality,Spirit,Vitality,Spirit,,\n" +
		"102,Inferno\n"
	rows, err := newTestReader().ReadMaps(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadMaps: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[0].MapName != "Mirage" || rows[0].WinnerScore.N != 13 || rows[0].LoserScore.N != 11 || rows[0].Rounds.N != 24 {
		t.Errorf("row 0 mismatch: %+v", rows[0])
	}
	if rows[2].MapName != "" || rows[2].WinnerScore.Valid {
		t.Errorf("row 2 should carry the gaps through: %+v", rows[2])
	}
	if rows[3].MapName != "Inferno" || rows[3].WinnerName != "" {
		t.Errorf("short row should fill missing cells with empty text: %+v", rows[3])
	}
}

func TestReadRanking(t *testing.T) {
	arr := `[{"rank": 1, "team": "Vitality"}, {"rank": 2, "team": " Spirit "}, {"team": ""}, {"team": "MOUZ"}]`
	got, err := newTestReader().ReadRanking(strings.NewReader(arr))
	if err != nil {
		t.Fatalf("ReadRanking array: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("want 3 entries, got %+v", got)
	}
	if got[1].Team != "Spirit" || got[2].Rank != 4 {
		t.Errorf("unexpected entries: %+v", got)
	}

	obj := `{"teams": [{"rank": 3, "team": "FaZe"}]}`
	got, err = newTestReader().ReadRanking(strings.NewReader(obj))
	if err != nil {
		t.Fatalf("ReadRanking object: %v", err)
	}
	if len(got) != 1 || got[0].Rank != 3 || got[0].Team != "FaZe" {
		t.Errorf("unexpected entries: %+v", got)
	}

	if _, err := newTestReader().ReadRanking(strings.NewReader("not json")); err == nil {
		t.Error("expected decode error")
	}
}
