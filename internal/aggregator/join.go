package aggregator

import (
	"strings"

	"github.com/pable/go-cs-mapstats/internal/model"
)

// JoinedMap is a map row with a back-reference to its parent match.
type JoinedMap struct {
	model.MapRecord
	Match *model.MatchRecord
}

// Index maps match identifiers to the window's match records. When an identifier
// repeats, the first record wins.
type Index map[string]*model.MatchRecord

// BuildIndex indexes matches by identifier. The returned pointers alias the slice.
func BuildIndex(matches []model.MatchRecord) Index {
	idx := make(Index, len(matches))
	for i := range matches {
		id := strings.TrimSpace(matches[i].MatchID)
		if _, dup := idx[id]; dup {
			continue
		}
		idx[id] = &matches[i]
	}
	return idx
}

// Join attaches each usable map row to its parent match, in input order. Rows
// without a parent in idx are dropped.
func Join(idx Index, maps []model.MapRecord) []JoinedMap {
	out := make([]JoinedMap, 0, len(maps))
	for i := range maps {
		m := &maps[i]
		if !usableMap(m) {
			continue
		}
		parent, ok := idx[strings.TrimSpace(m.MatchID)]
		if !ok {
			continue
		}
		out = append(out, JoinedMap{MapRecord: *m, Match: parent})
	}
	return out
}
