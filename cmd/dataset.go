package cmd

import (
	"context"
	"fmt"

	"github.com/pable/go-cs-mapstats/internal/aggregator"
	"github.com/pable/go-cs-mapstats/internal/fetch"
	"github.com/pable/go-cs-mapstats/internal/ingest"
	"github.com/pable/go-cs-mapstats/internal/model"
	"github.com/pable/go-cs-mapstats/internal/storage"
)

// loadDataset reads every stored row into an Input with no window applied.
func loadDataset(db *storage.DB) (*aggregator.Input, error) {
	matches, err := db.LoadMatches()
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}
	maps, err := db.LoadMaps()
	if err != nil {
		return nil, fmt.Errorf("load maps: %w", err)
	}
	ranking, err := db.LoadRanking()
	if err != nil {
		return nil, fmt.Errorf("load ranking: %w", err)
	}
	log.Debug().
		Int("matches", len(matches)).
		Int("maps", len(maps)).
		Int("ranking", len(ranking)).
		Msg("dataset loaded")
	return &aggregator.Input{Matches: matches, Maps: maps, Ranking: ranking}, nil
}

// readRanking fetches and parses a ranking file from a path or URL.
func readRanking(ctx context.Context, src string) ([]model.RankingEntry, error) {
	data, err := fetch.NewClient(cfg.HTTPTimeout).Get(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("fetch ranking: %w", err)
	}
	return ingest.NewReader(log).ReadRanking(bytesReader(data))
}
