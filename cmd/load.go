package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-cs-mapstats/internal/fetch"
	"github.com/pable/go-cs-mapstats/internal/ingest"
	"github.com/pable/go-cs-mapstats/internal/model"
	"github.com/pable/go-cs-mapstats/internal/storage"
)

var (
	loadMatches string
	loadMaps    string
	loadRanking string
)

// loadCmd replaces the stored dataset with the given matches and maps tables.
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load matches and maps CSV files into the database",
	Long: `Read a matches table and a maps table (local paths or http(s) URLs, optionally
.gz or .zst compressed) and replace the stored dataset with them. An optional
ranking JSON file replaces the stored ranking; without one the previous ranking
is kept.

Examples:
  csmapstats load --matches data/matches.csv --maps data/maps.csv
  csmapstats load --matches https://example.com/matches.csv.zst \
                  --maps https://example.com/maps.csv.zst --ranking hltv.json`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadMatches, "matches", "", "matches CSV path or URL (required)")
	loadCmd.Flags().StringVar(&loadMaps, "maps", "", "maps CSV path or URL (required)")
	loadCmd.Flags().StringVar(&loadRanking, "ranking", "", "ranking JSON path or URL")
	_ = loadCmd.MarkFlagRequired("matches")
	_ = loadCmd.MarkFlagRequired("maps")
}

func runLoad(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client := fetch.NewClient(cfg.HTTPTimeout)

	log.Info().Str("matches", loadMatches).Str("maps", loadMaps).Msg("fetching dataset")
	matchData, mapData, err := client.GetPair(ctx, loadMatches, loadMaps)
	if err != nil {
		return err
	}

	rd := ingest.NewReader(log)
	matches, err := rd.ReadMatches(bytesReader(matchData))
	if err != nil {
		return fmt.Errorf("read matches: %w", err)
	}
	maps, err := rd.ReadMaps(bytesReader(mapData))
	if err != nil {
		return fmt.Errorf("read maps: %w", err)
	}

	var ranking []model.RankingEntry
	if loadRanking != "" {
		ranking, err = readRanking(ctx, loadRanking)
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	imp, err := db.ReplaceDataset(loadMatches+" + "+loadMaps, matches, maps, ranking)
	if err != nil {
		return fmt.Errorf("store dataset: %w", err)
	}
	log.Info().Str("import", imp.ID).Msg("dataset stored")

	fmt.Fprintf(os.Stdout, "Loaded %d matches, %d maps", imp.Matches, imp.Maps)
	if loadRanking != "" {
		fmt.Fprintf(os.Stdout, ", %d ranked teams", imp.Rankings)
	} else if imp.Rankings > 0 {
		fmt.Fprintf(os.Stdout, " (kept %d ranked teams)", imp.Rankings)
	}
	fmt.Fprintf(os.Stdout, "\nImport: %s\n", imp.ID)
	return nil
}

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}
