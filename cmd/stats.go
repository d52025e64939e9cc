package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cs-mapstats/internal/aggregator"
	"github.com/pable/go-cs-mapstats/internal/model"
	"github.com/pable/go-cs-mapstats/internal/ranking"
	"github.com/pable/go-cs-mapstats/internal/report"
	"github.com/pable/go-cs-mapstats/internal/storage"
)

// window flags shared by stats and team.
var (
	windowDays int
	windowTier string
)

var (
	statsRanking string
	statsTop     int
	statsJSON    bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the stored matches over a trailing window",
	Long: `Compute map pick counts, series score distribution, per-map volatility and
the best map of each top team over the last N days of the stored dataset.

The window ends at the most recent match. The requested number of days is
clamped to the dataset span, with a floor of 7 days (or the span, if shorter).
Top teams come from the ranking list when one is stored or given with
--ranking; otherwise the teams with the most series in the window are used.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	addWindowFlags(statsCmd)
	statsCmd.Flags().StringVar(&statsRanking, "ranking", "", "ranking JSON path or URL (overrides the stored ranking)")
	statsCmd.Flags().IntVar(&statsTop, "top", ranking.DefaultTop, "number of teams listed when no ranking is available")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print the result as JSON")
}

func addWindowFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&windowDays, "days", "d", 30, "lookback in days (default $CSMAPSTATS_DAYS or 30)")
	cmd.Flags().StringVar(&windowTier, "tier", "S", `tier filter, "" for all tiers (default $CSMAPSTATS_TIER or S)`)
}

// windowParams returns the lookback and tier, preferring flags over config.
func windowParams(cmd *cobra.Command) (days int, tier string) {
	days, tier = cfg.LookbackDays, cfg.Tier
	if cmd.Flags().Changed("days") {
		days = windowDays
	}
	if cmd.Flags().Changed("tier") {
		tier = windowTier
	}
	return days, tier
}

func runStats(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	in, err := loadDataset(db)
	if err != nil {
		return err
	}
	if len(in.Matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'csmapstats load --matches <csv> --maps <csv>' first.")
		return nil
	}
	if statsRanking != "" {
		in.Ranking, err = readRanking(cmd.Context(), statsRanking)
		if err != nil {
			return err
		}
	}
	in.LookbackDays, in.Tier = windowParams(cmd)
	in.Top = statsTop

	res, err := analyze(in)
	if err != nil {
		return err
	}
	if statsJSON {
		return report.WriteJSON(os.Stdout, res)
	}
	report.PrintResult(os.Stdout, res)
	return nil
}

func analyze(in *aggregator.Input) (*model.Result, error) {
	res, err := aggregator.Analyze(in)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	log.Debug().
		Int("requested_days", res.Window.RequestedDays).
		Int("effective_days", res.Window.EffectiveDays).
		Bool("no_data", res.NoData).
		Int("matches", res.TotalMatches).
		Int("maps", res.TotalMaps).
		Msg("window analyzed")
	if res.TeamIDConflicts > 0 {
		log.Warn().Int("conflicts", res.TeamIDConflicts).Msg("team names seen with more than one id; first id kept")
	}
	return res, nil
}
