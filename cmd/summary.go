package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-cs-mapstats/internal/storage"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display counts of stored matches, maps and ranked teams, the date range
covered, the tier breakdown and the most recent import.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.Matches == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'csmapstats load --matches <csv> --maps <csv>' first.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Matches stored : %d\n", ov.Matches)
	fmt.Fprintf(os.Stdout, "  Maps stored    : %d\n", ov.Maps)
	fmt.Fprintf(os.Stdout, "  Date range     : %s → %s\n", ov.EarliestMatch, ov.LatestMatch)
	fmt.Fprintf(os.Stdout, "  Unique maps    : %d\n", ov.UniqueMaps)
	fmt.Fprintf(os.Stdout, "  Teams seen     : %d\n", ov.UniqueTeams)
	fmt.Fprintf(os.Stdout, "  Ranked teams   : %d\n", ov.Rankings)
	if imp := ov.LastImport; imp != nil {
		fmt.Fprintf(os.Stdout, "  Last import    : %s  %s\n", imp.ImportedAt.Format("2006-01-02 15:04"), imp.ID)
		fmt.Fprintf(os.Stdout, "  Source         : %s\n", imp.Source)
	}

	if len(ov.Tiers) > 0 {
		fmt.Fprintf(os.Stdout, "\n--- Tiers ---\n\n")
		tt := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
			Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
			Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
		}))
		tt.Header("TIER", "MATCHES")
		for _, t := range ov.Tiers {
			tier := t.Tier
			if tier == "" {
				tier = "(none)"
			}
			tt.Append(tier, fmt.Sprintf("%d", t.Matches))
		}
		tt.Render()
	}
	return nil
}
