package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-cs-mapstats/internal/report"
	"github.com/pable/go-cs-mapstats/internal/storage"
)

var teamCmd = &cobra.Command{
	Use:   "team <name>",
	Short: "Show one team's series record and map breakdown",
	Long: `Show how many series a team played and won in the window, and its played/won
count on every map. The marked row is the team's best map.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTeam,
}

func init() {
	addWindowFlags(teamCmd)
}

func runTeam(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	in, err := loadDataset(db)
	if err != nil {
		return err
	}
	in.LookbackDays, in.Tier = windowParams(cmd)

	res, err := analyze(in)
	if err != nil {
		return err
	}
	report.PrintWindow(os.Stdout, res.Window)
	if res.NoData {
		fmt.Fprintln(os.Stdout, report.NoDataMessage)
		return nil
	}
	t := res.Team(name)
	if t == nil {
		fmt.Fprintf(os.Stdout, "No maps played by %q in this window.\n", name)
		return nil
	}
	report.PrintTeamDetail(os.Stdout, t)
	return nil
}
