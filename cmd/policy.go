package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cs-mapstats/internal/aggregator"
	"github.com/pable/go-cs-mapstats/internal/report"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Print which rows each statistic excludes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		report.PrintPolicy(os.Stdout, aggregator.Policy)
	},
}
