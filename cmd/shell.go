package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-cs-mapstats/internal/aggregator"
	"github.com/pable/go-cs-mapstats/internal/report"
	"github.com/pable/go-cs-mapstats/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long: `Load the stored dataset once and explore it interactively. Every window
change recomputes all statistics from the full dataset. Type 'help' for
available commands.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	addWindowFlags(shellCmd)
}

func runShell(cmd *cobra.Command, _ []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	in, err := loadDataset(db)
	db.Close()
	if err != nil {
		return err
	}

	s := &session{data: in, out: os.Stdout, errOut: os.Stderr}
	s.days, s.tier = windowParams(cmd)

	cGreeting.Println("csmapstats shell")
	cMuted.Printf("%d matches, %d maps loaded; type 'help' or 'exit'\n\n", len(in.Matches), len(in.Maps))
	s.run(os.Stdin)
	return nil
}

// session is one REPL run over an in-memory dataset.
type session struct {
	data *aggregator.Input // full dataset, never filtered in place
	days int
	tier string

	out    io.Writer
	errOut io.Writer
}

func (s *session) run(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for {
		cPrompt.Fprint(s.out, "csmapstats")
		cMuted.Fprintf(s.out, "[%dd]> ", s.days)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return
		}
		if !s.exec(scanner.Text()) {
			return
		}
	}
}

// exec runs one input line and reports whether the session continues.
func (s *session) exec(line string) bool {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return true
	}
	cmd, args := tokens[0], tokens[1:]

	switch cmd {
	case "exit", "quit":
		return false
	case "help":
		s.help()
	case "days":
		if len(args) == 0 {
			fmt.Fprintf(s.out, "lookback: %d days\n", s.days)
			return true
		}
		n, ok := parseDays(args[0])
		if !ok {
			cError.Fprintln(s.errOut, "usage: days [n]  (n > 0)")
			return true
		}
		s.days = n
		fmt.Fprintf(s.out, "lookback set to %d days\n", n)
	case "stats":
		days := s.days
		if len(args) > 0 {
			n, ok := parseDays(args[0])
			if !ok {
				cError.Fprintln(s.errOut, "usage: stats [days]")
				return true
			}
			days = n
		}
		s.stats(days)
	case "team":
		if len(args) == 0 {
			cError.Fprintln(s.errOut, "usage: team <name> [days]")
			return true
		}
		days := s.days
		if len(args) > 1 {
			if n, ok := parseDays(args[len(args)-1]); ok {
				days = n
				args = args[:len(args)-1]
			}
		}
		s.team(strings.Join(args, " "), days)
	default:
		cWarn.Fprintf(s.errOut, "unknown command %q, type 'help'\n", cmd)
	}
	return true
}

func (s *session) help() {
	fmt.Fprintln(s.out)
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"stats [days]", "all statistics for the window"},
		{"team <name> [days]", "one team's series record and map breakdown"},
		{"days [n]", "show or set the default lookback"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Fprint(s.out, "  ")
		cCmd.Fprintf(s.out, "%-24s", r.cmd)
		fmt.Fprintln(s.out, r.desc)
	}
	fmt.Fprintln(s.out)
}

func (s *session) stats(days int) {
	in := *s.data
	in.LookbackDays, in.Tier = days, s.tier
	res, err := analyze(&in)
	if err != nil {
		cError.Fprintf(s.errOut, "error: %v\n", err)
		return
	}
	report.PrintResult(s.out, res)
}

func (s *session) team(name string, days int) {
	in := *s.data
	in.LookbackDays, in.Tier = days, s.tier
	res, err := analyze(&in)
	if err != nil {
		cError.Fprintf(s.errOut, "error: %v\n", err)
		return
	}
	report.PrintWindow(s.out, res.Window)
	if res.NoData {
		cMuted.Fprintln(s.out, report.NoDataMessage)
		return
	}
	t := res.Team(name)
	if t == nil {
		cWarn.Fprintf(s.out, "No maps played by %q in this window.\n", name)
		return
	}
	report.PrintTeamDetail(s.out, t)
}

func parseDays(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil && n > 0
}
