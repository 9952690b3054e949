package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/formpost/packages/history"
)

var (
	historyDBFlag    string
	historyLimitFlag int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded submissions",
	Long: `List submissions recorded with send --history, most recent first.

Examples:
  formpost history --db submissions.db
  formpost history --db submissions.db --limit 5`,
	Args: cobra.NoArgs,
	RunE: historyCommand,
}

func init() {
	historyCmd.Flags().StringVar(&historyDBFlag, "db", getEnvString("FORMPOST_HISTORY", ""), "History database (env: FORMPOST_HISTORY)")
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", 20, "Maximum number of entries, 0 for all")
}

func historyCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.GetNoColor() {
		color.NoColor = true
	}

	path := historyDBFlag
	if path == "" {
		path = cfg.History
	}
	if path == "" {
		return usageErrorf("no history database: use --db or set \"history\" in the config file")
	}

	store, err := history.Open(path)
	if err != nil {
		return exitWith(ExitConfigError, err)
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), historyLimitFlag)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No submissions recorded.")
		return nil
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	for _, e := range entries {
		mode := "urlencoded"
		if e.Multipart {
			mode = "multipart"
		}

		status := red("---")
		if e.Status > 0 {
			status = fmt.Sprintf("%d", e.Status)
			if e.Status >= 200 && e.Status < 300 {
				status = green(status)
			} else {
				status = red(status)
			}
		}

		fmt.Fprintf(out, "%s  %s  %-10s %8dB %6dms  %s\n",
			e.CreatedAt.Local().Format(time.DateTime), status, mode, e.Bytes, e.Duration.Milliseconds(), e.URL)
		if e.Skipped > 0 {
			fmt.Fprintf(out, "    %d attachment(s) skipped\n", e.Skipped)
		}
		if e.Error != "" {
			fmt.Fprintf(out, "    %s\n", red(e.Error))
		}
	}
	return nil
}
