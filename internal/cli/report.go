package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edgard/chatlens/internal/analysis"
	"github.com/edgard/chatlens/internal/report"
)

func newReportCommand(a *app) *cobra.Command {
	var (
		user      string
		asJSON    bool
		dailyDays int
	)

	cmd := &cobra.Command{
		Use:   "report FILE",
		Short: "Print the full analysis of a chat export",
		Long: `Print statistics, timelines, activity maps, busy users, common words and
emoji usage for one user or, by default, the whole chat. FILE "-" reads stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, table, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			selected, err := resolveUser(p, table, user)
			if err != nil {
				return err
			}

			rep, err := p.Analyzer.Report(cmd.Context(), selected, table, analysis.ReportOptions{})
			if err != nil {
				return fmt.Errorf("failed to build report: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}

			for i, section := range report.Sections(rep, dailyDays) {
				if i > 0 {
					fmt.Fprintln(out)
				}
				title, body, _ := strings.Cut(section, "\n")
				printHeading(out, title)
				if body != "" {
					fmt.Fprintln(out, body)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "analyze a single sender")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().IntVar(&dailyDays, "days", 0, "limit the daily timeline to the last N days (0 = all)")
	return cmd
}
