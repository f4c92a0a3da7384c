package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newUsersCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "users FILE",
		Short: "List the senders of a chat export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, table, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printHeading(out, fmt.Sprintf("%s messages (%s format, %d dropped)",
				humanize.Comma(int64(table.Len())), grammarName(table.Grammar()), table.Dropped()))

			overall := p.Analyzer.OverallLabel()
			for _, user := range p.Analyzer.UserOptions(table) {
				if user == overall {
					fmt.Fprintln(out, user)
					continue
				}
				fmt.Fprintf(out, "%s\t%s\n", user, humanize.Comma(int64(table.ForSender(user).Len())))
			}
			return nil
		},
	}
}

func grammarName(name string) string {
	if name == "" {
		return "unknown"
	}
	return name
}
