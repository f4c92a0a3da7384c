package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/edgard/chatlens/internal/wordcloud"
)

func newWordCloudCommand(a *app) *cobra.Command {
	var user, outPath string

	cmd := &cobra.Command{
		Use:   "wordcloud FILE",
		Short: "Render the word cloud of a chat export as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, table, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			selected, err := resolveUser(p, table, user)
			if err != nil {
				return err
			}

			layout, err := p.Analyzer.WordCloud(selected, table)
			if err != nil {
				return err
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outPath, err)
			}
			if err := wordcloud.EncodePNG(f, layout); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d words, %dx%d)\n", outPath, len(layout.Words), layout.Width, layout.Height)
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "analyze a single sender")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output PNG path")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
