// Package cli implements the chatlens command tree.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/edgard/chatlens/internal/chatexport"
	"github.com/edgard/chatlens/internal/config"
	"github.com/edgard/chatlens/internal/logger"
	"github.com/edgard/chatlens/internal/pipeline"
)

const cliSource = "cli"

// app carries what PersistentPreRunE loads for the subcommands.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "chatlens",
		Short: "Analyze exported chat histories",
		Long: `chatlens parses plain-text chat exports and reports message statistics,
timelines, activity maps, common words, emoji usage and word clouds.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger.NewLogger(cfg.Log.Level, cfg.Log.JSON, cmd.ErrOrStderr())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultConfigPath, "path to configuration file")

	root.AddCommand(
		newReportCommand(a),
		newUsersCommand(a),
		newWordCloudCommand(a),
		newExportCommand(a),
		newExportsCommand(a),
		newServeCommand(a),
	)
	return root
}

// load parses the export at path; "-" reads stdin.
func (a *app) load(cmd *cobra.Command, path string) (*pipeline.Pipeline, *chatexport.Table, error) {
	p, err := pipeline.New(a.cfg, 0, a.logger)
	if err != nil {
		return nil, nil, err
	}

	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open chat export: %w", err)
		}
		defer f.Close()
		r = f
	}

	table, err := p.Parse(r, cliSource)
	if err != nil {
		return nil, nil, err
	}
	return p, table, nil
}

// resolveUser defaults to the overall label and rejects unknown names.
func resolveUser(p *pipeline.Pipeline, table *chatexport.Table, user string) (string, error) {
	if user == "" {
		return p.Analyzer.OverallLabel(), nil
	}
	if !p.Analyzer.HasUser(user, table) {
		return "", fmt.Errorf("unknown user %q; run 'chatlens users' to list them", user)
	}
	return user, nil
}

var heading = color.New(color.FgCyan, color.Bold)

func printHeading(w io.Writer, text string) {
	_, _ = heading.Fprintln(w, text)
}
