package cli

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/edgard/chatlens/internal/database"
)

func openStore(a *app, dbPath string) (database.Store, func(), error) {
	if dbPath == "" {
		dbPath = a.cfg.Database.Path
	}
	db, err := database.NewDB(dbPath)
	if err != nil {
		return nil, nil, err
	}
	return database.NewStore(db, a.logger), func() { database.CloseDB(db) }, nil
}

func newExportCommand(a *app) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Save the parsed records of a chat export to SQLite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, table, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}

			store, closeDB, err := openStore(a, dbPath)
			if err != nil {
				return err
			}
			defer closeDB()

			export, err := store.SaveExport(cmd.Context(), filepath.Base(args[0]), table)
			if err != nil {
				return err
			}
			if err := store.RunSQLMaintenance(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved export %s: %s messages\n", export.ID, humanize.Comma(int64(export.MessageCount)))
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default database.path)")
	return cmd
}

func newExportsCommand(a *app) *cobra.Command {
	var (
		dbPath   string
		limit    int
		deleteID string
	)

	cmd := &cobra.Command{
		Use:   "exports [ID]",
		Short: "List saved exports, or show per-sender counts of one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeDB, err := openStore(a, dbPath)
			if err != nil {
				return err
			}
			defer closeDB()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if deleteID != "" {
				if err := store.DeleteExport(ctx, deleteID); err != nil {
					return err
				}
				fmt.Fprintf(out, "Deleted export %s\n", deleteID)
				return nil
			}

			if len(args) == 1 {
				export, err := store.GetExport(ctx, args[0])
				if err != nil {
					return err
				}
				if export == nil {
					return fmt.Errorf("export %s not found", args[0])
				}
				counts, err := store.CountBySender(ctx, export.ID)
				if err != nil {
					return err
				}
				printHeading(out, fmt.Sprintf("%s (%s messages, saved %s)",
					export.SourceName, humanize.Comma(int64(export.MessageCount)), humanize.Time(export.CreatedAt)))
				for _, c := range counts {
					fmt.Fprintf(out, "%s\t%s\n", c.Sender, humanize.Comma(int64(c.Messages)))
				}
				return nil
			}

			exports, err := store.ListExports(ctx, limit)
			if err != nil {
				return err
			}
			if len(exports) == 0 {
				fmt.Fprintln(out, "No saved exports")
				return nil
			}
			for _, e := range exports {
				fmt.Fprintf(out, "%s\t%s\t%s messages\t%s\n",
					e.ID, e.SourceName, humanize.Comma(int64(e.MessageCount)), humanize.Time(e.CreatedAt))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default database.path)")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum exports to list")
	cmd.Flags().StringVar(&deleteID, "delete", "", "delete the export with this ID")
	return cmd
}
