// commands.go
package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vinizap/notes-api/archive"
	"github.com/vinizap/notes-api/store"
)

var archiveDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply PostgreSQL schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		return store.Migrate(cfg.DatabaseURL, log)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every note to a directory as Markdown with frontmatter",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		mgr := store.NewManager(cfg.DatabaseURL, cfg.DatabaseName, log)
		s, err := mgr.Connect(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore(mgr, log)

		n, err := archive.Export(cmd.Context(), s, archiveDir, log)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported %d notes to %s\n", n, archiveDir)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Create notes from Markdown files in a directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		if cfg.AutoMigrate {
			if err := store.Migrate(cfg.DatabaseURL, log); err != nil {
				return err
			}
		}
		mgr := store.NewManager(cfg.DatabaseURL, cfg.DatabaseName, log)
		s, err := mgr.Connect(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore(mgr, log)

		n, err := archive.Import(cmd.Context(), s, archiveDir, log)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d notes from %s\n", n, archiveDir)
		return nil
	},
}

// closeStore releases the store on its own deadline so an interrupted
// command still disconnects.
func closeStore(mgr interface{ Close(context.Context) error }, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := mgr.Close(ctx); err != nil {
		log.Warn().Err(err).Msg("closing store")
	}
}

func init() {
	for _, c := range []*cobra.Command{exportCmd, importCmd} {
		c.Flags().StringVarP(&archiveDir, "dir", "d", "notes-export", "archive directory")
	}
	rootCmd.AddCommand(migrateCmd, exportCmd, importCmd)
}
