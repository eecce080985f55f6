package main

import (
	"fmt"

	"github.com/budgetzen/zen/internal/backup"
	"github.com/budgetzen/zen/internal/cli"
	"github.com/spf13/cobra"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up and restore all data as one bundle",
		Long:  `Bundle the transaction, category, budget, and settings blobs into a single document, stored locally or exported to a file.`,
	}

	cmd.AddCommand(backupSaveCmd())
	cmd.AddCommand(backupRestoreCmd())
	cmd.AddCommand(backupExportCmd())
	cmd.AddCommand(backupImportCmd())

	return cmd
}

func backupSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Save a backup to the local slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := backup.NewService(a.Store).Save(ctx); err != nil {
				return fmt.Errorf("backup failed: %w", err)
			}
			fmt.Println(cli.FormatSuccess("Backup saved"))
			return nil
		},
	}
}

func backupRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Restore the local backup",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := backup.NewService(a.Store).Restore(ctx); err != nil {
				return fmt.Errorf("restore failed: %w", err)
			}
			if err := a.Repo.Reload(ctx); err != nil {
				return fmt.Errorf("failed to reload after restore: %w", err)
			}
			fmt.Println(cli.FormatSuccess("Backup restored"))
			return nil
		},
	}
}

func backupExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Export a backup to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := backup.NewService(a.Store).Export(ctx, args[0]); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Backup written to %s", args[0])))
			return nil
		},
	}
}

func backupImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a backup from a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := backup.NewService(a.Store).Import(ctx, args[0]); err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			if err := a.Repo.Reload(ctx); err != nil {
				return fmt.Errorf("failed to reload after import: %w", err)
			}
			fmt.Println(cli.FormatSuccess("Backup imported"))
			return nil
		},
	}
}
