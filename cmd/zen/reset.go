package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/budgetzen/zen/internal/cli"
	"github.com/spf13/cobra"
)

func resetCmd() *cobra.Command {
	var forceFlag bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all data and reseed default categories",
		Long:  `Clear every transaction, budget, and category, then recreate the default category set. This cannot be undone unless a backup exists.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if !forceFlag {
				fmt.Print(cli.FormatWarning("This deletes all data. Type 'reset' to confirm: "))
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read confirmation: %w", err)
				}
				if strings.TrimSpace(line) != "reset" {
					fmt.Println(cli.InfoStyle.Render("Aborted."))
					return nil
				}
			}

			if err := a.Repo.ResetAll(ctx); err != nil {
				return fmt.Errorf("reset failed: %w", err)
			}

			fmt.Println(cli.FormatSuccess("All data deleted, default categories restored"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&forceFlag, "force", false, "skip the confirmation prompt")

	return cmd
}
