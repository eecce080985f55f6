package main

import (
	"fmt"
	"os"

	"github.com/budgetzen/zen/internal/cli"
	"github.com/budgetzen/zen/internal/ofx"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import transactions from bank statements",
	}

	cmd.AddCommand(importOFXCmd())

	return cmd
}

func importOFXCmd() *cobra.Command {
	var categoryFlag string

	cmd := &cobra.Command{
		Use:   "ofx <file>",
		Short: "Import an OFX/QFX statement",
		Long:  `Parse an OFX/QFX bank or credit card statement and record its entries as transactions. Entries matching an existing transaction's date, amount, and title are skipped.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open statement: %w", err)
			}
			defer file.Close()

			parsed, err := ofx.NewParser().ParseFile(file)
			if err != nil {
				return err
			}
			if len(parsed) == 0 {
				fmt.Println(cli.InfoStyle.Render("Statement contains no transactions."))
				return nil
			}

			category, err := resolveCategory(a.Repo, categoryFlag)
			if err != nil {
				return err
			}

			existing := make(map[string]bool)
			for _, t := range a.Repo.Transactions() {
				existing[t.Fingerprint()] = true
			}

			var imported, skipped int
			for _, t := range parsed {
				t.CategoryID = category.ID
				if existing[t.Fingerprint()] {
					skipped++
					continue
				}
				if err := a.Repo.AddTransaction(ctx, t); err != nil {
					return fmt.Errorf("failed to import %q: %w", t.Title, err)
				}
				existing[t.Fingerprint()] = true
				imported++
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d transactions (%d duplicates skipped)", imported, skipped)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&categoryFlag, "category", "c", "", "category for imported transactions")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}
