package main

import (
	"fmt"
	"os"

	"github.com/budgetzen/zen/internal/cli"
	"github.com/budgetzen/zen/internal/engine"
	"github.com/budgetzen/zen/internal/export"
	"github.com/budgetzen/zen/internal/model"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var (
		fromFlag     string
		toFlag       string
		typeFlag     string
		categoryFlag string
		formatFlag   string
		outFlag      string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export filtered transactions",
		Long:  `Render the transactions matching the given filters in the selected format. Without --out the result is written to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			format := model.ExportFormat(formatFlag)
			if formatFlag == "" {
				format = a.Repo.Settings().DefaultExportFormat
			}
			if !format.Valid() {
				return fmt.Errorf("invalid format %q, expected csv or pdf", formatFlag)
			}

			filter, err := buildFilter(a, fromFlag, toFlag, typeFlag, categoryFlag)
			if err != nil {
				return err
			}

			out := os.Stdout
			if outFlag != "" {
				file, err := os.Create(outFlag)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer file.Close()
				out = file
			}

			lookup := engine.CategoryLookup(a.Repo.Categories())
			if err := export.Filtered(out, format, a.Repo.Transactions(), filter, lookup); err != nil {
				return err
			}

			if outFlag != "" {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported to %s", outFlag)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&toFlag, "to", "", "end date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVarP(&typeFlag, "type", "t", "", "filter by type (income, expense)")
	cmd.Flags().StringVarP(&categoryFlag, "category", "c", "", "filter by category name or id")
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "export format (csv, pdf; default from settings)")
	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "output file (default stdout)")

	return cmd
}
