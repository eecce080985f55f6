package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/budgetzen/zen/internal/cli"
	"github.com/budgetzen/zen/internal/model"
	"github.com/budgetzen/zen/internal/stats"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func budgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Manage per-category budgets",
		Long:  `Set spending limits per category and calendar period, and review progress against them.`,
	}

	cmd.AddCommand(listBudgetsCmd())
	cmd.AddCommand(setBudgetCmd())
	cmd.AddCommand(deleteBudgetCmd())

	return cmd
}

func listBudgetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List budgets with current progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			service := stats.New(a.Repo, nil)
			dashboard := service.Dashboard(stats.DashboardMonth, 0)
			if len(dashboard.Budgets) == 0 {
				fmt.Println(cli.InfoStyle.Render("No budgets configured. Use 'zen budgets set' to create one."))
				return nil
			}

			settings := a.Repo.Settings()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Category"),
				cli.HeaderStyle.Render("Period"),
				cli.HeaderStyle.Render("Limit"),
				cli.HeaderStyle.Render("Spent"),
				cli.HeaderStyle.Render("Remaining"),
				cli.HeaderStyle.Render("Progress"),
				cli.HeaderStyle.Render("ID"))

			for _, row := range dashboard.Budgets {
				progress := row.Progress.Percentage.StringFixed(1) + "%"
				if row.Progress.NoLimit {
					progress = cli.SubtleStyle.Render("no limit set")
				} else if row.Progress.Percentage.IntPart() >= 100 {
					progress = cli.ErrorStyle.Render(progress)
				}
				fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\t%s\t%s\t%s\n",
					row.Category.Name,
					row.Budget.Period,
					row.Budget.Limit.StringFixed(2), settings.Currency,
					row.Spent.StringFixed(2),
					row.Progress.Remaining.StringFixed(2),
					progress,
					cli.SubtleStyle.Render(row.Budget.ID.String()))
			}
			return nil
		},
	}
}

func setBudgetCmd() *cobra.Command {
	var periodFlag string

	cmd := &cobra.Command{
		Use:   "set <category> <limit>",
		Short: "Create or replace a category's budget",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			category, err := resolveCategory(a.Repo, args[0])
			if err != nil {
				return err
			}

			limit, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			period := model.BudgetPeriod(periodFlag)
			if !period.Valid() {
				return fmt.Errorf("invalid period %q, expected week, month, or year", periodFlag)
			}

			// One budget per category: replace in place when one exists.
			for _, existing := range a.Repo.Budgets() {
				if existing.CategoryID == category.ID {
					existing.Limit = limit
					existing.Period = period
					if err := a.Repo.UpdateBudget(ctx, existing); err != nil {
						return fmt.Errorf("failed to update budget: %w", err)
					}
					fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated budget for %q: %s per %s",
						category.Name, limit.StringFixed(2), period)))
					return nil
				}
			}

			budget, err := model.NewBudget(category.ID, limit, period)
			if err != nil {
				return err
			}
			if err := a.Repo.AddBudget(ctx, budget); err != nil {
				return fmt.Errorf("failed to add budget: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Budget for %q: %s per %s",
				category.Name, limit.StringFixed(2), period)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&periodFlag, "period", "p", "month", "budget period (week, month, year)")

	return cmd
}

func deleteBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id-or-category>",
		Short: "Delete a budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if id, err := uuid.Parse(args[0]); err == nil {
				for _, b := range a.Repo.Budgets() {
					if b.ID == id {
						if err := a.Repo.RemoveBudget(ctx, id); err != nil {
							return fmt.Errorf("failed to delete budget: %w", err)
						}
						fmt.Println(cli.FormatSuccess("Budget deleted"))
						return nil
					}
				}
			}

			category, err := resolveCategory(a.Repo, args[0])
			if err != nil {
				return err
			}
			for _, b := range a.Repo.Budgets() {
				if b.CategoryID == category.ID {
					if err := a.Repo.RemoveBudget(ctx, b.ID); err != nil {
						return fmt.Errorf("failed to delete budget: %w", err)
					}
					fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted budget for %q", category.Name)))
					return nil
				}
			}
			return fmt.Errorf("no budget found for %q", args[0])
		},
	}
}
