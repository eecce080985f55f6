package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/budgetzen/zen/internal/cli"
	"github.com/budgetzen/zen/internal/stats"
	"github.com/spf13/cobra"
)

func dashboardCmd() *cobra.Command {
	var periodFlag string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Balance, period totals, budget progress, and recent activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			period := stats.DashboardPeriod(periodFlag)
			switch period {
			case stats.DashboardWeek, stats.DashboardMonth, stats.DashboardYear:
			default:
				return fmt.Errorf("invalid period %q, expected week, month, or year", periodFlag)
			}

			service := stats.New(a.Repo, nil)
			dashboard := service.Dashboard(period, 5)
			settings := a.Repo.Settings()

			fmt.Println(cli.FormatTitle("Dashboard"))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Balance\t%s %s\n", dashboard.Balance.StringFixed(2), settings.Currency)
			fmt.Fprintf(w, "Income (last %s)\t%s %s\n", period, dashboard.PeriodIncome.StringFixed(2), settings.Currency)
			fmt.Fprintf(w, "Expenses (last %s)\t%s %s\n", period, dashboard.PeriodExpenses.StringFixed(2), settings.Currency)
			w.Flush()

			if len(dashboard.Budgets) > 0 {
				fmt.Println()
				fmt.Println(cli.HeaderStyle.Render("Budgets"))
				for _, row := range dashboard.Budgets {
					progress := row.Progress.Percentage.StringFixed(0) + "%"
					if row.Progress.NoLimit {
						progress = "no limit set"
					}
					fmt.Printf("  %s: %s / %s (%s)\n", row.Category.Name,
						row.Spent.StringFixed(2), row.Budget.Limit.StringFixed(2), progress)
				}
			}

			if len(dashboard.Recent) > 0 {
				fmt.Println()
				fmt.Println(cli.HeaderStyle.Render("Recent transactions"))
				for _, t := range dashboard.Recent {
					fmt.Printf("  %s  %-24s %s\n", t.Date.Format(dateLayout), t.Title,
						formatAmount(t.Amount, t.Type, settings))
				}
			}

			if len(dashboard.Subscriptions) > 0 {
				fmt.Println()
				fmt.Println(cli.HeaderStyle.Render("Active subscriptions"))
				for _, t := range dashboard.Subscriptions {
					fmt.Printf("  %-24s %s (%s)\n", t.Title,
						formatAmount(t.Amount, t.Type, settings), t.RecurringInterval)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&periodFlag, "period", "p", "month", "rolling period (week, month, year)")

	return cmd
}
