package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/budgetzen/zen/internal/cli"
	"github.com/budgetzen/zen/internal/stats"
	"github.com/budgetzen/zen/internal/timeband"
	"github.com/spf13/cobra"
)

func calendarCmd() *cobra.Command {
	var (
		dateFlag     string
		viewFlag     string
		typeFlag     string
		categoryFlag string
	)

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Per-day totals for a calendar week or month",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			ref := time.Now()
			if dateFlag != "" {
				if ref, err = parseDate(dateFlag); err != nil {
					return err
				}
			}

			granularity := timeband.Granularity(viewFlag)
			if granularity != timeband.Week && granularity != timeband.Month {
				return fmt.Errorf("invalid view %q, expected week or month", viewFlag)
			}

			view, err := buildViewFilter(a, typeFlag, categoryFlag)
			if err != nil {
				return err
			}

			service := stats.New(a.Repo, nil)
			days, err := service.CalendarDays(ref, granularity, view)
			if err != nil {
				return err
			}
			if len(days) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions in this period."))
				return nil
			}

			ordered := make([]time.Time, 0, len(days))
			for day := range days {
				ordered = append(ordered, day)
			}
			sort.Slice(ordered, func(i, j int) bool { return ordered[i].Before(ordered[j]) })

			settings := a.Repo.Settings()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Day"),
				cli.HeaderStyle.Render("Income"),
				cli.HeaderStyle.Render("Expenses"),
				cli.HeaderStyle.Render("Total"))

			for _, day := range ordered {
				totals := days[day]
				fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\n",
					day.Format(dateLayout),
					totals.Income.StringFixed(2),
					totals.Expenses.StringFixed(2),
					totals.Total().StringFixed(2), settings.Currency)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "any date inside the period (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&viewFlag, "view", "month", "week or month")
	cmd.Flags().StringVarP(&typeFlag, "type", "t", "", "filter by type (income, expense)")
	cmd.Flags().StringVarP(&categoryFlag, "category", "c", "", "filter by category name or id")

	return cmd
}
