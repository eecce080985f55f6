package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/budgetzen/zen/internal/cli"
	"github.com/budgetzen/zen/internal/engine"
	"github.com/budgetzen/zen/internal/stats"
	"github.com/budgetzen/zen/internal/timeband"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Period statistics and chart series",
	}

	cmd.AddCommand(statsPeriodCmd())
	cmd.AddCommand(statsChartCmd())

	return cmd
}

func statsPeriodCmd() *cobra.Command {
	var (
		dateFlag     string
		periodFlag   string
		typeFlag     string
		categoryFlag string
	)

	cmd := &cobra.Command{
		Use:   "period",
		Short: "Totals, daily averages, and top categories for a calendar period",
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

			granularity := timeband.Granularity(periodFlag)
			if granularity != timeband.Week && granularity != timeband.Month {
				return fmt.Errorf("invalid period %q, expected week or month", periodFlag)
			}

			view, err := buildViewFilter(a, typeFlag, categoryFlag)
			if err != nil {
				return err
			}

			service := stats.New(a.Repo, nil)
			result, err := service.Period(ref, granularity, view)
			if err != nil {
				return err
			}

			settings := a.Repo.Settings()
			fmt.Println(cli.FormatTitle(fmt.Sprintf("Statistics %s – %s",
				result.Interval.Start.Format(dateLayout),
				result.Interval.End.AddDate(0, 0, -1).Format(dateLayout))))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Income\t%s %s\n", result.TotalIncome.StringFixed(2), settings.Currency)
			fmt.Fprintf(w, "Expenses\t%s %s\n", result.TotalExpenses.StringFixed(2), settings.Currency)
			fmt.Fprintf(w, "Balance\t%s %s\n", result.Balance.StringFixed(2), settings.Currency)
			fmt.Fprintf(w, "Daily avg income\t%s %s\n", result.DailyAverageIncome.StringFixed(2), settings.Currency)
			fmt.Fprintf(w, "Daily avg expenses\t%s %s\n", result.DailyAverageExpenses.StringFixed(2), settings.Currency)
			w.Flush()

			if len(result.TopCategories) > 0 {
				fmt.Println()
				fmt.Println(cli.HeaderStyle.Render("Top expense categories"))
				for i, entry := range result.TopCategories {
					fmt.Printf("  %d. %s\t%s %s\n", i+1, entry.Category.Name,
						entry.Amount.StringFixed(2), settings.Currency)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "any date inside the period (YYYY-MM-DD, default today)")
	cmd.Flags().StringVarP(&periodFlag, "period", "p", "month", "week or month")
	cmd.Flags().StringVarP(&typeFlag, "type", "t", "", "filter by type (income, expense)")
	cmd.Flags().StringVarP(&categoryFlag, "category", "c", "", "filter by category name or id")

	return cmd
}

func statsChartCmd() *cobra.Command {
	var (
		fromFlag     string
		toFlag       string
		typeFlag     string
		bucketFlag   string
		categoryFlag string
		compareFlag  bool
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Bucketed chart series for a date range",
		Long:  `Group one type's transactions in a date range into chart buckets (hour, weekday, day of month, or month), optionally compared with the immediately preceding equal-length window.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			typ, err := parseType(typeFlag)
			if err != nil {
				return err
			}

			granularity := timeband.Granularity(bucketFlag)
			if !granularity.Valid() {
				return fmt.Errorf("invalid bucket %q, expected day, week, month, or year", bucketFlag)
			}

			now := time.Now()
			rng := engine.DateRange{From: now.AddDate(0, -1, 0), To: now}
			if fromFlag != "" {
				if rng.From, err = parseDate(fromFlag); err != nil {
					return err
				}
			}
			if toFlag != "" {
				end, err := parseDate(toFlag)
				if err != nil {
					return err
				}
				rng.To = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
			}

			view, err := buildViewFilter(a, "", categoryFlag)
			if err != nil {
				return err
			}

			service := stats.New(a.Repo, nil)
			series, err := service.Chart(typ, rng, granularity, view, compareFlag)
			if err != nil {
				return err
			}

			if len(series.Points) == 0 {
				fmt.Println(cli.InfoStyle.Render("No data in range."))
				return nil
			}

			printSeries(series.Points, string(typ))
			if compareFlag {
				fmt.Println()
				printSeries(series.Previous, "previous period")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "start date (YYYY-MM-DD, default one month ago)")
	cmd.Flags().StringVar(&toFlag, "to", "", "end date (YYYY-MM-DD, inclusive, default today)")
	cmd.Flags().StringVarP(&typeFlag, "type", "t", "expense", "income or expense")
	cmd.Flags().StringVarP(&bucketFlag, "bucket", "b", "month", "bucket granularity (day, week, month, year)")
	cmd.Flags().StringVarP(&categoryFlag, "category", "c", "", "filter by category name or id")
	cmd.Flags().BoolVar(&compareFlag, "compare", false, "include the immediately preceding equal-length window")

	return cmd
}

// printSeries renders bucketed points as a simple horizontal bar chart.
func printSeries(points []stats.Point, title string) {
	fmt.Println(cli.HeaderStyle.Render(title))
	if len(points) == 0 {
		fmt.Println(cli.SubtleStyle.Render("  (empty)"))
		return
	}

	maxAmount := decimal.Zero
	for _, p := range points {
		if p.Amount.GreaterThan(maxAmount) {
			maxAmount = p.Amount
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()
	for _, p := range points {
		width := 0
		if maxAmount.IsPositive() {
			width = int(p.Amount.Div(maxAmount).Mul(decimal.NewFromInt(30)).IntPart())
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\n",
			p.Bucket.Label,
			p.Amount.StringFixed(2),
			cli.InfoStyle.Render(strings.Repeat("█", width)))
	}
}

// buildViewFilter assembles the facade-level filter from flags.
func buildViewFilter(a *app, typ, category string) (stats.ViewFilter, error) {
	filter, err := buildFilter(a, "", "", typ, category)
	if err != nil {
		return stats.ViewFilter{}, err
	}
	return stats.ViewFilter{Types: filter.Types, CategoryIDs: filter.CategoryIDs}, nil
}
