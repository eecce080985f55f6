package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/budgetzen/zen/internal/cli"
	"github.com/budgetzen/zen/internal/engine"
	"github.com/budgetzen/zen/internal/model"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "Manage transactions",
		Long:    `Add, list, update, and delete income and expense transactions.`,
	}

	cmd.AddCommand(addTransactionCmd())
	cmd.AddCommand(listTransactionsCmd())
	cmd.AddCommand(removeTransactionCmd())

	return cmd
}

func addTransactionCmd() *cobra.Command {
	var (
		dateFlag      string
		typeFlag      string
		categoryFlag  string
		noteFlag      string
		recurringFlag string
	)

	cmd := &cobra.Command{
		Use:   "add <title> <amount>",
		Short: "Record a transaction",
		Long:  `Record an income or expense transaction. Amounts are unsigned; --type carries the sign.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			typ, err := parseType(typeFlag)
			if err != nil {
				return err
			}

			date := time.Now()
			if dateFlag != "" {
				if date, err = parseDate(dateFlag); err != nil {
					return err
				}
			}

			category, err := resolveCategory(a.Repo, categoryFlag)
			if err != nil {
				return err
			}

			t, err := model.NewTransaction(amount, args[0], date, typ, category.ID)
			if err != nil {
				return err
			}
			t.Note = noteFlag

			if recurringFlag != "" {
				interval := model.RecurringInterval(recurringFlag)
				if t, err = t.WithRecurring(interval); err != nil {
					return err
				}
			}

			if err := a.Repo.AddTransaction(ctx, t); err != nil {
				return fmt.Errorf("failed to add transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %s %s (%s)",
				args[0], formatAmount(amount, typ, a.Repo.Settings()), category.Name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVarP(&typeFlag, "type", "t", "expense", "income or expense")
	cmd.Flags().StringVarP(&categoryFlag, "category", "c", "", "category name or id")
	cmd.Flags().StringVar(&noteFlag, "note", "", "free-form note")
	cmd.Flags().StringVar(&recurringFlag, "recurring", "", "recurring interval (daily, weekly, monthly, yearly)")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func listTransactionsCmd() *cobra.Command {
	var (
		fromFlag     string
		toFlag       string
		typeFlag     string
		categoryFlag string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Long:  `List transactions, optionally filtered by date range, type, and category. Bounds are inclusive.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			filter, err := buildFilter(a, fromFlag, toFlag, typeFlag, categoryFlag)
			if err != nil {
				return err
			}

			matched := engine.Query(a.Repo.Transactions(), filter)
			if len(matched) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions found."))
				return nil
			}

			settings := a.Repo.Settings()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Date"),
				cli.HeaderStyle.Render("Title"),
				cli.HeaderStyle.Render("Category"),
				cli.HeaderStyle.Render("Amount"),
				cli.HeaderStyle.Render("Recurring"),
				cli.HeaderStyle.Render("ID"))

			for _, t := range matched {
				recurring := ""
				if t.IsRecurring {
					recurring = string(t.RecurringInterval)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					t.Date.Format(dateLayout),
					t.Title,
					categoryName(a.Repo, t.CategoryID),
					formatAmount(t.Amount, t.Type, settings),
					recurring,
					cli.SubtleStyle.Render(t.ID.String()))
			}

			totals := engine.SumByType(matched)
			fmt.Fprintf(w, "\n%s\t\t\t%s\n",
				cli.HeaderStyle.Render("Balance"),
				totals.Balance().StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&toFlag, "to", "", "end date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVarP(&typeFlag, "type", "t", "", "filter by type (income, expense)")
	cmd.Flags().StringVarP(&categoryFlag, "category", "c", "", "filter by category name or id")

	return cmd
}

func removeTransactionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid transaction id %q: %w", args[0], err)
			}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Repo.RemoveTransaction(ctx, id); err != nil {
				return fmt.Errorf("failed to remove transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Transaction removed"))
			return nil
		},
	}
}

// buildFilter assembles an engine filter from the shared flag set. User
// ranges are inclusive on both ends.
func buildFilter(a *app, from, to, typ, category string) (engine.Filter, error) {
	var filter engine.Filter

	if from != "" || to != "" {
		rng := engine.DateRange{
			From: time.Time{},
			To:   time.Date(9999, time.December, 31, 23, 59, 59, 0, time.Local),
		}
		if from != "" {
			start, err := parseDate(from)
			if err != nil {
				return engine.Filter{}, err
			}
			rng.From = start
		}
		if to != "" {
			end, err := parseDate(to)
			if err != nil {
				return engine.Filter{}, err
			}
			// Inclusive of the whole end day.
			rng.To = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		filter.Range = &rng
	}

	if typ != "" {
		parsed, err := parseType(typ)
		if err != nil {
			return engine.Filter{}, err
		}
		filter.Types = map[model.TransactionType]bool{parsed: true}
	}

	if category != "" {
		cat, err := resolveCategory(a.Repo, category)
		if err != nil {
			return engine.Filter{}, err
		}
		filter.CategoryIDs = map[uuid.UUID]bool{cat.ID: true}
	}

	return filter, nil
}
