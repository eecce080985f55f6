package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/budgetzen/zen/internal/cli"
	"github.com/budgetzen/zen/internal/model"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
		Long:  `List, add, update, and delete the categories transactions are assigned to.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(updateCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			categories := a.Repo.Categories()
			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories found."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Type"),
				cli.HeaderStyle.Render("Order"),
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Color"),
				cli.HeaderStyle.Render("Default"),
				cli.HeaderStyle.Render("ID"))

			for _, cat := range categories {
				isDefault := ""
				if cat.IsDefault {
					isDefault = cli.SuccessIcon
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
					cat.Type, cat.Order, cat.Name, cat.Color, isDefault,
					cli.SubtleStyle.Render(cat.ID.String()))
			}
			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var (
		typeFlag  string
		iconFlag  string
		colorFlag string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Long:  `Create a new category. Names are unique, ignoring case.`,
		Args:  cobra.ExactArgs(1),
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

			order := model.NextOrder(a.Repo.Categories(), typ)
			cat, err := model.NewCategory(args[0], iconFlag, colorFlag, typ, order)
			if err != nil {
				return err
			}

			if err := a.Repo.AddCategory(ctx, cat); err != nil {
				return fmt.Errorf("failed to add category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created category %q (%s)", cat.Name, cat.Type)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeFlag, "type", "t", "expense", "income or expense")
	cmd.Flags().StringVar(&iconFlag, "icon", "tag.fill", "icon symbol name")
	cmd.Flags().StringVar(&colorFlag, "color", "#3498DB", "display color (#RRGGBB)")

	return cmd
}

func updateCategoryCmd() *cobra.Command {
	var (
		nameFlag  string
		iconFlag  string
		colorFlag string
		orderFlag int
	)

	cmd := &cobra.Command{
		Use:   "update <name-or-id>",
		Short: "Update a category",
		Long:  `Replace a category's display fields. The record is replaced whole; the id never changes.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			cat, err := resolveCategory(a.Repo, args[0])
			if err != nil {
				return err
			}

			if nameFlag != "" {
				cat.Name = nameFlag
			}
			if iconFlag != "" {
				cat.Icon = iconFlag
			}
			if colorFlag != "" {
				cat.Color = colorFlag
			}
			if cmd.Flags().Changed("order") {
				cat.Order = orderFlag
			}

			if err := a.Repo.UpdateCategory(ctx, cat); err != nil {
				return fmt.Errorf("failed to update category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated category %q", cat.Name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&nameFlag, "name", "", "new name")
	cmd.Flags().StringVar(&iconFlag, "icon", "", "new icon symbol name")
	cmd.Flags().StringVar(&colorFlag, "color", "", "new display color (#RRGGBB)")
	cmd.Flags().IntVar(&orderFlag, "order", 0, "new display order within the type")

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name-or-id>",
		Short: "Delete a category",
		Long:  `Delete a category. Budgets referencing it are deleted too; its transactions keep their record and show as unknown category.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			cat, err := resolveCategory(a.Repo, args[0])
			if err != nil {
				return err
			}

			if err := a.Repo.RemoveCategory(ctx, cat.ID); err != nil {
				return fmt.Errorf("failed to delete category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted category %q and its budgets", cat.Name)))
			return nil
		},
	}
}
