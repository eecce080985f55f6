package main

import (
	"fmt"

	"github.com/budgetzen/zen/internal/cli"
	"github.com/budgetzen/zen/internal/model"
	"github.com/spf13/cobra"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change user preferences",
	}

	cmd.AddCommand(settingsShowCmd())
	cmd.AddCommand(settingsSetCmd())

	return cmd
}

func settingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			settings := a.Repo.Settings()
			fmt.Printf("currency: %s\n", settings.Currency)
			fmt.Printf("theme: %s\n", settings.Theme)
			fmt.Printf("default export format: %s\n", settings.DefaultExportFormat)
			return nil
		},
	}
}

func settingsSetCmd() *cobra.Command {
	var (
		currencyFlag string
		themeFlag    string
		formatFlag   string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			settings := a.Repo.Settings()
			if currencyFlag != "" {
				settings.Currency = currencyFlag
			}
			if themeFlag != "" {
				theme := model.Theme(themeFlag)
				switch theme {
				case model.ThemeSystem, model.ThemeLight, model.ThemeDark:
					settings.Theme = theme
				default:
					return fmt.Errorf("invalid theme %q, expected system, light, or dark", themeFlag)
				}
			}
			if formatFlag != "" {
				format := model.ExportFormat(formatFlag)
				if !format.Valid() {
					return fmt.Errorf("invalid format %q, expected csv or pdf", formatFlag)
				}
				settings.DefaultExportFormat = format
			}

			if err := a.Repo.UpdateSettings(ctx, settings); err != nil {
				return fmt.Errorf("failed to save settings: %w", err)
			}
			fmt.Println(cli.FormatSuccess("Settings saved"))
			return nil
		},
	}

	cmd.Flags().StringVar(&currencyFlag, "currency", "", "display currency code")
	cmd.Flags().StringVar(&themeFlag, "theme", "", "interface theme (system, light, dark)")
	cmd.Flags().StringVar(&formatFlag, "export-format", "", "default export format (csv, pdf)")

	return cmd
}
