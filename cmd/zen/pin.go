package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/budgetzen/zen/internal/auth"
	"github.com/budgetzen/zen/internal/cli"
	"github.com/spf13/cobra"
)

func pinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pin",
		Short: "Manage the PIN lock",
		Long:  `Protect the tracker's data with a PIN. When a PIN is set, every data command asks for it first.`,
	}

	cmd.AddCommand(pinSetCmd())
	cmd.AddCommand(pinClearCmd())

	return cmd
}

func pinSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set",
		Short: "Set or change the PIN",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			authenticator, err := auth.NewPINAuthenticator(ctx, store)
			if err != nil {
				return err
			}

			// Changing a PIN requires knowing the current one.
			if authenticator.Required() {
				if err := promptPIN(authenticator); err != nil {
					return err
				}
			}

			reader := bufio.NewReader(os.Stdin)
			fmt.Print("New PIN: ")
			first, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read PIN: %w", err)
			}
			fmt.Print("Repeat PIN: ")
			second, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read PIN: %w", err)
			}

			if strings.TrimSpace(first) != strings.TrimSpace(second) {
				return fmt.Errorf("PINs do not match")
			}

			if err := authenticator.SetPIN(ctx, strings.TrimSpace(first)); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("PIN set"))
			return nil
		},
	}
}

func pinClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the PIN lock",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			authenticator, err := auth.NewPINAuthenticator(ctx, store)
			if err != nil {
				return err
			}

			if authenticator.Required() {
				if err := promptPIN(authenticator); err != nil {
					return err
				}
			}

			if err := authenticator.ClearPIN(ctx); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("PIN removed"))
			return nil
		},
	}
}
