package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/budgetzen/zen/internal/auth"
	"github.com/budgetzen/zen/internal/cli"
	"github.com/budgetzen/zen/internal/common"
	"github.com/budgetzen/zen/internal/model"
	"github.com/budgetzen/zen/internal/repository"
	"github.com/budgetzen/zen/internal/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const dateLayout = "2006-01-02"

// app bundles the collaborators a command needs, constructed once per
// invocation and passed explicitly instead of living in globals.
type app struct {
	Store storage.KVStore
	Repo  *repository.Repository
	Auth  *auth.PINAuthenticator
}

// openStore creates the configured key-value store.
func openStore() (storage.KVStore, error) {
	if viper.GetBool("database.ephemeral") {
		return storage.NewMemoryStore(), nil
	}

	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".local", "share", "zen", "zen.db")
	}

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

// openApp opens the store, enforces the PIN gate when one is configured,
// and loads the repository.
func openApp(ctx context.Context) (*app, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}

	authenticator, err := auth.NewPINAuthenticator(ctx, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	if authenticator.Required() {
		if err := promptPIN(authenticator); err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	repo, err := repository.New(ctx, store)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load repository: %w", err)
	}

	return &app{Store: store, Repo: repo, Auth: authenticator}, nil
}

// Close releases the underlying store.
func (a *app) Close() error {
	return a.Store.Close()
}

// promptPIN reads a PIN from stdin and verifies it, allowing three attempts.
func promptPIN(authenticator auth.Authenticator) error {
	reader := bufio.NewReader(os.Stdin)
	for attempt := 0; attempt < 3; attempt++ {
		fmt.Print("PIN: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read PIN: %w", err)
		}
		if authenticator.VerifyPIN(strings.TrimSpace(line)) {
			return nil
		}
		fmt.Println(cli.FormatWarning("incorrect PIN"))
	}
	return common.ErrInvalidPIN
}

// parseDate parses a YYYY-MM-DD argument in local time.
func parseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}
	return t, nil
}

// parseAmount parses a positive decimal amount.
func parseAmount(value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount must not be negative, the type carries the sign")
	}
	return amount, nil
}

// parseType parses income|expense.
func parseType(value string) (model.TransactionType, error) {
	typ := model.TransactionType(strings.ToLower(value))
	if !typ.Valid() {
		return "", fmt.Errorf("invalid type %q, expected income or expense", value)
	}
	return typ, nil
}

// resolveCategory finds a category by id or (case-insensitive) name.
func resolveCategory(repo *repository.Repository, ref string) (model.Category, error) {
	if id, err := uuid.Parse(ref); err == nil {
		if cat, ok := repo.CategoryByID(id); ok {
			return cat, nil
		}
		return model.Category{}, fmt.Errorf("%w: category %s", common.ErrNotFound, ref)
	}

	folded := strings.ToLower(strings.TrimSpace(ref))
	for _, cat := range repo.Categories() {
		if strings.ToLower(cat.Name) == folded {
			return cat, nil
		}
	}
	return model.Category{}, fmt.Errorf("%w: category %q", common.ErrNotFound, ref)
}

// formatAmount renders an amount with the configured currency, colored by
// direction.
func formatAmount(amount decimal.Decimal, typ model.TransactionType, settings model.Settings) string {
	text := fmt.Sprintf("%s %s", amount.StringFixed(2), settings.Currency)
	if typ == model.TypeExpense {
		return cli.ExpenseStyle.Render("-" + text)
	}
	return cli.IncomeStyle.Render("+" + text)
}

// categoryName resolves a display name, tolerating dangling references.
func categoryName(repo *repository.Repository, id uuid.UUID) string {
	if cat, ok := repo.CategoryByID(id); ok {
		return cat.Name
	}
	return cli.SubtleStyle.Render("(unknown category)")
}
