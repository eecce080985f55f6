// Package ofx converts OFX/QFX bank statements into tracker transactions.
package ofx

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/budgetzen/zen/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

var (
	severityRe = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	openTagRe  = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocess fixes common formatting issues in real-world OFX files:
// leading blank lines, mixed-case SEVERITY values, and SGML-style tags
// missing their closing bracket.
func (p *Parser) preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRe.ReplaceAllStringFunc(content, strings.ToUpper)
	content = openTagRe.ReplaceAllString(content, "$1>")
	return content
}

// ParseFile parses an OFX/QFX statement and returns tracker transactions.
// Sign follows the unsigned amount convention: OFX debits become expense
// transactions with a positive amount, credits become income.
func (p *Parser) ParseFile(reader io.Reader) ([]model.Transaction, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []model.Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			if stmt.BankTranList == nil {
				continue
			}
			for _, ofxTx := range stmt.BankTranList.Transactions {
				tx, err := p.convert(ofxTx)
				if err != nil {
					slog.Warn("skipping statement entry",
						"account", stmt.BankAcctFrom.AcctID,
						"error", err)
					continue
				}
				transactions = append(transactions, tx)
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			if stmt.BankTranList == nil {
				continue
			}
			for _, ofxTx := range stmt.BankTranList.Transactions {
				tx, err := p.convert(ofxTx)
				if err != nil {
					slog.Warn("skipping statement entry",
						"account", stmt.CCAcctFrom.AcctID,
						"error", err)
					continue
				}
				transactions = append(transactions, tx)
			}
		}
	}

	slog.Info("parsed OFX file",
		"transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

// convert maps one OFX entry to a tracker transaction. The category is left
// unassigned; the import flow resolves it afterwards.
func (p *Parser) convert(ofxTx ofxgo.Transaction) (model.Transaction, error) {
	amountRat := ofxTx.TrnAmt.Rat
	amount, err := decimal.NewFromString(amountRat.FloatString(2))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("bad amount %q: %w", amountRat.FloatString(2), err)
	}

	// OFX uses negative amounts for debits.
	typ := model.TypeIncome
	if amount.IsNegative() {
		typ = model.TypeExpense
		amount = amount.Abs()
	}

	title := p.cleanTitle(ofxTx)
	date := ofxTx.DtPosted.Time
	if date.IsZero() {
		date = time.Now()
	}

	t := model.Transaction{
		ID:     uuid.New(),
		Amount: amount,
		Title:  title,
		Date:   date,
		Type:   typ,
	}
	return t, nil
}

// cleanTitle derives a readable title from the statement entry, preferring
// the payee name and stripping processor prefixes.
func (p *Parser) cleanTitle(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if name == "" && tx.Memo != "" {
		name = strings.TrimSpace(string(tx.Memo))
	}

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	upper := strings.ToUpper(name)
	for _, prefix := range prefixes {
		if strings.HasPrefix(upper, prefix) {
			name = strings.TrimSpace(name[len(prefix):])
			break
		}
	}

	if name == "" {
		name = "Imported transaction"
	}
	return name
}
