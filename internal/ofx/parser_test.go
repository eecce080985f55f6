package ofx

import (
	"strings"
	"testing"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetzen/zen/internal/model"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>EUR
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>POS PURCHASE COFFEE ROASTERS
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>1500.00
<FITID>2024012001
<NAME>ACME CORP PAYROLL
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012501
<NAME>Whole Foods Market
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>EUR
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>AMAZON.COM*RT4Y7HG2
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-15.00
<FITID>CC2024011501
<NAME>NETFLIX.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestParseFile(t *testing.T) {
	tests := []struct {
		name          string
		ofxData       string
		expectedCount int
		expectedError bool
	}{
		{
			name:          "valid bank statement",
			ofxData:       sampleBankOFX,
			expectedCount: 3,
		},
		{
			name:          "valid credit card statement",
			ofxData:       sampleCreditCardOFX,
			expectedCount: 2,
		},
		{
			name:          "invalid OFX data",
			ofxData:       "not valid OFX",
			expectedError: true,
		},
		{
			name:          "empty OFX",
			ofxData:       "",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewParser()

			transactions, err := parser.ParseFile(strings.NewReader(tt.ofxData))
			if tt.expectedError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Len(t, transactions, tt.expectedCount)
			for _, tx := range transactions {
				assert.False(t, tx.Amount.IsNegative(), "amounts are unsigned, type carries the sign")
				assert.NotEmpty(t, tx.Title)
				assert.False(t, tx.Date.IsZero())
			}
		})
	}
}

func TestParseFile_SignMapping(t *testing.T) {
	parser := NewParser()

	transactions, err := parser.ParseFile(strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	require.Len(t, transactions, 3)

	coffee := transactions[0]
	assert.Equal(t, model.TypeExpense, coffee.Type, "OFX debits become expenses")
	assert.Equal(t, "25.50", coffee.Amount.StringFixed(2))
	assert.Equal(t, "COFFEE ROASTERS", coffee.Title, "processor prefix is stripped")
	assert.Equal(t, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC), coffee.Date.UTC())

	payroll := transactions[1]
	assert.Equal(t, model.TypeIncome, payroll.Type, "OFX credits become income")
	assert.Equal(t, "1500.00", payroll.Amount.StringFixed(2))
}

func TestPreprocess(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "leading whitespace stripped",
			input: "\n\n  OFXHEADER:100",
			want:  "OFXHEADER:100",
		},
		{
			name:  "severity uppercased",
			input: "<SEVERITY>Info</SEVERITY>",
			want:  "<SEVERITY>INFO</SEVERITY>",
		},
		{
			name:  "unterminated tag closed",
			input: "<BANKTRANLIST\n",
			want:  "<BANKTRANLIST>\n",
		},
		{
			name:  "well-formed content untouched",
			input: "<TRNAMT>-25.50",
			want:  "<TRNAMT>-25.50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parser.preprocess(tt.input))
		})
	}
}

func TestCleanTitle(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name string
		tx   ofxgo.Transaction
		want string
	}{
		{
			name: "payee preferred over name",
			tx: ofxgo.Transaction{
				Name:  ofxgo.String("RAW DESCRIPTOR"),
				Payee: &ofxgo.Payee{Name: ofxgo.String("Corner Bakery")},
			},
			want: "Corner Bakery",
		},
		{
			name: "processor prefix stripped",
			tx:   ofxgo.Transaction{Name: ofxgo.String("DEBIT CARD PURCHASE GROCERY MART")},
			want: "GROCERY MART",
		},
		{
			name: "memo fallback",
			tx:   ofxgo.Transaction{Memo: ofxgo.String("  monthly rent  ")},
			want: "monthly rent",
		},
		{
			name: "placeholder when nothing usable",
			tx:   ofxgo.Transaction{},
			want: "Imported transaction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parser.cleanTitle(tt.tx))
		})
	}
}
