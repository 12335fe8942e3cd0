// Package ofx reads OFX/QFX bank and credit-card statements.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/recur/internal/statement"
)

var (
	// Severity values may be lowercase, with or without a closing tag.
	severityPattern = regexp.MustCompile(`(?i)<SEVERITY>\s*(Info|Warn|Error)\b`)
	// SGML tags on their own line that lost their closing bracket.
	openTagPattern = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Extract renders the debits of an OFX statement as statement text.
func (p *Parser) Extract(ctx context.Context, r io.Reader) (string, error) {
	txs, err := p.Parse(ctx, r)
	if err != nil {
		return "", err
	}

	return statement.Render(txs), nil
}

func (p *Parser) Parse(_ context.Context, r io.Reader) ([]statement.Transaction, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read ofx: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("parse ofx: %w", err)
	}

	var txs []statement.Transaction

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			txs = appendTransactions(txs, stmt.BankTranList.Transactions)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			txs = appendTransactions(txs, stmt.BankTranList.Transactions)
		}
	}

	slog.Debug("parsed ofx statement", "transactions", len(txs), "bank", len(resp.Bank), "credit_card", len(resp.CreditCard))

	return txs, nil
}

// preprocess fixes formatting issues that ofxgo rejects.
func preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityPattern.ReplaceAllStringFunc(content, strings.ToUpper)

	return openTagPattern.ReplaceAllString(content, "$1>")
}

func appendTransactions(dst []statement.Transaction, src []ofxgo.Transaction) []statement.Transaction {
	for _, t := range src {
		amount, err := decimal.NewFromString(t.TrnAmt.FloatString(2))
		if err != nil || amount.IsZero() {
			continue
		}

		dst = append(dst, statement.Transaction{
			Date:        statement.DateOf(t.DtPosted.Time),
			Description: description(t),
			Amount:      amount.Abs(),
			Debit:       amount.IsNegative(),
		})
	}

	return dst
}

// description prefers the payee, then the name, falling back to the memo
// when the name is only a transaction type.
func description(t ofxgo.Transaction) string {
	if t.Payee != nil && t.Payee.Name != "" {
		return strings.TrimSpace(string(t.Payee.Name))
	}

	name := strings.TrimSpace(string(t.Name))
	if t.Memo != "" && (name == "" || isGeneric(name)) {
		return strings.TrimSpace(string(t.Memo))
	}

	return name
}

func isGeneric(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE", "DIRECTDEBIT":
		return true
	}

	return false
}
