package statement

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one booked line of a structured statement export (CSV,
// OFX). Amount is always positive; Debit tells money leaving the account
// apart from money coming in.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Debit       bool
}

// FormatRow renders a transaction as a single statement line of the form
// "DD/MM/YYYY description amount", which Reconstruct keeps as one row.
func FormatRow(t Transaction) string {
	desc := strings.Join(strings.Fields(t.Description), " ")
	return fmt.Sprintf("%s %s %s", t.Date.Format("02/01/2006"), desc, t.Amount.Abs().StringFixed(2))
}

// Render turns the debits among txs into statement text, one row per line.
// Credits never describe a charge and are left out.
func Render(txs []Transaction) string {
	var b strings.Builder

	for _, t := range txs {
		if !t.Debit {
			continue
		}

		b.WriteString(FormatRow(t))
		b.WriteByte('\n')
	}

	return b.String()
}
