package bankcsv

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one signed column (e.g. "Montante" with value "-10,00").
	amountSingle amountMode = iota
	// amountSplit means separate debit and credit columns (e.g. "Débito"/"Crédito").
	amountSplit
)

// decimalStyle is how a profile writes amounts.
type decimalStyle int

const (
	// decimalComma is "1.234,56".
	decimalComma decimalStyle = iota
	// decimalPoint is "1,234.56".
	decimalPoint
)

// Profile describes the column layout of a bank CSV export format.
// Adding a new format is just adding a new Profile to the profiles slice.
type Profile struct {
	Name        string
	Comma       rune
	DateCol     string
	DescCol     string
	AmountMode  amountMode
	AmountCol   string // used when AmountMode == amountSingle
	DebitCol    string // used when AmountMode == amountSplit
	CreditCol   string // used when AmountMode == amountSplit
	DateLayouts []string
	Decimal     decimalStyle
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

var (
	cgdLayouts     = []string{"02-01-2006"}
	englishLayouts = []string{"02/01/2006", "2006-01-02", "02 Jan 2006", "2 Jan 2006", "02-01-2006"}
)

// profiles is the ordered list of export formats to try during auto-detection.
// More specific profiles should come first to avoid false matches.
var profiles = []Profile{
	{
		Name:        "cgd-cartão",
		Comma:       ';',
		DateCol:     "Data",
		DescCol:     "Descrição",
		AmountMode:  amountSplit,
		DebitCol:    "Débito",
		CreditCol:   "Crédito",
		DateLayouts: cgdLayouts,
		Decimal:     decimalComma,
	},
	{
		Name:        "cgd-extrato",
		Comma:       ';',
		DateCol:     "Data mov.",
		DescCol:     "Descrição",
		AmountMode:  amountSingle,
		AmountCol:   "Movimento",
		DateLayouts: cgdLayouts,
		Decimal:     decimalComma,
	},
	{
		Name:        "cgd-conta",
		Comma:       ';',
		DateCol:     "Data mov.",
		DescCol:     "Descrição",
		AmountMode:  amountSingle,
		AmountCol:   "Montante",
		DateLayouts: cgdLayouts,
		Decimal:     decimalComma,
	},
	{
		Name:        "paid-out-in",
		Comma:       ',',
		DateCol:     "Date",
		DescCol:     "Description",
		AmountMode:  amountSplit,
		DebitCol:    "Paid out",
		CreditCol:   "Paid in",
		DateLayouts: englishLayouts,
		Decimal:     decimalPoint,
	},
	{
		Name:        "debit-credit",
		Comma:       ',',
		DateCol:     "Date",
		DescCol:     "Description",
		AmountMode:  amountSplit,
		DebitCol:    "Debit",
		CreditCol:   "Credit",
		DateLayouts: englishLayouts,
		Decimal:     decimalPoint,
	},
	{
		Name:        "generic",
		Comma:       ',',
		DateCol:     "Date",
		DescCol:     "Description",
		AmountMode:  amountSingle,
		AmountCol:   "Amount",
		DateLayouts: englishLayouts,
		Decimal:     decimalPoint,
	},
}

// delimiters lists every distinct profile delimiter in profile order.
func delimiters() []rune {
	var out []rune

	seen := make(map[rune]bool)

	for _, p := range profiles {
		if !seen[p.Comma] {
			seen[p.Comma] = true
			out = append(out, p.Comma)
		}
	}

	return out
}
