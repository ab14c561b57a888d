package bank

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one signed column (e.g. "Monto" with value "-10.000").
	amountSingle amountMode = iota
	// amountSplit means separate withdrawal and deposit columns (e.g. "Cargos"/"Abonos").
	amountSplit
)

// Profile describes the column layout of a bank statement export. Column
// names are compared after header normalization.
type Profile struct {
	Name       string
	DateCol    string
	DescCol    string
	AmountMode amountMode
	AmountCol  string // used when AmountMode == amountSingle
	DebitCol   string // cargos, used when AmountMode == amountSplit
	CreditCol  string // abonos, used when AmountMode == amountSplit
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

// profiles is tried in order during detection; the split layouts come
// first because their headers often also carry a "monto" or "saldo" column.
var profiles = []Profile{
	{
		Name:       "cartola",
		DateCol:    "fecha",
		DescCol:    "descripcion",
		AmountMode: amountSplit,
		DebitCol:   "cargos",
		CreditCol:  "abonos",
	},
	{
		Name:       "cartola-singular",
		DateCol:    "fecha",
		DescCol:    "descripcion",
		AmountMode: amountSplit,
		DebitCol:   "cargo",
		CreditCol:  "abono",
	},
	{
		Name:       "cuenta-corriente",
		DateCol:    "fecha",
		DescCol:    "glosa",
		AmountMode: amountSplit,
		DebitCol:   "giros",
		CreditCol:  "depositos",
	},
	{
		Name:       "movimientos",
		DateCol:    "fecha",
		DescCol:    "descripcion",
		AmountMode: amountSingle,
		AmountCol:  "monto",
	},
	{
		Name:       "movimientos-glosa",
		DateCol:    "fecha",
		DescCol:    "glosa",
		AmountMode: amountSingle,
		AmountCol:  "monto",
	},
}
