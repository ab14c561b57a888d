package ledger

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type AccountType string

const (
	Activo     AccountType = "activo"
	Pasivo     AccountType = "pasivo"
	Patrimonio AccountType = "patrimonio"
	Perdida    AccountType = "perdida"
	Ganancia   AccountType = "ganancia"
)

var (
	ErrInvalidVoucher = errors.New("invalid voucher")
	ErrNotFound       = errors.New("voucher not found")
)

func ParseAccountType(s string) (AccountType, bool) {
	switch t := AccountType(strings.ToLower(strings.TrimSpace(s))); t {
	case Activo, Pasivo, Patrimonio, Perdida, Ganancia:
		return t, true
	}

	return "", false
}

// IsResult reports whether balances of this type belong to the income
// statement rather than the balance sheet.
func (t AccountType) IsResult() bool {
	return t == Perdida || t == Ganancia
}

type Account struct {
	Code string
	Name string
	Type AccountType
}

// TypeForCode infers the type of an account from the first digit of its
// code, for codes missing from the chart of accounts.
func TypeForCode(code string) AccountType {
	code = strings.TrimSpace(code)
	if code == "" {
		return Perdida
	}

	switch code[0] {
	case '1':
		return Activo
	case '2':
		return Pasivo
	case '3':
		return Patrimonio
	case '4':
		return Ganancia
	}

	return Perdida
}

// DefaultAccounts is the chart seeded for every new company.
var DefaultAccounts = []Account{
	{Code: "1.01.01", Name: "Banco", Type: Activo},
	{Code: "1.01.02", Name: "Caja", Type: Activo},
	{Code: "1.01.03", Name: "Clientes", Type: Activo},
	{Code: "1.01.04", Name: "IVA Crédito Fiscal", Type: Activo},
	{Code: "2.01.01", Name: "Proveedores", Type: Pasivo},
	{Code: "2.01.02", Name: "IVA Débito Fiscal", Type: Pasivo},
	{Code: "2.01.03", Name: "Retenciones por Pagar", Type: Pasivo},
	{Code: "3.01.01", Name: "Capital", Type: Patrimonio},
	{Code: "4.01.01", Name: "Ventas", Type: Ganancia},
	{Code: "5.01.01", Name: "Costo de Ventas", Type: Perdida},
	{Code: "5.01.02", Name: "Honorarios", Type: Perdida},
	{Code: "5.01.03", Name: "Gastos Generales", Type: Perdida},
}

// Voucher is a manually entered double-entry record.
type Voucher struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	Number    int
	Fecha     string
	Glosa     string
	Entries   []Entry
	CreatedAt time.Time
}

type Entry struct {
	AccountCode string
	Debe        float64
	Haber       float64
	Glosa       string
}
