// Package columns maps registry headers to the fields a transaction needs.
package columns

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/libro/internal/importer/tabular"
)

var ErrMissingTotal = errors.New("no total amount column")

// MissingColumnError is returned when a file has no total amount column.
type MissingColumnError struct {
	Headers []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s (detected headers: %s)", ErrMissingTotal, strings.Join(e.Headers, ", "))
}

func (e *MissingColumnError) Unwrap() error { return ErrMissingTotal }

type match int

const (
	substring match = iota
	exact
)

// rule lists the normalized candidates for one field. Candidates are tried
// in order; for each one the leftmost header that matches wins.
type rule struct {
	candidates []string
	mode       match
	exclude    []string
}

var (
	rutRule = rule{candidates: []string{"rutproveedor", "rut", "identificador", "rutcliente"}}
	// "RUT Proveedor" must not be taken for the name of the supplier.
	nameRule = rule{
		candidates: []string{"razonsocial", "razon", "nombre", "cliente", "proveedor", "empresa"},
		exclude:    []string{"rut", "identificador"},
	}
	dateRule  = rule{candidates: []string{"fechadocto", "fecha", "date", "fec"}}
	netRule   = rule{candidates: []string{"montoneto", "neto", "valorneto"}, mode: exact}
	totalRule = rule{candidates: []string{"montototal", "total", "bruto", "monto"}, mode: exact}

	folioRule     = rule{candidates: []string{"folio"}}
	tipoDocRule   = rule{candidates: []string{"tipodoc", "tipodocumento"}}
	exentoRule    = rule{candidates: []string{"montoexento", "exento"}, mode: exact}
	retencionRule = rule{candidates: []string{"retencion", "retenido"}}
)

// Columns holds the header index of every field, -1 when absent. Total is
// always resolved.
type Columns struct {
	RUT       int
	Name      int
	Date      int
	Net       int
	Total     int
	Folio     int
	TipoDoc   int
	Exento    int
	Retencion int
}

// Resolve maps raw headers to field indexes. It runs once per file.
func Resolve(headers []string) (Columns, error) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = tabular.NormalizeHeader(h)
	}

	cols := Columns{
		RUT:       rutRule.find(normalized),
		Name:      nameRule.find(normalized),
		Date:      dateRule.find(normalized),
		Net:       netRule.find(normalized),
		Total:     totalRule.find(normalized),
		Folio:     folioRule.find(normalized),
		TipoDoc:   tipoDocRule.find(normalized),
		Exento:    exentoRule.find(normalized),
		Retencion: retencionRule.find(normalized),
	}

	if cols.Total < 0 {
		return cols, &MissingColumnError{Headers: append([]string(nil), headers...)}
	}

	return cols, nil
}

func (r rule) find(headers []string) int {
	for _, c := range r.candidates {
		for i, h := range headers {
			if r.excluded(h) {
				continue
			}

			if r.mode == exact && h == c || r.mode == substring && strings.Contains(h, c) {
				return i
			}
		}
	}

	return -1
}

func (r rule) excluded(h string) bool {
	for _, e := range r.exclude {
		if strings.Contains(h, e) {
			return true
		}
	}

	return false
}
