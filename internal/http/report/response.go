package report

import (
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/libro/internal/kpi"
	"github.com/MrJamesThe3rd/libro/internal/ledger"
	"github.com/MrJamesThe3rd/libro/internal/reconcile"
)

type entityResponse struct {
	RUT    string  `json:"rut"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

type historyResponse struct {
	Label     string  `json:"label"`
	Sales     float64 `json:"sales"`
	Purchases float64 `json:"purchases"`
}

type statsResponse struct {
	TotalSales     float64           `json:"total_sales"`
	TotalPurchases float64           `json:"total_purchases"`
	TotalFees      float64           `json:"total_fees"`
	Count          int               `json:"count"`
	Entities       int               `json:"entities"`
	TopProviders   []entityResponse  `json:"top_providers"`
	TopProvider    *entityResponse   `json:"top_provider"`
	Granularity    kpi.Granularity   `json:"granularity"`
	History        []historyResponse `json:"history"`
}

func toEntityResponse(e kpi.EntityStat) entityResponse {
	return entityResponse{RUT: e.RUT, Name: e.Name, Amount: e.Amount, Count: e.Count}
}

func toStatsResponse(s kpi.Stats) statsResponse {
	resp := statsResponse{
		TotalSales:     s.TotalSales,
		TotalPurchases: s.TotalPurchases,
		TotalFees:      s.TotalFees,
		Count:          s.Count,
		Entities:       len(s.Entities),
		TopProviders:   make([]entityResponse, len(s.TopProviders)),
		Granularity:    s.Granularity,
		History:        make([]historyResponse, len(s.History)),
	}

	for i, e := range s.TopProviders {
		resp.TopProviders[i] = toEntityResponse(e)
	}

	if s.TopProvider != nil {
		top := toEntityResponse(*s.TopProvider)
		resp.TopProvider = &top
	}

	for i, p := range s.History {
		resp.History[i] = historyResponse{Label: p.Label, Sales: p.Sales, Purchases: p.Purchases}
	}

	return resp
}

type monthResponse struct {
	Month          string  `json:"month"`
	NetSales       float64 `json:"net_sales"`
	GrossSales     float64 `json:"gross_sales"`
	NetPurchases   float64 `json:"net_purchases"`
	GrossPurchases float64 `json:"gross_purchases"`
	Fees           float64 `json:"fees"`
	GrossProfit    float64 `json:"gross_profit"`
	EBITDA         float64 `json:"ebitda"`
	NetMargin      float64 `json:"net_margin"`
}

type pnlResponse struct {
	Months []monthResponse `json:"months"`
	Total  monthResponse   `json:"total"`
}

func toMonthResponse(r ledger.MonthRow) monthResponse {
	return monthResponse{
		Month:          r.Month,
		NetSales:       r.NetSales,
		GrossSales:     r.GrossSales,
		NetPurchases:   r.NetPurchases,
		GrossPurchases: r.GrossPurchases,
		Fees:           r.Fees,
		GrossProfit:    r.GrossProfit,
		EBITDA:         r.EBITDA,
		NetMargin:      r.NetMargin,
	}
}

type balanceRowResponse struct {
	Code     string             `json:"code"`
	Name     string             `json:"name"`
	Type     ledger.AccountType `json:"type,omitempty"`
	Debits   float64            `json:"debits"`
	Credits  float64            `json:"credits"`
	Debtor   float64            `json:"debtor"`
	Creditor float64            `json:"creditor"`
	Activo   float64            `json:"activo"`
	Pasivo   float64            `json:"pasivo"`
	Perdida  float64            `json:"perdida"`
	Ganancia float64            `json:"ganancia"`
}

type balanceResponse struct {
	Rows   []balanceRowResponse `json:"rows"`
	Totals balanceRowResponse   `json:"totals"`
	Result float64              `json:"result"`
}

func toBalanceRow(r ledger.BalanceRow) balanceRowResponse {
	return balanceRowResponse{
		Code:     r.Code,
		Name:     r.Name,
		Type:     r.Type,
		Debits:   r.Debits,
		Credits:  r.Credits,
		Debtor:   r.Debtor,
		Creditor: r.Creditor,
		Activo:   r.Activo,
		Pasivo:   r.Pasivo,
		Perdida:  r.Perdida,
		Ganancia: r.Ganancia,
	}
}

func toBalanceResponse(b ledger.Balance) balanceResponse {
	resp := balanceResponse{
		Rows:   make([]balanceRowResponse, len(b.Rows)),
		Totals: toBalanceRow(b.Totals),
		Result: b.Result,
	}

	for i, r := range b.Rows {
		resp.Rows[i] = toBalanceRow(r)
	}

	return resp
}

type movementResponse struct {
	VoucherID uuid.UUID `json:"voucher_id"`
	Fecha     string    `json:"fecha"`
	Glosa     string    `json:"glosa"`
	Amount    float64   `json:"amount"`
}

type lineResponse struct {
	Fecha       string            `json:"fecha"`
	Descripcion string            `json:"descripcion"`
	Monto       float64           `json:"monto"`
	Matched     bool              `json:"matched"`
	Movement    *movementResponse `json:"movement,omitempty"`
}

type reconcileResponse struct {
	Lines     []lineResponse `json:"lines"`
	Matched   int            `json:"matched"`
	Unmatched int            `json:"unmatched"`
	BankTotal float64        `json:"bank_total"`
	BookTotal float64        `json:"book_total"`
}

func toReconcileResponse(res reconcile.Result) reconcileResponse {
	resp := reconcileResponse{
		Lines:     make([]lineResponse, len(res.Lines)),
		Matched:   res.Matched,
		Unmatched: res.Unmatched,
		BankTotal: res.BankTotal,
		BookTotal: res.BookTotal,
	}

	for i, l := range res.Lines {
		line := lineResponse{Fecha: l.Fecha, Descripcion: l.Descripcion, Monto: l.Monto, Matched: l.Matched}
		if l.Movement != nil {
			line.Movement = &movementResponse{
				VoucherID: l.Movement.VoucherID,
				Fecha:     l.Movement.Fecha,
				Glosa:     l.Movement.Glosa,
				Amount:    l.Movement.Amount,
			}
		}

		resp.Lines[i] = line
	}

	return resp
}
