// Package kpi folds a set of transactions into dashboard figures.
package kpi

import (
	"sort"
	"time"

	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

// TopN is how many entities Stats.TopProviders keeps.
const TopN = 10

// MonthlyAfterDays is the date span above which history is bucketed by
// month instead of by day.
const MonthlyAfterDays = 60

type Granularity string

const (
	Daily   Granularity = "day"
	Monthly Granularity = "month"
)

type EntityStat struct {
	RUT    string
	Name   string
	Amount float64
	Count  int
}

type HistoryPoint struct {
	Label     string // YYYY-MM-DD or YYYY-MM, same for every point of a Stats
	Sales     float64
	Purchases float64
}

type Stats struct {
	TotalSales     float64
	TotalPurchases float64
	TotalFees      float64
	Count          int

	Entities     map[string]*EntityStat
	TopProviders []EntityStat
	TopProvider  *EntityStat // nil when there are no entities

	Granularity Granularity
	History     []HistoryPoint
}

// Aggregate never fails: empty input yields zero totals and empty slices.
//
// An entity keeps the first name it was seen with until a longer name that
// is not the unknown sentinel shows up, so the result depends on order.
// Entities with equal amounts keep their first-seen order in TopProviders.
// Transactions whose fecha is not an ISO date count towards totals and
// entities but are left out of the history.
func Aggregate(txs []*transaction.Transaction) Stats {
	stats := Stats{
		Entities:     make(map[string]*EntityStat),
		TopProviders: []EntityStat{},
		History:      []HistoryPoint{},
		Granularity:  Daily,
	}

	var (
		order    []*EntityStat
		dated    []*transaction.Transaction
		dates    []time.Time
		minDate  time.Time
		maxDate  time.Time
		haveDate bool
	)

	for _, tx := range txs {
		stats.Count++

		switch tx.Type {
		case transaction.FlowVenta:
			stats.TotalSales += tx.MontoTotal
		case transaction.FlowCompra:
			stats.TotalPurchases += tx.MontoTotal
		case transaction.FlowHonorarios:
			stats.TotalFees += tx.MontoTotal
		}

		e, ok := stats.Entities[tx.RUT]
		if !ok {
			e = &EntityStat{RUT: tx.RUT, Name: tx.RazonSocial}
			stats.Entities[tx.RUT] = e
			order = append(order, e)
		} else if len(tx.RazonSocial) > len(e.Name) && tx.RazonSocial != transaction.UnknownName {
			e.Name = tx.RazonSocial
		}

		e.Amount += tx.MontoTotal
		e.Count++

		d, ok := tx.Date()
		if !ok {
			continue
		}

		if !haveDate || d.Before(minDate) {
			minDate = d
		}

		if !haveDate || d.After(maxDate) {
			maxDate = d
		}

		haveDate = true

		dated = append(dated, tx)
		dates = append(dates, d)
	}

	if haveDate && maxDate.Sub(minDate).Hours()/24 > MonthlyAfterDays {
		stats.Granularity = Monthly
	}

	stats.History = history(dated, dates, stats.Granularity)

	ranked := make([]EntityStat, len(order))
	for i, e := range order {
		ranked[i] = *e
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Amount > ranked[j].Amount })

	stats.TopProviders = ranked[:min(TopN, len(ranked))]
	if len(stats.TopProviders) > 0 {
		top := stats.TopProviders[0]
		stats.TopProvider = &top
	}

	return stats
}

func history(txs []*transaction.Transaction, dates []time.Time, g Granularity) []HistoryPoint {
	layout := time.DateOnly
	if g == Monthly {
		layout = "2006-01"
	}

	buckets := make(map[string]*HistoryPoint)

	for i, tx := range txs {
		label := dates[i].Format(layout)

		p, ok := buckets[label]
		if !ok {
			p = &HistoryPoint{Label: label}
			buckets[label] = p
		}

		switch tx.Type {
		case transaction.FlowVenta:
			p.Sales += tx.MontoTotal
		case transaction.FlowCompra:
			p.Purchases += tx.MontoTotal
		}
	}

	points := make([]HistoryPoint, 0, len(buckets))
	for _, p := range buckets {
		points = append(points, *p)
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Label < points[j].Label })

	return points
}
