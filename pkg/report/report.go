// Package report aggregates stored transactions and net worth items
// into the numbers the dashboard views display.
package report

import (
	"sort"

	"github.com/fquiros/budgeteer/pkg/models"
)

// CategoryTotal is spending attributed to one category.
type CategoryTotal struct {
	Category string
	Total    float64
	Count    int
}

// MonthTotal is spending in one calendar month (YYYY-MM).
type MonthTotal struct {
	Month string
	Total float64
	Count int
}

// Summary aggregates a set of transactions.
type Summary struct {
	Total      float64
	Count      int
	ByCategory []CategoryTotal
	ByMonth    []MonthTotal
}

// Summarize computes totals over transactions. Categories come back
// biggest first, months in chronological order.
func Summarize(transactions []*models.Transaction) *Summary {
	summary := &Summary{Count: len(transactions)}

	byCategory := make(map[string]*CategoryTotal)
	byMonth := make(map[string]*MonthTotal)

	for _, t := range transactions {
		summary.Total += t.Amount

		cat, ok := byCategory[t.Category]
		if !ok {
			cat = &CategoryTotal{Category: t.Category}
			byCategory[t.Category] = cat
		}
		cat.Total += t.Amount
		cat.Count++

		month, ok := byMonth[t.Month()]
		if !ok {
			month = &MonthTotal{Month: t.Month()}
			byMonth[t.Month()] = month
		}
		month.Total += t.Amount
		month.Count++
	}

	for _, cat := range byCategory {
		summary.ByCategory = append(summary.ByCategory, *cat)
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		if summary.ByCategory[i].Total != summary.ByCategory[j].Total {
			return summary.ByCategory[i].Total > summary.ByCategory[j].Total
		}
		return summary.ByCategory[i].Category < summary.ByCategory[j].Category
	})

	for _, month := range byMonth {
		summary.ByMonth = append(summary.ByMonth, *month)
	}
	sort.Slice(summary.ByMonth, func(i, j int) bool {
		return summary.ByMonth[i].Month < summary.ByMonth[j].Month
	})

	return summary
}

// NetWorth is the asset/liability rollup.
type NetWorth struct {
	Assets      float64
	Liabilities float64
	Net         float64
}

// ComputeNetWorth sums items into assets, liabilities and their
// difference. Liability amounts are stored as positive magnitudes and
// subtracted here.
func ComputeNetWorth(items []*models.NetWorthItem) NetWorth {
	var nw NetWorth
	for _, item := range items {
		if item.IsAsset() {
			nw.Assets += item.Amount
		} else {
			nw.Liabilities += item.Amount
		}
	}
	nw.Net = nw.Assets - nw.Liabilities
	return nw
}
