package main

import (
	"strings"
	"time"

	"github.com/fquiros/budgeteer/pkg/csv"
	"github.com/fquiros/budgeteer/pkg/models"
)

type filters struct {
	startDate   string
	endDate     string
	minAmount   float64
	maxAmount   float64
	category    string
	description string
}

func (f *filters) toFilterFunc() csv.FilterFunc {
	return func(t *models.Transaction) bool {
		if f.startDate != "" {
			start, _ := time.Parse("2006-01-02", f.startDate)
			if t.Date.Before(start) {
				return false
			}
		}
		if f.endDate != "" {
			end, _ := time.Parse("2006-01-02", f.endDate)
			if t.Date.After(end) {
				return false
			}
		}
		if f.minAmount != 0 && t.Amount < f.minAmount {
			return false
		}
		if f.maxAmount != 0 && t.Amount > f.maxAmount {
			return false
		}
		if f.category != "" && !strings.EqualFold(t.Category, f.category) {
			return false
		}
		if f.description != "" && !strings.Contains(strings.ToLower(t.Description), strings.ToLower(f.description)) {
			return false
		}
		return true
	}
}
