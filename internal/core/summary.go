package core

import "time"

// The aggregation engine. Every function here is pure: it takes a
// snapshot of ledger records and recomputes derived views from scratch.
// Nothing is incrementally maintained, so there is no drift to chase.
// Empty input always yields zero-valued aggregates, never nil maps.

// CategorySpend is the expense total for one category name together
// with its share of the overall expense total.
type CategorySpend struct {
	Name       string
	Total      Money
	Percentage float64
	Count      int
}

// TypeStats is the total and count for one transaction direction.
type TypeStats struct {
	Total Money
	Count int
}

// Stats groups transactions by direction, optionally restricted to a
// date range.
type Stats struct {
	Income  TypeStats
	Expense TypeStats
}

// TotalIncome sums the amounts of all income transactions.
func TotalIncome(txs []Transaction) Money {
	var sum Money
	for _, t := range txs {
		if t.Type == TypeIncome {
			sum += t.Amount
		}
	}
	return sum
}

// TotalExpense sums the amounts of all expense transactions.
func TotalExpense(txs []Transaction) Money {
	var sum Money
	for _, t := range txs {
		if t.Type == TypeExpense {
			sum += t.Amount
		}
	}
	return sum
}

// NetBalance is income minus expense over the same snapshot.
func NetBalance(txs []Transaction) Money {
	return TotalIncome(txs) - TotalExpense(txs)
}

// TotalAssets sums wallet balances. Wallets carry their own balance
// field, so this is independent of transaction totals by design.
func TotalAssets(wallets []Wallet) Money {
	var sum Money
	for _, w := range wallets {
		sum += w.Balance
	}
	return sum
}

// StatsByType groups totals and counts by direction. A nil from or to
// leaves that side of the range open.
func StatsByType(txs []Transaction, from, to *time.Time) Stats {
	var s Stats
	for _, t := range txs {
		if from != nil && t.Date.Before(*from) {
			continue
		}
		if to != nil && t.Date.After(*to) {
			continue
		}
		switch t.Type {
		case TypeIncome:
			s.Income.Total += t.Amount
			s.Income.Count++
		case TypeExpense:
			s.Expense.Total += t.Amount
			s.Expense.Count++
		}
	}
	return s
}

// SpendByCategory maps each category name to its summed expense amount
// and percentage of the overall expense total. Percentages sum to 100
// across present categories; with no expenses the result is empty.
// Rows keep first-appearance order so repeated calls over the same
// snapshot never reorder.
func SpendByCategory(txs []Transaction) []CategorySpend {
	rows := make([]CategorySpend, 0)
	index := make(map[string]int)
	var total Money
	for _, t := range txs {
		if t.Type != TypeExpense {
			continue
		}
		i, ok := index[t.Category]
		if !ok {
			i = len(rows)
			index[t.Category] = i
			rows = append(rows, CategorySpend{Name: t.Category})
		}
		rows[i].Total += t.Amount
		rows[i].Count++
		total += t.Amount
	}
	if total > 0 {
		for i := range rows {
			rows[i].Percentage = float64(rows[i].Total) / float64(total) * 100
		}
	}
	return rows
}
