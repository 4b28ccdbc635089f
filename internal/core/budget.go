package core

// The budget allocation model. An allocation (Category.Budgeted) is a
// plan; a transaction is execution against that plan. The two only meet
// here, when a report joins them by category name.

// UncategorizedBucket collects expense spend whose category name
// matches no stored category.
const UncategorizedBucket = "uncategorized"

// BudgetLine is one category's plan-versus-actual row.
type BudgetLine struct {
	CategoryID string
	Name       string
	Group      string
	Budgeted   Money
	Spent      Money
	Remaining  Money // budgeted - spent; negative when overspent
	Overspent  bool
}

// BudgetRemaining computes budgeted minus the summed expense spend for
// one category. Remaining is never floored at zero: overspend comes
// back as a negative value with Overspent set, so callers can surface
// it instead of silently losing it.
func BudgetRemaining(cat Category, txs []Transaction) BudgetLine {
	line := BudgetLine{
		CategoryID: cat.ID,
		Name:       cat.Name,
		Group:      cat.Group,
		Budgeted:   cat.Budgeted,
	}
	for _, t := range txs {
		if t.Type == TypeExpense && t.Category == cat.Name {
			line.Spent += t.Amount
		}
	}
	line.Remaining = line.Budgeted - line.Spent
	line.Overspent = line.Remaining < 0
	return line
}

// AllocationReport joins the category set against the transaction
// snapshot: one line per category in the given order, plus a trailing
// uncategorized line when expense spend matched no category name.
func AllocationReport(cats []Category, txs []Transaction) []BudgetLine {
	lines := make([]BudgetLine, 0, len(cats))
	known := make(map[string]bool, len(cats))
	for _, c := range cats {
		known[c.Name] = true
		lines = append(lines, BudgetRemaining(c, txs))
	}
	var orphaned Money
	var orphanCount int
	for _, t := range txs {
		if t.Type == TypeExpense && !known[t.Category] {
			orphaned += t.Amount
			orphanCount++
		}
	}
	if orphanCount > 0 {
		lines = append(lines, BudgetLine{
			Name:      UncategorizedBucket,
			Spent:     orphaned,
			Remaining: -orphaned,
			Overspent: true,
		})
	}
	return lines
}

// DefaultCategorySet is the 50/30/20 onboarding template. The group
// percentages are advisory allocation hints; nothing enforces that
// budgeted amounts across categories sum to income.
func DefaultCategorySet() []Category {
	groups := []struct {
		name string
		typ  EntryType
		cats []string
	}{
		{"Needs (50%)", TypeExpense, []string{"Housing", "Groceries", "Utilities", "Transport", "Health"}},
		{"Wants (30%)", TypeExpense, []string{"Dining out", "Entertainment", "Shopping", "Travel"}},
		{"Savings (20%)", TypeExpense, []string{"Emergency fund", "Investments"}},
		{"Income", TypeIncome, []string{"Salary", "Side income"}},
	}
	var out []Category
	order := 0
	for _, g := range groups {
		for _, name := range g.cats {
			out = append(out, Category{
				Name:      name,
				Type:      g.typ,
				Group:     g.name,
				IsDefault: true,
				Order:     order,
			})
			order++
		}
	}
	return out
}
