package http

import (
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
)

type dashboardResponse struct {
	TotalAssets  int64 `json:"totalAssets"`
	TotalIncome  int64 `json:"totalIncome"`
	TotalExpense int64 `json:"totalExpense"`
	NetBalance   int64 `json:"netBalance"`

	MonthIncome  int64 `json:"monthIncome"`
	MonthExpense int64 `json:"monthExpense"`

	Wallets    []walletResponse   `json:"wallets"`
	ByCategory []categorySpendRow `json:"byCategory"`
	Budget     []budgetLineRow    `json:"budget"`
	Goals      goalSummary        `json:"goals"`

	GeneratedAt time.Time `json:"generatedAt"`
}

type categorySpendRow struct {
	Name       string  `json:"name"`
	Total      int64   `json:"total"`
	Percentage float64 `json:"percentage"`
	Count      int     `json:"count"`
}

type budgetLineRow struct {
	CategoryID string `json:"categoryId,omitempty"`
	Name       string `json:"name"`
	Group      string `json:"group,omitempty"`
	Budgeted   int64  `json:"budgeted"`
	Spent      int64  `json:"spent"`
	Remaining  int64  `json:"remaining"`
	Overspent  bool   `json:"overspent"`
}

// handleDashboard assembles the aggregate view: wallets, category
// spend, budget lines, and goal totals. The four record sets are
// fetched concurrently; the result is cached per user until the next
// mutation.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	if cached, found := s.dashCache.Get(uid); found {
		slog.DebugContext(r.Context(), "Dashboard cache hit", "user_id", uid)
		writeJSON(w, http.StatusOK, cached)
		return
	}

	var (
		wallets []core.Wallet
		cats    []core.Category
		txs     []core.Transaction
		goals   []core.Goal
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		wallets, err = s.repo.ListWallets(ctx, uid)
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = s.repo.ListCategories(ctx, uid)
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = s.repo.AllTransactions(ctx, uid)
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = s.repo.ListGoals(ctx, uid)
		return err
	})
	if err := g.Wait(); err != nil {
		writeError(w, r, err)
		return
	}

	resp := buildDashboard(wallets, cats, txs, goals, time.Now().UTC())
	s.dashCache.Set(uid, resp)
	slog.DebugContext(r.Context(), "Dashboard cached", "user_id", uid, "transactions", len(txs))

	writeJSON(w, http.StatusOK, resp)
}

// buildDashboard is the pure assembly step, separated so tests can feed
// it snapshots directly.
func buildDashboard(wallets []core.Wallet, cats []core.Category, txs []core.Transaction, goals []core.Goal, now time.Time) dashboardResponse {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)
	monthStats := core.StatsByType(txs, &monthStart, &monthEnd)

	sum := core.SummarizeGoals(goals)

	resp := dashboardResponse{
		TotalAssets:  int64(core.TotalAssets(wallets)),
		TotalIncome:  int64(core.TotalIncome(txs)),
		TotalExpense: int64(core.TotalExpense(txs)),
		NetBalance:   int64(core.NetBalance(txs)),
		MonthIncome:  int64(monthStats.Income.Total),
		MonthExpense: int64(monthStats.Expense.Total),
		Wallets:      make([]walletResponse, 0, len(wallets)),
		ByCategory:   make([]categorySpendRow, 0),
		Budget:       make([]budgetLineRow, 0),
		Goals: goalSummary{
			TotalTarget:     int64(sum.TotalTarget),
			TotalCurrent:    int64(sum.TotalCurrent),
			OverallProgress: sum.OverallProgress,
			Count:           sum.Count,
		},
		GeneratedAt: now,
	}

	for _, wl := range wallets {
		resp.Wallets = append(resp.Wallets, toWalletResponse(wl))
	}
	for _, row := range core.SpendByCategory(txs) {
		resp.ByCategory = append(resp.ByCategory, categorySpendRow{
			Name:       row.Name,
			Total:      int64(row.Total),
			Percentage: row.Percentage,
			Count:      row.Count,
		})
	}
	for _, line := range core.AllocationReport(cats, txs) {
		resp.Budget = append(resp.Budget, budgetLineRow{
			CategoryID: line.CategoryID,
			Name:       line.Name,
			Group:      line.Group,
			Budgeted:   int64(line.Budgeted),
			Spent:      int64(line.Spent),
			Remaining:  int64(line.Remaining),
			Overspent:  line.Overspent,
		})
	}
	return resp
}
