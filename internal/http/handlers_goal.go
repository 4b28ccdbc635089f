package http

import (
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/storage"
)

type goalRequest struct {
	Title         string  `json:"title"`
	TargetAmount  string  `json:"targetAmount"`
	TargetDate    string  `json:"targetDate"`
	Category      *string `json:"category,omitempty"`
	Priority      *string `json:"priority,omitempty"`
	Description   *string `json:"description,omitempty"`
	CurrentAmount *string `json:"currentAmount,omitempty"`
	Status        *string `json:"status,omitempty"`
}

type contributionRequest struct {
	// Amount is the signed contribution delta: "250.00" adds funds,
	// withdrawals go through the negative flag since amounts themselves
	// are never signed.
	Amount   string `json:"amount"`
	Withdraw bool   `json:"withdraw,omitempty"`
}

type goalResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	TargetAmount  int64     `json:"targetAmount"`
	TargetDate    time.Time `json:"targetDate"`
	Category      string    `json:"category,omitempty"`
	Priority      string    `json:"priority"`
	Description   string    `json:"description,omitempty"`
	CurrentAmount int64     `json:"currentAmount"`
	Status        string    `json:"status"`
	Progress      float64   `json:"progress"`
	DaysRemaining int       `json:"daysRemaining"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type goalListResponse struct {
	Goals   []goalResponse `json:"goals"`
	Summary goalSummary    `json:"summary"`
}

type goalSummary struct {
	TotalTarget     int64   `json:"totalTarget"`
	TotalCurrent    int64   `json:"totalCurrent"`
	OverallProgress float64 `json:"overallProgress"`
	Count           int     `json:"count"`
}

func toGoalResponse(g core.Goal) goalResponse {
	return goalResponse{
		ID:            g.ID,
		Title:         g.Title,
		TargetAmount:  int64(g.TargetAmount),
		TargetDate:    g.TargetDate,
		Category:      g.Category,
		Priority:      string(g.Priority),
		Description:   g.Description,
		CurrentAmount: int64(g.CurrentAmount),
		Status:        string(g.Status),
		Progress:      core.Progress(g),
		DaysRemaining: core.DaysRemaining(g.TargetDate, time.Now()),
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.repo.ListGoals(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	sum := core.SummarizeGoals(goals)
	out := goalListResponse{
		Goals: make([]goalResponse, 0, len(goals)),
		Summary: goalSummary{
			TotalTarget:     int64(sum.TotalTarget),
			TotalCurrent:    int64(sum.TotalCurrent),
			OverallProgress: sum.OverallProgress,
			Count:           sum.Count,
		},
	}
	for _, g := range goals {
		out.Goals = append(out.Goals, toGoalResponse(g))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	target, err := parseAmountField("targetAmount", req.TargetAmount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	targetDate, err := parseDate(req.TargetDate)
	if err != nil {
		writeError(w, r, core.NewValidationError("targetDate", "must be YYYY-MM-DD or RFC 3339"))
		return
	}

	goal := core.Goal{
		UserID:       userID(r),
		Title:        sanitizeInput(req.Title),
		TargetAmount: target,
		TargetDate:   targetDate,
	}
	if req.Category != nil {
		goal.Category = sanitizeInput(*req.Category)
	}
	if req.Priority != nil {
		goal.Priority = core.GoalPriority(*req.Priority)
	}
	if req.Description != nil {
		goal.Description = sanitizeInput(*req.Description)
	}
	if req.CurrentAmount != nil && *req.CurrentAmount != "" {
		m, err := parseAmountAllowZero("currentAmount", *req.CurrentAmount)
		if err != nil {
			writeError(w, r, err)
			return
		}
		goal.CurrentAmount = m
	}

	created, err := s.repo.CreateGoal(r.Context(), goal)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.publish(r.Context(), created.UserID, events.EntityGoal, events.ActionCreated, created.ID)
	writeJSON(w, http.StatusCreated, toGoalResponse(created))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var patch storage.GoalPatch
	if req.Title != "" {
		title := sanitizeInput(req.Title)
		patch.Title = &title
	}
	if req.TargetAmount != "" {
		m, err := parseAmountField("targetAmount", req.TargetAmount)
		if err != nil {
			writeError(w, r, err)
			return
		}
		patch.TargetAmount = &m
	}
	if req.TargetDate != "" {
		d, err := parseDate(req.TargetDate)
		if err != nil {
			writeError(w, r, core.NewValidationError("targetDate", "must be YYYY-MM-DD or RFC 3339"))
			return
		}
		patch.TargetDate = &d
	}
	if req.Category != nil {
		cat := sanitizeInput(*req.Category)
		patch.Category = &cat
	}
	if req.Priority != nil {
		p := core.GoalPriority(*req.Priority)
		patch.Priority = &p
	}
	if req.Description != nil {
		desc := sanitizeInput(*req.Description)
		patch.Description = &desc
	}
	if req.CurrentAmount != nil {
		m, err := parseAmountAllowZero("currentAmount", *req.CurrentAmount)
		if err != nil {
			writeError(w, r, err)
			return
		}
		patch.CurrentAmount = &m
	}
	if req.Status != nil {
		st := core.GoalStatus(*req.Status)
		patch.Status = &st
	}

	updated, err := s.repo.UpdateGoal(r.Context(), userID(r), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.publish(r.Context(), updated.UserID, events.EntityGoal, events.ActionUpdated, updated.ID)
	writeJSON(w, http.StatusOK, toGoalResponse(updated))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.repo.DeleteGoal(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.publish(r.Context(), userID(r), events.EntityGoal, events.ActionDeleted, id)
	writeJSON(w, http.StatusNoContent, nil)
}

// handleAddContribution moves funds into (or out of) a goal. A
// withdrawal that would take the funded amount below zero is rejected.
func (s *Server) handleAddContribution(w http.ResponseWriter, r *http.Request) {
	var req contributionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	delta, err := parseAmountField("amount", req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req.Withdraw {
		delta = -delta
	}

	id := r.PathValue("id")
	updated, err := s.repo.AddContribution(r.Context(), userID(r), id, delta)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.publish(r.Context(), updated.UserID, events.EntityGoal, events.ActionUpdated, id)
	writeJSON(w, http.StatusOK, toGoalResponse(updated))
}
