package http

import (
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/storage"
)

// Amounts arrive as decimal strings ("120.50") and leave as integer
// minor units; direction never rides the sign.
type walletRequest struct {
	Name      string  `json:"name"`
	Balance   *string `json:"balance,omitempty"`
	Icon      *string `json:"icon,omitempty"`
	Color     *string `json:"color,omitempty"`
	IsDefault *bool   `json:"isDefault,omitempty"`
}

type walletResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Balance   int64     `json:"balance"`
	Icon      string    `json:"icon,omitempty"`
	Color     string    `json:"color,omitempty"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toWalletResponse(w core.Wallet) walletResponse {
	return walletResponse{
		ID:        w.ID,
		Name:      w.Name,
		Balance:   int64(w.Balance),
		Icon:      w.Icon,
		Color:     w.Color,
		IsDefault: w.IsDefault,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func (s *Server) handleListWallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := s.repo.ListWallets(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]walletResponse, 0, len(wallets))
	for _, wl := range wallets {
		out = append(out, toWalletResponse(wl))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	var req walletRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	wallet := core.Wallet{
		UserID: userID(r),
		Name:   sanitizeInput(req.Name),
	}
	if req.Balance != nil {
		// Opening balances may legitimately be zero, so an empty string
		// simply means zero here.
		if *req.Balance != "" {
			m, err := parseAmountAllowZero("balance", *req.Balance)
			if err != nil {
				writeError(w, r, err)
				return
			}
			wallet.Balance = m
		}
	}
	if req.Icon != nil {
		wallet.Icon = sanitizeInput(*req.Icon)
	}
	if req.Color != nil {
		wallet.Color = sanitizeInput(*req.Color)
	}
	if req.IsDefault != nil {
		wallet.IsDefault = *req.IsDefault
	}

	created, err := s.repo.CreateWallet(r.Context(), wallet)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.publish(r.Context(), created.UserID, events.EntityWallet, events.ActionCreated, created.ID)
	writeJSON(w, http.StatusCreated, toWalletResponse(created))
}

func (s *Server) handleGetWallet(w http.ResponseWriter, r *http.Request) {
	wallet, err := s.repo.GetWallet(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWalletResponse(wallet))
}

func (s *Server) handleUpdateWallet(w http.ResponseWriter, r *http.Request) {
	var req walletRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var patch storage.WalletPatch
	if req.Name != "" {
		name := sanitizeInput(req.Name)
		patch.Name = &name
	}
	if req.Balance != nil {
		m, err := parseAmountAllowZero("balance", *req.Balance)
		if err != nil {
			writeError(w, r, err)
			return
		}
		patch.Balance = &m
	}
	if req.Icon != nil {
		icon := sanitizeInput(*req.Icon)
		patch.Icon = &icon
	}
	if req.Color != nil {
		color := sanitizeInput(*req.Color)
		patch.Color = &color
	}
	patch.IsDefault = req.IsDefault

	updated, err := s.repo.UpdateWallet(r.Context(), userID(r), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.publish(r.Context(), updated.UserID, events.EntityWallet, events.ActionUpdated, updated.ID)
	writeJSON(w, http.StatusOK, toWalletResponse(updated))
}

func (s *Server) handleDeleteWallet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.repo.DeleteWallet(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.publish(r.Context(), userID(r), events.EntityWallet, events.ActionDeleted, id)
	writeJSON(w, http.StatusNoContent, nil)
}
