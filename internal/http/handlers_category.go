package http

import (
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/storage"
)

type categoryRequest struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Group    *string `json:"group,omitempty"`
	Budgeted *string `json:"budgeted,omitempty"`
	Icon     *string `json:"icon,omitempty"`
	Order    *int    `json:"order,omitempty"`
}

type replaceCategoriesRequest struct {
	Categories []categoryRequest `json:"categories"`
	// UseDefaults swaps the payload for the built-in 50/30/20 template.
	UseDefaults bool `json:"useDefaults,omitempty"`
}

type categoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Group     string    `json:"group,omitempty"`
	Budgeted  int64     `json:"budgeted"`
	Icon      string    `json:"icon,omitempty"`
	IsDefault bool      `json:"isDefault"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toCategoryResponse(c core.Category) categoryResponse {
	return categoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Type:      string(c.Type),
		Group:     c.Group,
		Budgeted:  int64(c.Budgeted),
		Icon:      c.Icon,
		IsDefault: c.IsDefault,
		Order:     c.Order,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (req categoryRequest) toCategory(userID string) (core.Category, error) {
	c := core.Category{
		UserID: userID,
		Name:   sanitizeInput(req.Name),
		Type:   core.EntryType(req.Type),
	}
	if req.Group != nil {
		c.Group = sanitizeInput(*req.Group)
	}
	if req.Budgeted != nil && *req.Budgeted != "" {
		m, err := parseAmountAllowZero("budgeted", *req.Budgeted)
		if err != nil {
			return core.Category{}, err
		}
		c.Budgeted = m
	}
	if req.Icon != nil {
		c.Icon = sanitizeInput(*req.Icon)
	}
	if req.Order != nil {
		c.Order = *req.Order
	}
	return c, nil
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.repo.ListCategories(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, toCategoryResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	cat, err := req.toCategory(userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.repo.CreateCategory(r.Context(), cat)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.publish(r.Context(), created.UserID, events.EntityCategory, events.ActionCreated, created.ID)
	writeJSON(w, http.StatusCreated, toCategoryResponse(created))
}

// handleReplaceCategories swaps the user's entire category set in one
// atomic operation. Budgeted allocations change here; wallet balances
// and recorded transactions are untouched.
func (s *Server) handleReplaceCategories(w http.ResponseWriter, r *http.Request) {
	var req replaceCategoriesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	uid := userID(r)
	var cats []core.Category
	if req.UseDefaults {
		cats = core.DefaultCategorySet()
		for i := range cats {
			cats[i].UserID = uid
		}
	} else {
		cats = make([]core.Category, 0, len(req.Categories))
		for _, cr := range req.Categories {
			c, err := cr.toCategory(uid)
			if err != nil {
				writeError(w, r, err)
				return
			}
			cats = append(cats, c)
		}
	}

	replaced, err := s.repo.ReplaceCategories(r.Context(), uid, cats)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.publish(r.Context(), uid, events.EntityCategory, events.ActionReplaced, "")
	out := make([]categoryResponse, 0, len(replaced))
	for _, c := range replaced {
		out = append(out, toCategoryResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var patch storage.CategoryPatch
	if req.Name != "" {
		name := sanitizeInput(req.Name)
		patch.Name = &name
	}
	if req.Type != "" {
		typ := core.EntryType(req.Type)
		patch.Type = &typ
	}
	if req.Group != nil {
		group := sanitizeInput(*req.Group)
		patch.Group = &group
	}
	if req.Budgeted != nil {
		m, err := parseAmountAllowZero("budgeted", *req.Budgeted)
		if err != nil {
			writeError(w, r, err)
			return
		}
		patch.Budgeted = &m
	}
	if req.Icon != nil {
		icon := sanitizeInput(*req.Icon)
		patch.Icon = &icon
	}
	patch.Order = req.Order

	updated, err := s.repo.UpdateCategory(r.Context(), userID(r), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.publish(r.Context(), updated.UserID, events.EntityCategory, events.ActionUpdated, updated.ID)
	writeJSON(w, http.StatusOK, toCategoryResponse(updated))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.repo.DeleteCategory(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.publish(r.Context(), userID(r), events.EntityCategory, events.ActionDeleted, id)
	writeJSON(w, http.StatusNoContent, nil)
}
