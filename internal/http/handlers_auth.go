package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/core"
)

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleLoginRequest struct {
	IDToken string `json:"idToken"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type sessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      userResponse `json:"user"`
}

func toUserResponse(u core.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

// issueSession mints a bearer token for the user and stores it.
func (s *Server) issueSession(r *http.Request, u core.User) (sessionResponse, error) {
	token, err := auth.NewToken()
	if err != nil {
		return sessionResponse{}, err
	}
	expiresAt := time.Now().UTC().Add(auth.SessionTTL)
	if err := s.repo.CreateSession(r.Context(), token, u.ID, expiresAt); err != nil {
		return sessionResponse{}, err
	}
	return sessionResponse{Token: token, ExpiresAt: expiresAt, User: toUserResponse(u)}, nil
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		writeError(w, r, core.NewValidationError("email", "invalid"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	u, err := s.repo.CreateUser(r.Context(), core.User{
		Email:        email,
		Name:         sanitizeInput(req.Name),
		PasswordHash: hash,
	})
	if err != nil {
		// A duplicate email reads as conflict; do not leak which emails exist
		// beyond that.
		writeError(w, r, err)
		return
	}

	sess, err := s.issueSession(r, u)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "User registered", "user_id", u.ID)
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := s.repo.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			writeError(w, r, auth.ErrInvalidCredentials)
			return
		}
		writeError(w, r, err)
		return
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		writeError(w, r, auth.ErrInvalidCredentials)
		return
	}

	sess, err := s.issueSession(r, u)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "User logged in", "user_id", u.ID)
	writeJSON(w, http.StatusOK, sess)
}

// handleGoogleLogin signs in (or up) with a verified Google ID token.
// An existing password account with the same email is linked rather
// than duplicated.
func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.google == nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "google sign-in not configured"})
		return
	}

	var req googleLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ident, err := s.google.Verify(r.Context(), req.IDToken)
	if err != nil {
		writeError(w, r, err)
		return
	}

	u, err := s.repo.GetUserByGoogleSubject(r.Context(), ident.Subject)
	if errors.Is(err, core.ErrNotFound) {
		u, err = s.repo.GetUserByEmail(r.Context(), ident.Email)
		switch {
		case err == nil:
			if err := s.repo.LinkGoogleSubject(r.Context(), u.ID, ident.Subject); err != nil {
				writeError(w, r, err)
				return
			}
		case errors.Is(err, core.ErrNotFound):
			u, err = s.repo.CreateUser(r.Context(), core.User{
				Email:         ident.Email,
				GoogleSubject: ident.Subject,
			})
			if err != nil {
				writeError(w, r, err)
				return
			}
			slog.InfoContext(r.Context(), "User registered via Google", "user_id", u.ID)
		default:
			writeError(w, r, err)
			return
		}
	} else if err != nil {
		writeError(w, r, err)
		return
	}

	sess, err := s.issueSession(r, u)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "User logged in via Google", "user_id", u.ID)
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteSession(r.Context(), bearerToken(r)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
