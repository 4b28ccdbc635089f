package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// CreateUser persists a new account. Emails are normalized to lower
// case; a duplicate email surfaces as Conflict.
func (r *Repository) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Email == "" {
		return core.User{}, core.NewValidationError("email", "empty")
	}
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, google_subject, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.GoogleSubject, u.CreatedAt)
	if err != nil {
		return core.User{}, storeErr("insert user", err)
	}
	return u, nil
}

// GetUserByEmail looks an account up by its normalized email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, google_subject, created_at
		FROM users WHERE email = ?`, strings.ToLower(strings.TrimSpace(email)))
	u, err := scanUser(row)
	if err != nil {
		return core.User{}, storeErr("get user by email", err)
	}
	return u, nil
}

// GetUserByGoogleSubject looks an account up by its stable OAuth
// subject id.
func (r *Repository) GetUserByGoogleSubject(ctx context.Context, subject string) (core.User, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, google_subject, created_at
		FROM users WHERE google_subject = ? AND google_subject <> ''`, subject)
	u, err := scanUser(row)
	if err != nil {
		return core.User{}, storeErr("get user by google subject", err)
	}
	return u, nil
}

// LinkGoogleSubject attaches a verified OAuth subject to an existing
// password account, so both sign-in paths resolve to the same ledger.
func (r *Repository) LinkGoogleSubject(ctx context.Context, userID, subject string) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET google_subject = ? WHERE id = ?`, subject, userID)
	if err != nil {
		return storeErr("link google subject", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("link google subject", err)
	}
	if n == 0 {
		return storeErr("link google subject", sql.ErrNoRows)
	}
	return nil
}

// CreateSession stores an issued bearer token.
func (r *Repository) CreateSession(ctx context.Context, token, userID string, expiresAt time.Time) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, expires_at, created_at)
		VALUES (?, ?, ?, ?)`, token, userID, expiresAt, time.Now().UTC())
	if err != nil {
		return storeErr("insert session", err)
	}
	return nil
}

// GetSession resolves a bearer token to its user id. Expired tokens
// read as not found.
func (r *Repository) GetSession(ctx context.Context, token string) (string, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	var userID string
	var expiresAt time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, expires_at FROM sessions WHERE token = ?`, token).
		Scan(&userID, &expiresAt)
	if err != nil {
		return "", storeErr("get session", err)
	}
	if time.Now().After(expiresAt) {
		return "", storeErr("get session", sql.ErrNoRows)
	}
	return userID, nil
}

// DeleteSession revokes a bearer token. Deleting an unknown token is
// not an error: logout is idempotent.
func (r *Repository) DeleteSession(ctx context.Context, token string) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return storeErr("delete session", err)
	}
	return nil
}

func scanUser(row rowScanner) (core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.GoogleSubject, &u.CreatedAt)
	if err != nil {
		return core.User{}, err
	}
	return u, nil
}
