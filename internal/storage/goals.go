package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// GoalPatch is a partial update: only non-nil fields change.
type GoalPatch struct {
	Title         *string
	TargetAmount  *core.Money
	TargetDate    *time.Time
	Category      *string
	Priority      *core.GoalPriority
	Description   *string
	CurrentAmount *core.Money
	Status        *core.GoalStatus
}

// CreateGoal validates, assigns an id, and persists the goal. New
// goals start active with zero funded unless the caller says
// otherwise.
func (r *Repository) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if g.Priority == "" {
		g.Priority = core.PriorityMedium
	}
	if g.Status == "" {
		g.Status = core.GoalActive
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	now := time.Now().UTC()
	g.ID = uuid.NewString()
	g.CreatedAt = now
	g.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO goals (id, user_id, title, target_amount, target_date, category, priority, description, current_amount, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Title, int64(g.TargetAmount), g.TargetDate, g.Category, string(g.Priority), g.Description, int64(g.CurrentAmount), string(g.Status), g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return core.Goal{}, storeErr("insert goal", err)
	}
	return g, nil
}

// ListGoals returns the user's goals in creation order.
func (r *Repository) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, title, target_amount, target_date, category, priority, description, current_amount, status, created_at, updated_at
		FROM goals WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, storeErr("list goals", err)
	}
	defer rows.Close()

	goals := make([]core.Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, storeErr("scan goal", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate goals", err)
	}
	return goals, nil
}

// GetGoal fetches one goal owned by userID.
func (r *Repository) GetGoal(ctx context.Context, userID, id string) (core.Goal, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, target_amount, target_date, category, priority, description, current_amount, status, created_at, updated_at
		FROM goals WHERE user_id = ? AND id = ?`, userID, id)
	g, err := scanGoal(row)
	if err != nil {
		return core.Goal{}, storeErr("get goal", err)
	}
	return g, nil
}

// UpdateGoal applies a partial update, revalidating the merged record.
func (r *Repository) UpdateGoal(ctx context.Context, userID, id string, patch GoalPatch) (core.Goal, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	var updated core.Goal
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT id, user_id, title, target_amount, target_date, category, priority, description, current_amount, status, created_at, updated_at
			FROM goals WHERE user_id = ? AND id = ?`, userID, id)
		g, err := scanGoal(row)
		if err != nil {
			return storeErr("get goal", err)
		}
		if patch.Title != nil {
			g.Title = *patch.Title
		}
		if patch.TargetAmount != nil {
			g.TargetAmount = *patch.TargetAmount
		}
		if patch.TargetDate != nil {
			g.TargetDate = *patch.TargetDate
		}
		if patch.Category != nil {
			g.Category = *patch.Category
		}
		if patch.Priority != nil {
			g.Priority = *patch.Priority
		}
		if patch.Description != nil {
			g.Description = *patch.Description
		}
		if patch.CurrentAmount != nil {
			g.CurrentAmount = *patch.CurrentAmount
		}
		if patch.Status != nil {
			g.Status = *patch.Status
		}
		if err := g.Validate(); err != nil {
			return err
		}
		g.UpdatedAt = time.Now().UTC()
		_, err = tx.ExecContext(ctx, `
			UPDATE goals SET title = ?, target_amount = ?, target_date = ?, category = ?, priority = ?, description = ?, current_amount = ?, status = ?, updated_at = ?
			WHERE user_id = ? AND id = ?`,
			g.Title, int64(g.TargetAmount), g.TargetDate, g.Category, string(g.Priority), g.Description, int64(g.CurrentAmount), string(g.Status), g.UpdatedAt, userID, id)
		if err != nil {
			return storeErr("update goal", err)
		}
		updated = g
		return nil
	})
	if err != nil {
		return core.Goal{}, err
	}
	return updated, nil
}

// DeleteGoal removes one goal.
func (r *Repository) DeleteGoal(ctx context.Context, userID, id string) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM goals WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return storeErr("delete goal", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("delete goal", err)
	}
	if n == 0 {
		return storeErr("delete goal", sql.ErrNoRows)
	}
	return nil
}

// AddContribution moves the goal's funded amount by delta. Negative
// deltas are corrections and are allowed as long as they do not drive
// the funded amount below zero; that case is rejected, not clamped.
// Overshooting the target is fine.
func (r *Repository) AddContribution(ctx context.Context, userID, id string, delta core.Money) (core.Goal, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	var updated core.Goal
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT id, user_id, title, target_amount, target_date, category, priority, description, current_amount, status, created_at, updated_at
			FROM goals WHERE user_id = ? AND id = ?`, userID, id)
		g, err := scanGoal(row)
		if err != nil {
			return storeErr("get goal", err)
		}
		next := g.CurrentAmount + delta
		if next < 0 {
			return core.NewValidationError("amount", "contribution would make the funded amount negative")
		}
		g.CurrentAmount = next
		g.UpdatedAt = time.Now().UTC()
		_, err = tx.ExecContext(ctx,
			`UPDATE goals SET current_amount = ?, updated_at = ? WHERE user_id = ? AND id = ?`,
			int64(g.CurrentAmount), g.UpdatedAt, userID, id)
		if err != nil {
			return storeErr("update goal contribution", err)
		}
		updated = g
		return nil
	})
	if err != nil {
		return core.Goal{}, err
	}
	return updated, nil
}

func scanGoal(row rowScanner) (core.Goal, error) {
	var g core.Goal
	var target, current int64
	var priority, status string
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &target, &g.TargetDate, &g.Category, &priority, &g.Description, &current, &status, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return core.Goal{}, err
	}
	g.TargetAmount = core.Money(target)
	g.CurrentAmount = core.Money(current)
	g.Priority = core.GoalPriority(priority)
	g.Status = core.GoalStatus(status)
	return g, nil
}
