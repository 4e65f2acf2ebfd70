package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"todoapi/internal/models"
	"todoapi/pkg/logger"
)

// CreateUser inserts an account row. Used by seeding and operational tooling;
// the HTTP surface over users is read-only.
func (s *Store) CreateUser(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{Username: username, Todos: []int64{}}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (username) VALUES ($1) RETURNING id`, username).Scan(&user.ID)
	if err != nil {
		logger.Error(ctx, "Repository CreateUser failed", "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// ListUsers returns all users with the ids of their owned todos, most
// recently updated todo first.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, username FROM users ORDER BY id`)
	if err != nil {
		logger.Error(ctx, "Repository ListUsers failed", "error", err)
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	users := []models.User{}
	index := map[int64]int{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.Todos = []int64{}
		index[u.ID] = len(users)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	todoRows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id FROM todos WHERE user_id IS NOT NULL ORDER BY updated_at DESC`)
	if err != nil {
		logger.Error(ctx, "Repository ListUsers todos failed", "error", err)
		return nil, fmt.Errorf("list user todos: %w", err)
	}
	defer todoRows.Close()
	for todoRows.Next() {
		var todoID, ownerID int64
		if err := todoRows.Scan(&todoID, &ownerID); err != nil {
			return nil, fmt.Errorf("scan user todo: %w", err)
		}
		if i, ok := index[ownerID]; ok {
			users[i].Todos = append(users[i].Todos, todoID)
		}
	}
	return users, todoRows.Err()
}

// GetUser returns one user with owned todo ids, or models.ErrNotFound.
func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username FROM users WHERE id = $1`, id).Scan(&u.ID, &u.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository GetUser failed", "error", err, "id", id)
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.Todos = []int64{}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM todos WHERE user_id = $1 ORDER BY updated_at DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("get user todos: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var todoID int64
		if err := rows.Scan(&todoID); err != nil {
			return nil, fmt.Errorf("scan user todo: %w", err)
		}
		u.Todos = append(u.Todos, todoID)
	}
	return &u, rows.Err()
}

// DeleteUser removes a user and every todo it owns in one transaction.
// The cascade is deliberate repository logic rather than a foreign-key
// action so the two deletes are visible and atomic together.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM todos WHERE user_id = $1`, id); err != nil {
		logger.Error(ctx, "Repository DeleteUser cascade failed", "error", err, "id", id)
		return fmt.Errorf("delete user todos: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		logger.Error(ctx, "Repository DeleteUser failed", "error", err, "id", id)
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return tx.Commit()
}
