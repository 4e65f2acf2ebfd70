package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todoapi/internal/models"
	"todoapi/pkg/logger"
)

const todoColumns = `id, title, content, user_id, created_at, updated_at, is_finished`

// Store is the record access layer over Postgres.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateTodo inserts a new todo owned by ownerID. Validation runs before any
// SQL so a rejected create leaves storage unchanged. A nil ownerID is only
// for seeded/legacy records; API creates always pass the caller's id.
func (s *Store) CreateTodo(ctx context.Context, title, content string, ownerID *int64, isFinished bool) (*models.Todo, error) {
	if err := models.ValidateTodoFields(title, content); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	todo := &models.Todo{
		Title:      title,
		Content:    content,
		Owner:      ownerID,
		CreatedAt:  now,
		UpdatedAt:  now,
		IsFinished: isFinished,
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO todos (title, content, user_id, created_at, updated_at, is_finished)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		title, content, ownerID, now, now, isFinished).Scan(&todo.ID)
	if err != nil {
		logger.Error(ctx, "Repository CreateTodo failed", "error", err)
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

// GetTodo returns the todo with the given id, or models.ErrNotFound.
func (s *Store) GetTodo(ctx context.Context, id int64) (*models.Todo, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = $1`, id)
	todo, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository GetTodo failed", "error", err, "id", id)
		return nil, fmt.Errorf("get todo: %w", err)
	}
	return todo, nil
}

// ListTodos returns todos matching the filter, most recently updated first.
func (s *Store) ListTodos(ctx context.Context, filter models.TodoFilter) ([]models.Todo, error) {
	query, args := buildListQuery(filter)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error(ctx, "Repository ListTodos failed", "error", err)
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()
	todos := []models.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			logger.Error(ctx, "Repository scan todo failed", "error", err)
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, *todo)
	}
	return todos, rows.Err()
}

// ReplaceTodo overwrites all client-editable fields. Owner and created_at are
// never touched by this path. Returns models.ErrNotFound on an unknown id.
func (s *Store) ReplaceTodo(ctx context.Context, id int64, title, content string, isFinished bool) (*models.Todo, error) {
	if err := models.ValidateTodoFields(title, content); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx,
		`UPDATE todos SET title = $1, content = $2, is_finished = $3, updated_at = $4
		 WHERE id = $5 RETURNING `+todoColumns,
		title, content, isFinished, time.Now().UTC(), id)
	todo, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository ReplaceTodo failed", "error", err, "id", id)
		return nil, fmt.Errorf("replace todo: %w", err)
	}
	return todo, nil
}

// PatchTodo applies a partial update in a single COALESCE statement so two
// concurrent patches to the same row cannot interleave field writes.
func (s *Store) PatchTodo(ctx context.Context, id int64, patch models.TodoPatch) (*models.Todo, error) {
	if patch.Title != nil {
		if err := models.ValidateTitle(*patch.Title); err != nil {
			return nil, err
		}
	}
	if patch.Content != nil {
		if err := models.ValidateContent(*patch.Content); err != nil {
			return nil, err
		}
	}
	row := s.db.QueryRowContext(ctx,
		`UPDATE todos SET
			title = COALESCE($1, title),
			content = COALESCE($2, content),
			is_finished = COALESCE($3, is_finished),
			updated_at = $4
		 WHERE id = $5 RETURNING `+todoColumns,
		patch.Title, patch.Content, patch.IsFinished, time.Now().UTC(), id)
	todo, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository PatchTodo failed", "error", err, "id", id)
		return nil, fmt.Errorf("patch todo: %w", err)
	}
	return todo, nil
}

// DeleteTodo removes a todo by id. Returns models.ErrNotFound when the id
// does not exist, so a second delete of the same id reports 404.
func (s *Store) DeleteTodo(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		logger.Error(ctx, "Repository DeleteTodo failed", "error", err, "id", id)
		return fmt.Errorf("delete todo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*models.Todo, error) {
	var t models.Todo
	var owner sql.NullInt64
	if err := row.Scan(&t.ID, &t.Title, &t.Content, &owner, &t.CreatedAt, &t.UpdatedAt, &t.IsFinished); err != nil {
		return nil, err
	}
	if owner.Valid {
		t.Owner = &owner.Int64
	}
	return &t, nil
}
