package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	MaxTitleLen   = 80
	MaxContentLen = 500
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when client-supplied fields violate record rules.
var ErrValidation = errors.New("validation failed")

// Todo is the persisted task record. Owner is nil only for legacy or seeded
// records created without one; every API-created todo carries the id of its
// authenticated creator.
type Todo struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Owner      *int64    `json:"owner"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	IsFinished bool      `json:"is_finished"`
}

// User is the read-only view over an account: identity plus the ids of the
// todos it owns, most recently touched first.
type User struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Todos    []int64 `json:"todos"`
}

// Caller is the authenticated identity a handler acts on behalf of.
type Caller struct {
	ID       int64
	Username string
}

// TodoFilter holds the optional equality constraints of a list query.
// Nil fields are skipped; set fields are ANDed together.
type TodoFilter struct {
	Title      *string
	Content    *string
	Owner      *int64
	IsFinished *bool
	CreatedAt  *time.Time
	UpdatedAt  *time.Time
}

// IsZero reports whether no constraint is set.
func (f TodoFilter) IsZero() bool {
	return f.Title == nil && f.Content == nil && f.Owner == nil &&
		f.IsFinished == nil && f.CreatedAt == nil && f.UpdatedAt == nil
}

// TodoPatch is a partial update: nil fields are left unchanged.
type TodoPatch struct {
	Title      *string
	Content    *string
	IsFinished *bool
}

// ValidateTitle rejects titles that are blank after trimming or over length.
// The stored value is the raw input; trimming applies to the check only.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title must not be blank", ErrValidation)
	}
	if len(title) > MaxTitleLen {
		return fmt.Errorf("%w: title exceeds %d characters", ErrValidation, MaxTitleLen)
	}
	return nil
}

// ValidateContent rejects content that is blank after trimming or over length.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: content must not be blank", ErrValidation)
	}
	if len(content) > MaxContentLen {
		return fmt.Errorf("%w: content exceeds %d characters", ErrValidation, MaxContentLen)
	}
	return nil
}

// ValidateTodoFields checks both required fields, reporting the first error.
func ValidateTodoFields(title, content string) error {
	if err := ValidateTitle(title); err != nil {
		return err
	}
	return ValidateContent(content)
}
