package repository

import (
	"fmt"
	"strings"

	"todoapi/internal/models"
)

// buildListQuery turns a TodoFilter into a SELECT with ANDed equality
// conditions, skipping unset fields. Order is always updated_at DESC.
func buildListQuery(f models.TodoFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if f.Title != nil {
		add("title", *f.Title)
	}
	if f.Content != nil {
		add("content", *f.Content)
	}
	if f.Owner != nil {
		add("user_id", *f.Owner)
	}
	if f.IsFinished != nil {
		add("is_finished", *f.IsFinished)
	}
	if f.CreatedAt != nil {
		add("created_at", *f.CreatedAt)
	}
	if f.UpdatedAt != nil {
		add("updated_at", *f.UpdatedAt)
	}

	query := `SELECT ` + todoColumns + ` FROM todos`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY updated_at DESC"
	return query, args
}
