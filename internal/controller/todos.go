package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"todoapi/internal/middleware"
	"todoapi/internal/models"
	"todoapi/pkg/logger"
)

// TodoStore is the record access layer the todo handlers need.
type TodoStore interface {
	CreateTodo(ctx context.Context, title, content string, ownerID *int64, isFinished bool) (*models.Todo, error)
	GetTodo(ctx context.Context, id int64) (*models.Todo, error)
	ListTodos(ctx context.Context, filter models.TodoFilter) ([]models.Todo, error)
	ReplaceTodo(ctx context.Context, id int64, title, content string, isFinished bool) (*models.Todo, error)
	PatchTodo(ctx context.Context, id int64, patch models.TodoPatch) (*models.Todo, error)
	DeleteTodo(ctx context.Context, id int64) error
}

// ListCache caches the serialized unfiltered list response.
type ListCache interface {
	GetRawTodos(ctx context.Context) ([]byte, bool)
	SetRawTodos(ctx context.Context, b []byte)
	Invalidate(ctx context.Context)
}

// EventPublisher emits change events after successful mutations.
type EventPublisher interface {
	PublishTodoEvent(ctx context.Context, ev models.TodoEvent) error
}

// TodoController serves the /todos resource. Cache and events may be nil;
// both are coherence aids, never required for correctness.
type TodoController struct {
	store  TodoStore
	cache  ListCache
	events EventPublisher

	listGroup singleflight.Group
}

func NewTodoController(store TodoStore, cache ListCache, events EventPublisher) *TodoController {
	return &TodoController{store: store, cache: cache, events: events}
}

// AuthedHandler is a handler that receives the authenticated caller as an
// explicit argument instead of digging it out of request state.
type AuthedHandler func(c *gin.Context, caller models.Caller)

// WithCaller adapts an AuthedHandler into a gin handler, resolving the
// caller placed by the auth middleware.
func WithCaller(h AuthedHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := middleware.CallerFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		h(c, caller)
	}
}

type createBody struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	IsFinished *bool   `json:"is_finished"`
	// Ownership is server-assigned; a client supplying it is an error,
	// not something to silently ignore.
	User  json.RawMessage `json:"user"`
	Owner json.RawMessage `json:"owner"`
}

// Create handles POST /todos: 201 with the created record, owner = caller.
func (tc *TodoController) Create(c *gin.Context, caller models.Caller) {
	ctx := c.Request.Context()
	var body createBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if body.User != nil || body.Owner != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner is assigned by the server and must not be supplied"})
		return
	}
	title, content := strOrEmpty(body.Title), strOrEmpty(body.Content)
	isFinished := false
	if body.IsFinished != nil {
		isFinished = *body.IsFinished
	}
	todo, err := tc.store.CreateTodo(ctx, title, content, &caller.ID, isFinished)
	if err != nil {
		respondError(c, err)
		return
	}
	tc.afterChange(ctx, models.EventCreated, todo)
	c.JSON(http.StatusCreated, todo)
}

// List handles GET /todos: the filter set from query parameters, ANDed,
// ordered by updated_at descending, wrapped as {"results": [...]}.
// The unfiltered read is cache-first with a singleflight DB fill.
func (tc *TodoController) List(c *gin.Context, _ models.Caller) {
	ctx := c.Request.Context()
	filter, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !filter.IsZero() {
		todos, err := tc.store.ListTodos(ctx, filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": todos})
		return
	}

	if tc.cache != nil {
		if b, ok := tc.cache.GetRawTodos(ctx); ok {
			c.Data(http.StatusOK, "application/json", b)
			return
		}
	}
	v, err, _ := tc.listGroup.Do("todos", func() (interface{}, error) {
		todos, err := tc.store.ListTodos(context.WithoutCancel(ctx), models.TodoFilter{})
		if err != nil {
			return nil, err
		}
		return json.Marshal(gin.H{"results": todos})
	})
	if err != nil {
		respondError(c, err)
		return
	}
	b := v.([]byte)
	c.Data(http.StatusOK, "application/json", b)
	if tc.cache != nil {
		tc.cache.SetRawTodos(context.WithoutCancel(ctx), b)
	}
}

// Get handles GET /todos/:id: 200 with the record, or 404.
func (tc *TodoController) Get(c *gin.Context, _ models.Caller) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	todo, err := tc.store.GetTodo(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

type replaceBody struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	IsFinished *bool   `json:"is_finished"`
}

// Replace handles PUT /todos/:id: every client-editable field is required.
func (tc *TodoController) Replace(c *gin.Context, _ models.Caller) {
	ctx := c.Request.Context()
	id, ok := idParam(c)
	if !ok {
		return
	}
	var body replaceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if body.Title == nil || body.Content == nil || body.IsFinished == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, content and is_finished are required"})
		return
	}
	todo, err := tc.store.ReplaceTodo(ctx, id, *body.Title, *body.Content, *body.IsFinished)
	if err != nil {
		respondError(c, err)
		return
	}
	tc.afterChange(ctx, models.EventUpdated, todo)
	c.JSON(http.StatusOK, todo)
}

// Patch handles PATCH /todos/:id: any subset of editable fields; the rest
// stay untouched.
func (tc *TodoController) Patch(c *gin.Context, _ models.Caller) {
	ctx := c.Request.Context()
	id, ok := idParam(c)
	if !ok {
		return
	}
	var body replaceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	patch := models.TodoPatch{Title: body.Title, Content: body.Content, IsFinished: body.IsFinished}
	todo, err := tc.store.PatchTodo(ctx, id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	tc.afterChange(ctx, models.EventUpdated, todo)
	c.JSON(http.StatusOK, todo)
}

// Delete handles DELETE /todos/:id: 204 on success, 404 on unknown id.
func (tc *TodoController) Delete(c *gin.Context, _ models.Caller) {
	ctx := c.Request.Context()
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := tc.store.DeleteTodo(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	tc.afterChange(ctx, models.EventDeleted, &models.Todo{ID: id})
	c.Status(http.StatusNoContent)
}

// afterChange drops the cached list and publishes the change event. Both are
// best-effort: the mutation already committed.
func (tc *TodoController) afterChange(ctx context.Context, action string, todo *models.Todo) {
	ctx = context.WithoutCancel(ctx)
	if tc.cache != nil {
		tc.cache.Invalidate(ctx)
	}
	if tc.events == nil {
		return
	}
	ev := models.TodoEvent{
		EventID:    uuid.New().String(),
		Action:     action,
		TodoID:     todo.ID,
		Owner:      todo.Owner,
		OccurredAt: time.Now().UTC(),
	}
	if err := tc.events.PublishTodoEvent(ctx, ev); err != nil {
		logger.Warn(ctx, "Publish todo event failed", "error", err, "action", action, "todo_id", todo.ID)
	}
}

// filterFromQuery builds the typed filter from query parameters. Absent
// parameters are skipped; present ones must parse.
func filterFromQuery(c *gin.Context) (models.TodoFilter, error) {
	var f models.TodoFilter
	if v, ok := c.GetQuery("title"); ok {
		f.Title = &v
	}
	if v, ok := c.GetQuery("content"); ok {
		f.Content = &v
	}
	if v, ok := c.GetQuery("user"); ok {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, errors.New("user filter must be an integer id")
		}
		f.Owner = &id
	}
	if v, ok := c.GetQuery("is_finished"); ok {
		b := truthy(v)
		f.IsFinished = &b
	}
	if v, ok := c.GetQuery("created_at"); ok {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, errors.New("created_at filter must be an RFC 3339 timestamp")
		}
		f.CreatedAt = &t
	}
	if v, ok := c.GetQuery("updated_at"); ok {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, errors.New("updated_at filter must be an RFC 3339 timestamp")
		}
		f.UpdatedAt = &t
	}
	return f, nil
}

// truthy maps the accepted boolean query tokens: 1, y, yes, t, true
// (case-insensitive) are true, anything else is false.
func truthy(s string) bool {
	switch strings.ToLower(s) {
	case "1", "y", "yes", "t", "true":
		return true
	}
	return false
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return id, true
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// respondError maps domain errors to their status codes; anything else is an
// opaque 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		logger.Error(c.Request.Context(), "Handler failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
