package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"todoapi/internal/models"
)

// UserStore is the read-only user access the user handlers need.
type UserStore interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// UserController serves the read-only /users resource.
type UserController struct {
	store UserStore
}

func NewUserController(store UserStore) *UserController {
	return &UserController{store: store}
}

// List handles GET /users.
func (uc *UserController) List(c *gin.Context, _ models.Caller) {
	users, err := uc.store.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": users})
}

// Get handles GET /users/:id.
func (uc *UserController) Get(c *gin.Context, _ models.Caller) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	user, err := uc.store.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
