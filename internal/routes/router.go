package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"todoapi/internal/controller"
	"todoapi/internal/middleware"
)

// Router assembles the HTTP surface: health probes stay open, everything
// else sits behind the JWT gate.
func Router(jwtSecret string, todos *controller.TodoController, users *controller.UserController, db *sql.DB, cache controller.Pinger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())

	// Health for load balancers and K8s probes
	router.GET("/health", controller.Health)
	router.GET("/ready", controller.Ready(db, cache))

	api := router.Group("")
	api.Use(middleware.Auth(jwtSecret))
	{
		api.GET("/todos", controller.WithCaller(todos.List))
		api.POST("/todos", controller.WithCaller(todos.Create))
		api.GET("/todos/:id", controller.WithCaller(todos.Get))
		api.PUT("/todos/:id", controller.WithCaller(todos.Replace))
		api.PATCH("/todos/:id", controller.WithCaller(todos.Patch))
		api.DELETE("/todos/:id", controller.WithCaller(todos.Delete))

		api.GET("/users", controller.WithCaller(users.List))
		api.GET("/users/:id", controller.WithCaller(users.Get))
	}

	return router
}
