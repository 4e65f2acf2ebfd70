package controller

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports reachability of an optional dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health returns 200 if the process is alive. Used by load balancers.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Ready returns a handler that reports 200 when the database (and Redis,
// when configured) are reachable. Used by readiness probes.
func Ready(db *sql.DB, cache Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
			return
		}
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database ping failed"})
			return
		}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis ping failed"})
				return
			}
		}
		c.String(http.StatusOK, "OK")
	}
}
