package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"todoapi/internal/models"
	"todoapi/pkg/logger"
)

const callerKey = "caller"

type authClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Auth rejects requests without a valid HS256 Bearer token. The token subject
// is the numeric user id; a username claim is carried alongside. On success
// the caller identity is stored for CallerFrom.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		auth := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if auth == "" || !strings.HasPrefix(auth, prefix) {
			logger.Debug(ctx, "Missing or invalid Authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server misconfiguration"})
			return
		}
		tokenStr := strings.TrimSpace(auth[len(prefix):])
		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			logger.Debug(ctx, "JWT parse failed", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		id, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			logger.Debug(ctx, "JWT subject is not a user id", "subject", claims.Subject)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Set(callerKey, models.Caller{ID: id, Username: claims.Username})
		c.Next()
	}
}

// CallerFrom returns the authenticated caller stored by Auth.
func CallerFrom(c *gin.Context) (models.Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return models.Caller{}, false
	}
	caller, ok := v.(models.Caller)
	return caller, ok
}

// RequestID tags each request with an id, echoed in the X-Request-ID header
// and attached to the context logger.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Header("X-Request-ID", id)
		ctx := logger.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
