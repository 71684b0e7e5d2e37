package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"consent-backend/internal/shared/server/respond"
)

const (
	patientIDKey    = "patientId"
	sessionTokenKey = "sessionToken"
)

// SessionValidator resolves a session token to the owning patient ID.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (string, error)
}

// Auth validates session tokens and stores the patient identity in context.
// Login and health endpoints are reachable without a token.
func Auth(validator SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		path := c.Request.URL.Path
		if strings.HasSuffix(path, "/login") || strings.HasSuffix(path, "/health") {
			c.Next()
			return
		}

		token := bearerToken(c)
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		patientID, err := validator.Validate(c.Request.Context(), token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		c.Set(patientIDKey, patientID)
		c.Set(sessionTokenKey, token)
		c.Next()
	}
}

// PatientIDFromContext fetches the patient ID set by the auth middleware.
func PatientIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(patientIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// SessionTokenFromContext fetches the raw token set by the auth middleware.
func SessionTokenFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(sessionTokenKey)
	if token, ok := val.(string); ok {
		return token
	}
	return ""
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
}
