package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakeValidator struct {
	patientID string
	err       error
}

func (f *fakeValidator) Validate(ctx context.Context, token string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.patientID, nil
}

func authRouter(validator SessionValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(validator))
	r.GET("/api/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"patientId": PatientIDFromContext(c)})
	})
	r.POST("/api/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestAuthMissingTokenRejected(t *testing.T) {
	r := authRouter(&fakeValidator{patientID: "patient-1"})

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAuthInvalidTokenRejected(t *testing.T) {
	r := authRouter(&fakeValidator{err: errors.New("session not found")})

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAuthValidTokenSetsPatient(t *testing.T) {
	r := authRouter(&fakeValidator{patientID: "patient-1"})

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if body := resp.Body.String(); body != `{"patientId":"patient-1"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestAuthSkipsLoginAndHealth(t *testing.T) {
	r := authRouter(&fakeValidator{err: errors.New("never called")})

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/login"},
		{http.MethodGet, "/api/health"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s %s expected 200, got %d", tc.method, tc.path, resp.Code)
		}
	}
}
