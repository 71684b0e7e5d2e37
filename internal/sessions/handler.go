package sessions

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"consent-backend/internal/patients"
	"consent-backend/internal/shared/server/middleware"
	"consent-backend/internal/shared/server/respond"
	"consent-backend/internal/shared/telemetry"
)

// Handler wires HTTP handlers to the session service.
type Handler struct {
	Svc      *Service
	Patients patients.Repo
	Resolver *patients.Resolver
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, repo patients.Repo, resolver *patients.Resolver) *Handler {
	return &Handler{Svc: svc, Patients: repo, Resolver: resolver}
}

// RegisterRoutes attaches session routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.login)
	rg.POST("/logout", h.logout)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Patient   struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"patient"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	email := patients.NormalizeEmail(req.Email)
	if email == "" || strings.TrimSpace(req.Password) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "email and password are required", nil)
		return
	}

	patient, err := h.Patients.GetByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, patients.ErrNotFound) {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "invalid email or password", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "login failed", nil)
		return
	}

	if !h.Resolver.CheckPassword(patient, req.Password) {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "invalid email or password", nil)
		return
	}

	session, err := h.Svc.Start(c.Request.Context(), patient.ID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "login failed", nil)
		return
	}

	telemetry.Info("session.started", map[string]any{
		"patient_id": patient.ID,
		"expires_at": session.ExpiresAt,
	})

	var resp loginResponse
	resp.Token = session.Token
	resp.ExpiresAt = session.ExpiresAt
	resp.Patient.ID = patient.ID
	resp.Patient.Name = patient.Name
	resp.Patient.Email = patient.Email
	respond.OK(c, resp)
}

func (h *Handler) logout(c *gin.Context) {
	token := middleware.SessionTokenFromContext(c)
	if err := h.Svc.End(c.Request.Context(), token); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "logout failed", nil)
		return
	}
	respond.OK(c, gin.H{"ok": true})
}
