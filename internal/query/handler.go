package query

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"consent-backend/internal/consents"
	"consent-backend/internal/patients"
	"consent-backend/internal/shared/server/middleware"
	"consent-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the query service.
type Handler struct {
	Svc      *Service
	Patients patients.Repo
	Consents consents.Repo
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, patientRepo patients.Repo, consentRepo consents.Repo) *Handler {
	return &Handler{Svc: svc, Patients: patientRepo, Consents: consentRepo}
}

// RegisterRoutes attaches query routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/query", h.query)
	rg.GET("/stats", h.stats)
}

type queryRequest struct {
	Question string `json:"question"`
}

func (h *Handler) query(c *gin.Context) {
	patientID := middleware.PatientIDFromContext(c)

	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "question is required", nil)
		return
	}

	patient, err := h.Patients.GetByID(c.Request.Context(), patientID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load patient", nil)
		return
	}

	entries, err := h.Consents.ListIndexByPatient(c.Request.Context(), patientID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load consent records", nil)
		return
	}

	answer := h.Svc.Answer(c.Request.Context(), patient, question, entries)
	respond.OK(c, gin.H{"answer": answer})
}

func (h *Handler) stats(c *gin.Context) {
	patientID := middleware.PatientIDFromContext(c)

	patient, err := h.Patients.GetByID(c.Request.Context(), patientID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load patient", nil)
		return
	}

	count, err := h.Consents.CountByPatient(c.Request.Context(), patientID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to count consent records", nil)
		return
	}

	respond.OK(c, gin.H{
		"patient": gin.H{
			"id":    patient.ID,
			"name":  patient.Name,
			"email": patient.Email,
		},
		"totalConsents": count,
	})
}
