package query

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"consent-backend/internal/consents"
	"consent-backend/internal/patients"
)

func queryTestRouter(t *testing.T, provider *fakeProvider) (*gin.Engine, patients.Patient, consents.Repo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	patientRepo := patients.NewMemoryRepo()
	consentRepo := consents.NewMemoryRepo()
	patient := samplePatient()
	if err := patientRepo.Create(context.Background(), patient); err != nil {
		t.Fatalf("seed patient: %v", err)
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("patientId", patient.ID)
		c.Next()
	})
	api := r.Group("/api")
	NewHandler(&Service{LLM: provider}, patientRepo, consentRepo).RegisterRoutes(api)
	return r, patient, consentRepo
}

func TestQueryEndpointNoRecords(t *testing.T) {
	r, _, _ := queryTestRouter(t, &fakeProvider{reply: "unused"})

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{"question": "what?"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Answer != NoRecordsMessage {
		t.Fatalf("answer: %q", body.Answer)
	}
}

func TestQueryEndpointEmptyQuestion(t *testing.T) {
	r, _, _ := queryTestRouter(t, &fakeProvider{})

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{"question": "   "}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestStatsEndpointCountsConsents(t *testing.T) {
	r, patient, consentRepo := queryTestRouter(t, &fakeProvider{})

	for _, id := range []string{"consent-1", "consent-2"} {
		entry := sampleEntries()[0]
		entry.ID = "index-" + id
		entry.ConsentID = id
		consent := consents.Consent{ID: id, PatientID: patient.ID}
		if err := consentRepo.CreateWithIndex(context.Background(), consent, entry); err != nil {
			t.Fatalf("seed consent: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		TotalConsents int `json:"totalConsents"`
		Patient       struct {
			Email string `json:"email"`
		} `json:"patient"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.TotalConsents != 2 {
		t.Fatalf("totalConsents: %d", body.TotalConsents)
	}
	if body.Patient.Email != patient.Email {
		t.Fatalf("patient email: %q", body.Patient.Email)
	}
}
