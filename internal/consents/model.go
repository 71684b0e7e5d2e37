package consents

import "time"

// Consent is one raw+annotated ingestion record, immutable after creation
// and owned exclusively by its patient.
type Consent struct {
	ID           string    `json:"id"`
	PatientID    string    `json:"patientId"`
	Filename     string    `json:"filename"`
	FullText     string    `json:"-"`
	AnalysisJSON string    `json:"-"`
	ProcessedAt  time.Time `json:"processedAt"`
}

// EntityIndex is the searchable projection of one Consent. It shares the
// consent's lifecycle and always references the same patient.
type EntityIndex struct {
	ID             string    `json:"id"`
	ConsentID      string    `json:"consentId"`
	PatientID      string    `json:"patientId"`
	PatientName    string    `json:"patientName"`
	PatientEmail   string    `json:"patientEmail"`
	PatientDOB     *string   `json:"patientDob"`
	DoctorName     string    `json:"doctorName"`
	Procedure      string    `json:"procedure"`
	ProcedureDate  *string   `json:"procedureDate"`
	ConsentedItems string    `json:"consentedItems"` // JSON array of strings
	DeclinedItems  string    `json:"declinedItems"`  // JSON array of strings
	Summary        string    `json:"summary"`
	SearchTerms    string    `json:"searchTerms"`
	ProcessedAt    time.Time `json:"processedAt"`
}
