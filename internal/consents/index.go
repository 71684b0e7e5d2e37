package consents

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"consent-backend/internal/analysis"
)

// BuildIndex flattens a canonical record into an EntityIndex for the given
// consent and patient. Pure transform; persistence is the caller's concern.
func BuildIndex(consentID, patientID string, record analysis.Record) (EntityIndex, error) {
	consented, err := json.Marshal(record.ConsentedItems)
	if err != nil {
		return EntityIndex{}, fmt.Errorf("marshal consented items: %w", err)
	}
	declined, err := json.Marshal(record.DeclinedItems)
	if err != nil {
		return EntityIndex{}, fmt.Errorf("marshal declined items: %w", err)
	}

	return EntityIndex{
		ID:             uuid.NewString(),
		ConsentID:      consentID,
		PatientID:      patientID,
		PatientName:    record.PatientName,
		PatientEmail:   record.PatientEmail,
		PatientDOB:     record.PatientDOB,
		DoctorName:     record.DoctorName,
		Procedure:      record.Procedure,
		ProcedureDate:  record.ProcedureDate,
		ConsentedItems: string(consented),
		DeclinedItems:  string(declined),
		Summary:        record.Summary,
		SearchTerms:    searchTerms(record),
		ProcessedAt:    time.Now().UTC(),
	}, nil
}

// searchTerms builds the lower-cased, deduplicated term set: the full
// patient name, each name token, the email, the procedure, and the doctor
// name. First-seen order is kept so the output is deterministic.
func searchTerms(record analysis.Record) string {
	candidates := make([]string, 0, 8)
	if name := strings.ToLower(strings.TrimSpace(record.PatientName)); name != "" {
		candidates = append(candidates, name)
		candidates = append(candidates, strings.Fields(name)...)
	}
	if email := strings.ToLower(strings.TrimSpace(record.PatientEmail)); email != "" {
		candidates = append(candidates, email)
	}
	if proc := strings.ToLower(strings.TrimSpace(record.Procedure)); proc != "" {
		candidates = append(candidates, proc)
	}
	if doctor := strings.ToLower(strings.TrimSpace(record.DoctorName)); doctor != "" {
		candidates = append(candidates, doctor)
	}

	seen := make(map[string]struct{}, len(candidates))
	terms := make([]string, 0, len(candidates))
	for _, term := range candidates {
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	return strings.Join(terms, " ")
}
